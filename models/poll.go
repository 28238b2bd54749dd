package models

import "time"

// Poll holds a question and its options. A poll is open while ClosesAt is
// nil or in the future; the transition to closed is evaluated lazily at
// read and vote time.
type Poll struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Question  string     `gorm:"not null" json:"question"`
	GroupID   *uint      `gorm:"index" json:"group_id,omitempty"`
	CreatedBy uint       `gorm:"not null;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	ClosesAt  *time.Time `json:"closes_at,omitempty"`

	// Relations
	Options []PollOption `gorm:"foreignKey:PollID" json:"options"`
}

// Closed reports whether the poll no longer accepts votes at t.
func (p *Poll) Closed(t time.Time) bool {
	return p.ClosesAt != nil && p.ClosesAt.Before(t)
}

// PollOption is one answer choice. VoteCount always equals the number of
// poll_votes rows pointing at the option.
type PollOption struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PollID    uint   `gorm:"not null;index" json:"poll_id"`
	Position  int    `gorm:"not null" json:"position"`
	Text      string `gorm:"not null" json:"text"`
	VoteCount int    `gorm:"default:0" json:"votes"`

	// Voters is filled from poll_votes when a poll is serialized.
	Voters []uint `gorm:"-" json:"voters"`
}

// PollVote records a cast ballot. The composite unique index on
// (poll_id, user_id) is what enforces one vote per user per poll: the
// insert is the atomic "record voter unless already present" step.
type PollVote struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PollID   uint      `gorm:"not null;index;uniqueIndex:idx_poll_voter" json:"poll_id"`
	OptionID uint      `gorm:"not null;index" json:"option_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_poll_voter" json:"user_id"`
	CastAt   time.Time `gorm:"autoCreateTime" json:"cast_at"`
}
