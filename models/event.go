package models

import "time"

// CalendarEvent is a scheduled item, optionally scoped to a group and
// optionally shared with individual participants.
type CalendarEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	StartAt     time.Time `gorm:"not null" json:"start"`
	EndAt       time.Time `gorm:"not null" json:"end"`
	GroupID     *uint     `gorm:"index" json:"group_id,omitempty"`
	CreatedBy   uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Participants []EventParticipant `gorm:"foreignKey:EventID" json:"participants,omitempty"`
}

// EventParticipant joins users to events they take part in.
type EventParticipant struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EventID uint `gorm:"not null;index;uniqueIndex:idx_event_participant" json:"event_id"`
	UserID  uint `gorm:"not null;index;uniqueIndex:idx_event_participant" json:"user_id"`
}
