package models

import "time"

// Group represents a study group. The creator is always a member.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	CreatedBy   uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

// GroupMember joins users to groups. A user appears at most once per group.
type GroupMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GroupID  uint      `gorm:"not null;index;uniqueIndex:idx_group_member" json:"group_id"`
	UserID   uint      `gorm:"not null;index;uniqueIndex:idx_group_member" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
