package models

import "time"

// User represents a registered account. Group membership is tracked in
// group_members, not on the user row.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Authentication fields
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Profile information
	Skills    []string `gorm:"serializer:json" json:"skills"`
	Interests []string `gorm:"serializer:json" json:"interests"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
