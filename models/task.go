package models

import "time"

// Task is a to-do item. The assignee, when set, may only toggle Completed;
// every other field belongs to the creator.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	GroupID     *uint      `gorm:"index" json:"group_id,omitempty"`
	AssignedTo  *uint      `gorm:"index" json:"assigned_to,omitempty"`
	CreatedBy   uint       `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
