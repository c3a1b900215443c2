package model

import "time"

// Task priority levels (lower number = higher priority).
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Task is a plain to-do item, optionally pinned to a location via a
// separate TaskLocation record.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`

	// OwnerID is the user who created the task.
	OwnerID string `json:"owner_id"`

	// Description is the task text shown in lists and notifications.
	Description string `json:"description"`

	// Progress is the completion percentage, 0-100.
	Progress int `json:"progress"`

	// Priority is the task priority (use Priority* constants).
	Priority int `json:"priority"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
}
