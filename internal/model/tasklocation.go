package model

import "time"

// TaskLocation pins a task to a place on the map.
//
// Rows are created and deleted, never updated: the distance-relevant
// fields are immutable for the lifetime of the record, so the engine
// can cache a snapshot for the duration of one evaluation cycle.
type TaskLocation struct {
	// ID is the unique identifier for this pinned location.
	ID string `json:"id"`

	// OwnerID is the user who pinned the task.
	OwnerID string `json:"owner_id"`

	// Place is the human-readable label of the location
	// (e.g., "Central Market"), used in notification bodies.
	Place string `json:"place"`

	// TaskDescription is the text of the task attached to the place.
	TaskDescription string `json:"task_description"`

	// Coordinate is the pinned geographic position.
	Coordinate Coordinate `json:"coordinate"`

	// CreatedAt is when the user pinned the task.
	CreatedAt time.Time `json:"created_at"`
}
