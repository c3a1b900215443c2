package model

// ProximityEvent is emitted when a task location transitions from
// out-of-range to in-range for a user. Exactly one event is produced
// per transition; re-entering range after leaving it produces a new
// event.
type ProximityEvent struct {
	// UserID is the user who came within range.
	UserID string `json:"user_id"`

	// TaskLocationID identifies the pinned location entered.
	TaskLocationID string `json:"task_location_id"`

	// Place is the location's human-readable label.
	Place string `json:"place"`

	// TaskDescription is the task attached to the location.
	TaskDescription string `json:"task_description"`

	// Coordinate is the pinned position of the location.
	Coordinate Coordinate `json:"coordinate"`

	// DistanceKm is the computed distance from the triggering sample.
	DistanceKm float64 `json:"distance_km"`
}
