package engine

import (
	"github.com/kazipo/geo-reminder/internal/geo"
	"github.com/kazipo/geo-reminder/internal/model"
)

// Matcher tracks, per pinned task location, whether the user was in
// range as of the last completed evaluation, and emits a ProximityEvent
// only on the out-of-range to in-range transition. Leaving range
// re-arms the location for a future event.
//
// A location counts as in range when the haversine distance from the
// sample is smaller than or equal to the threshold (the boundary is
// inclusive).
//
// Matcher is not safe for concurrent use; the engine serializes
// evaluations behind its single-flight gate.
type Matcher struct {
	inRange map[string]bool
}

// NewMatcher creates a Matcher with every location out of range.
func NewMatcher() *Matcher {
	return &Matcher{
		inRange: make(map[string]bool),
	}
}

// Evaluate classifies every location in the snapshot against the
// sample and threshold, updates the range state, and returns one event
// per location that just entered range. State for locations absent
// from the snapshot (deleted by the user) is discarded.
//
// Evaluate is only called for cycles that obtained both a sample and a
// snapshot; a failed cycle leaves the state exactly as it was, so
// transient failures can neither duplicate nor drop events.
func (m *Matcher) Evaluate(sample model.Coordinate, locations []model.TaskLocation, thresholdKm float64) []model.ProximityEvent {
	seen := make(map[string]bool, len(locations))

	var events []model.ProximityEvent
	for _, loc := range locations {
		seen[loc.ID] = true

		d := geo.Distance(sample, loc.Coordinate)
		in := d <= thresholdKm

		if in && !m.inRange[loc.ID] {
			events = append(events, model.ProximityEvent{
				UserID:          loc.OwnerID,
				TaskLocationID:  loc.ID,
				Place:           loc.Place,
				TaskDescription: loc.TaskDescription,
				Coordinate:      loc.Coordinate,
				DistanceKm:      d,
			})
		}
		m.inRange[loc.ID] = in
	}

	for id := range m.inRange {
		if !seen[id] {
			delete(m.inRange, id)
		}
	}

	return events
}

// InRange reports whether the location was in range as of the last
// evaluation. Unknown locations are out of range.
func (m *Matcher) InRange(taskLocationID string) bool {
	return m.inRange[taskLocationID]
}
