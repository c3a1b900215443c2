package engine

import (
	"testing"

	"github.com/kazipo/geo-reminder/internal/geo"
	"github.com/kazipo/geo-reminder/internal/model"
)

// Distances below are along the equator: one degree of longitude is
// ~111.19 km, so 0.0045° ≈ 0.5 km, 0.0135° ≈ 1.5 km, 0.0027° ≈ 0.3 km.
var (
	origin = model.Coordinate{Latitude: 0, Longitude: 0}

	market = model.TaskLocation{
		ID:              "loc-market",
		OwnerID:         "user-1",
		Place:           "Central Market",
		TaskDescription: "Buy vegetables",
		Coordinate:      model.Coordinate{Latitude: 0, Longitude: 0.0045},
	}
)

func TestMatcherEmitsOnceWhileInRange(t *testing.T) {
	m := NewMatcher()
	locations := []model.TaskLocation{market}

	events := m.Evaluate(origin, locations, 1.0)
	if len(events) != 1 {
		t.Fatalf("first sample produced %d events, want 1", len(events))
	}
	event := events[0]
	if event.TaskLocationID != "loc-market" || event.Place != "Central Market" {
		t.Errorf("got event %+v", event)
	}
	if event.TaskDescription != "Buy vegetables" {
		t.Errorf("event task description = %q", event.TaskDescription)
	}
	if !m.InRange("loc-market") {
		t.Error("location not marked in range after the transition")
	}

	// An identical second sample produces no duplicate.
	events = m.Evaluate(origin, locations, 1.0)
	if len(events) != 0 {
		t.Errorf("second identical sample produced %d events, want 0", len(events))
	}
}

func TestMatcherRearmsAfterLeavingRange(t *testing.T) {
	m := NewMatcher()
	locations := []model.TaskLocation{market}

	near := origin                                                                        // ~0.5 km
	far := model.Coordinate{Latitude: 0, Longitude: market.Coordinate.Longitude + 0.0135} // ~1.5 km
	back := model.Coordinate{Latitude: 0, Longitude: market.Coordinate.Longitude + 0.0027} // ~0.3 km

	total := 0
	total += len(m.Evaluate(near, locations, 1.0))
	total += len(m.Evaluate(far, locations, 1.0))
	if m.InRange("loc-market") {
		t.Error("location still in range after moving away")
	}
	total += len(m.Evaluate(back, locations, 1.0))

	if total != 2 {
		t.Errorf("got %d events across in/out/in samples, want 2", total)
	}
}

func TestMatcherBoundaryInclusive(t *testing.T) {
	m := NewMatcher()
	locations := []model.TaskLocation{market}

	// A threshold exactly equal to the computed distance counts as in
	// range.
	d := geo.Distance(origin, market.Coordinate)
	events := m.Evaluate(origin, locations, d)
	if len(events) != 1 {
		t.Errorf("distance == threshold produced %d events, want 1 (inclusive boundary)", len(events))
	}

	// The tiniest shortfall puts it out of range.
	m2 := NewMatcher()
	events = m2.Evaluate(origin, locations, d*0.999)
	if len(events) != 0 {
		t.Errorf("distance > threshold produced %d events, want 0", len(events))
	}
}

func TestMatcherMultipleLocations(t *testing.T) {
	m := NewMatcher()
	harbor := model.TaskLocation{
		ID:         "loc-harbor",
		OwnerID:    "user-1",
		Place:      "Harbor",
		Coordinate: model.Coordinate{Latitude: 0, Longitude: 0.045}, // ~5 km
	}
	locations := []model.TaskLocation{market, harbor}

	events := m.Evaluate(origin, locations, 1.0)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (only the market is within 1 km)", len(events))
	}
	if events[0].TaskLocationID != "loc-market" {
		t.Errorf("event for %s, want loc-market", events[0].TaskLocationID)
	}
	if m.InRange("loc-harbor") {
		t.Error("harbor marked in range at ~5 km")
	}
}

func TestMatcherPrunesDeletedLocations(t *testing.T) {
	m := NewMatcher()

	if n := len(m.Evaluate(origin, []model.TaskLocation{market}, 1.0)); n != 1 {
		t.Fatalf("got %d events, want 1", n)
	}

	// The location disappears from the snapshot (user deleted it)…
	if n := len(m.Evaluate(origin, nil, 1.0)); n != 0 {
		t.Fatalf("empty snapshot produced %d events", n)
	}
	if m.InRange("loc-market") {
		t.Error("state for a deleted location was retained")
	}

	// …and re-creating it notifies again even at the same position.
	if n := len(m.Evaluate(origin, []model.TaskLocation{market}, 1.0)); n != 1 {
		t.Errorf("re-created location produced %d events, want 1", n)
	}
}

func TestMatcherThresholdChangesTakeEffect(t *testing.T) {
	m := NewMatcher()
	locations := []model.TaskLocation{market} // ~0.5 km away

	if n := len(m.Evaluate(origin, locations, 0.1)); n != 0 {
		t.Fatalf("tight threshold produced %d events", n)
	}

	// Widening the threshold mid-flight counts as entering range on
	// the next evaluation.
	if n := len(m.Evaluate(origin, locations, 1.0)); n != 1 {
		t.Errorf("widened threshold produced %d events, want 1", n)
	}
}
