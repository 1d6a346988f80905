package types

import (
	"testing"
	"time"
)

func TestCoversInstant_BoundsAreInclusive(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	event := &KarmaEvent{Type: KarmaEventTide, Multiplier: 1.5, StartAt: start, EndAt: end, IsActive: true}

	if !event.CoversInstant(start) {
		t.Fatalf("start instant should be covered")
	}
	if !event.CoversInstant(end) {
		t.Fatalf("end instant should be covered")
	}
	if !event.CoversInstant(start.Add(time.Hour)) {
		t.Fatalf("interior instant should be covered")
	}
	if event.CoversInstant(start.Add(-time.Second)) {
		t.Fatalf("instant before start should not be covered")
	}
	if event.CoversInstant(end.Add(time.Second)) {
		t.Fatalf("instant after end should not be covered")
	}
}

func TestCoversInstant_InactiveEventNeverCovers(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	event := &KarmaEvent{StartAt: start, EndAt: start.Add(time.Hour), IsActive: false}
	if event.CoversInstant(start.Add(time.Minute)) {
		t.Fatalf("deactivated event should not cover anything")
	}
}
