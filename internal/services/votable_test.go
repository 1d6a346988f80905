package services

import (
	"testing"
	"time"
)

func TestWindowClosed_PostWindowBoundary(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := &votable{windowAnchor: created, window: PostVoteWindow}

	if v.windowClosed(created.Add(PostVoteWindow - time.Second)) {
		t.Fatalf("window should still be open just before the limit")
	}
	if v.windowClosed(created.Add(PostVoteWindow)) {
		t.Fatalf("the boundary instant itself is still inside the window")
	}
	if !v.windowClosed(created.Add(PostVoteWindow + time.Second)) {
		t.Fatalf("window should be closed past the limit")
	}
}

func TestWindowClosed_ZeroWindowNeverCloses(t *testing.T) {
	v := &votable{windowAnchor: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}
	if v.windowClosed(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("entities without an age limit never close")
	}
}
