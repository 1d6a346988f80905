package services

import (
	"errors"
	"testing"

	"github.com/agoradev/agora-backend/internal/types"
)

func TestTallySwing_CoversEveryTransition(t *testing.T) {
	cases := []struct {
		name     string
		old, new int
		want     tallyDelta
	}{
		{"first upvote", 0, 1, tallyDelta{up: 1}},
		{"first downvote", 0, -1, tallyDelta{down: 1}},
		{"flip up to down", 1, -1, tallyDelta{up: -1, down: 1}},
		{"flip down to up", -1, 1, tallyDelta{up: 1, down: -1}},
		{"remove upvote", 1, 0, tallyDelta{up: -1}},
		{"remove downvote", -1, 0, tallyDelta{down: -1}},
		{"unchanged", 1, 1, tallyDelta{}},
	}
	for _, c := range cases {
		if got := tallySwing(c.old, c.new); got != c.want {
			t.Fatalf("%s: tallySwing(%d, %d)=%+v want %+v", c.name, c.old, c.new, got, c.want)
		}
	}
}

func TestNormalizeVoteTag_PostDefaultsWhenOmitted(t *testing.T) {
	tag, err := normalizeVoteTag(types.EntityPost, 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != types.VoteTagInteresting {
		t.Fatalf("positive post vote should default to interesting, got %q", tag)
	}

	tag, err = normalizeVoteTag(types.EntityPost, -1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != types.VoteTagIrrelevant {
		t.Fatalf("negative post vote should default to irrelevant, got %q", tag)
	}
}

func TestNormalizeVoteTag_CommentRequiresTag(t *testing.T) {
	if _, err := normalizeVoteTag(types.EntityComment, 1, ""); !errors.Is(err, ErrVoteTag) {
		t.Fatalf("expected ErrVoteTag, got %v", err)
	}
	tag, err := normalizeVoteTag(types.EntityComment, 1, types.VoteTagFunny)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != types.VoteTagFunny {
		t.Fatalf("expected funny, got %q", tag)
	}
}

func TestNormalizeVoteTag_RejectsUnknownTag(t *testing.T) {
	if _, err := normalizeVoteTag(types.EntityPost, 1, "brilliant"); !errors.Is(err, ErrVoteTag) {
		t.Fatalf("expected ErrVoteTag for unknown tag, got %v", err)
	}
	if _, err := normalizeVoteTag(types.EntityComment, -1, "meh"); !errors.Is(err, ErrVoteTag) {
		t.Fatalf("expected ErrVoteTag for unknown tag, got %v", err)
	}
}

func TestNormalizeVoteTag_RelationshipForbidsTags(t *testing.T) {
	if _, err := normalizeVoteTag(types.EntityRelationship, 1, types.VoteTagFunny); !errors.Is(err, ErrVoteTag) {
		t.Fatalf("expected ErrVoteTag, got %v", err)
	}
	tag, err := normalizeVoteTag(types.EntityRelationship, 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "" {
		t.Fatalf("relationship votes carry no tag, got %q", tag)
	}
}
