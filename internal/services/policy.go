package services

import (
	"math"
	"time"

	"github.com/agoradev/agora-backend/internal/types"
)

// nowFunc is swapped in tests to pin time.
var nowFunc = time.Now

// Policy constants for the karma/voting/frontpage rules. Magnitudes are
// product policy; the structure around them is what matters.
const (
	PostVoteWindow = 7 * 24 * time.Hour

	PostUpvoteKarma      = 10
	PostDownvoteKarma    = -2
	CommentUpvoteKarma   = 5
	CommentDownvoteKarma = -1

	SealExpiry = 30 * 24 * time.Hour

	FrontpageCapacity   = 24
	FrontpageWindow     = 24 * time.Hour
	FrontpageMinUpvotes = 2

	RankingTTL            = time.Hour
	RankingMaxPerPage     = 100
	RankingDefaultPerPage = 25

	// StreakLookback bounds how far back the streak ranking reads daily
	// karma rows when no timeframe window applies.
	StreakLookback = 365 * 24 * time.Hour

	RecentHistoryLimit = 20
)

// baseContribution is the karma granted to the content author for one vote,
// before any event multiplier. Relationship votes score the edge only and
// grant no karma.
func baseContribution(entityType types.EntityType, value int) int {
	if value == 0 {
		return 0
	}
	switch entityType {
	case types.EntityPost:
		if value > 0 {
			return PostUpvoteKarma
		}
		return PostDownvoteKarma
	case types.EntityComment:
		if value > 0 {
			return CommentUpvoteKarma
		}
		return CommentDownvoteKarma
	default:
		return 0
	}
}

// applyMultiplier scales a base delta, rounding half away from zero so a
// negative base stays symmetric with its positive counterpart.
func applyMultiplier(base int, multiplier float64) int {
	if multiplier == 1 || base == 0 {
		return base
	}
	scaled := float64(base) * multiplier
	if scaled >= 0 {
		return int(math.Floor(scaled + 0.5))
	}
	return int(math.Ceil(scaled - 0.5))
}

// defaultVoteTag preserves a non-null tag on post votes when the client
// omitted one.
func defaultVoteTag(value int) string {
	if value > 0 {
		return types.VoteTagInteresting
	}
	return types.VoteTagIrrelevant
}

// levelFor returns the highest level whose threshold is within karma, and the
// lowest level above it. levels must be ordered by required_karma ascending.
func levelFor(levels []*types.KarmaLevel, karma int) (current, next *types.KarmaLevel) {
	for _, level := range levels {
		if level.RequiredKarma <= karma {
			current = level
			continue
		}
		next = level
		break
	}
	return current, next
}

// shouldPromote is the frontpage displacement rule: below capacity always
// promotes; at capacity the candidate must strictly exceed the minimum
// occupant tally. Ties do not promote.
func shouldPromote(candidateUpvotes int, occupantUpvotes []int, capacity int) bool {
	if len(occupantUpvotes) < capacity {
		return true
	}
	min := occupantUpvotes[0]
	for _, n := range occupantUpvotes[1:] {
		if n < min {
			min = n
		}
	}
	return candidateUpvotes > min
}
