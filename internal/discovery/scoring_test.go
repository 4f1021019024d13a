package discovery

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBounds(t *testing.T) {
	scorer := NewScorer()
	requester := fixtureProfile("req", 7)
	criteria := testCriteria()

	for _, candidate := range fixturePool(40, 7) {
		score, _, err := scorer.Score(&requester, &candidate, criteria, nil)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, score.Overall, 0.0)
		assert.LessOrEqual(t, score.Overall, 1.0)

		components := []float64{
			score.Breakdown.Interests,
			score.Breakdown.Demographics,
			score.Breakdown.Activity,
			score.Breakdown.Behavior,
			score.Breakdown.Location,
		}
		for i, c := range components {
			assert.GreaterOrEqual(t, c, 0.0, "component %d", i)
			assert.LessOrEqual(t, c, 1.0, "component %d", i)
		}
	}
}

func TestScoreReasonCap(t *testing.T) {
	scorer := NewScorer()

	requester := testProfile("req", 30, "travel", "music", "fitness")
	candidate := testProfile("cand", 30, "travel", "music", "fitness")
	candidate.Verified = true
	candidate.Location = offsetLocation(*requester.Location, 5)

	score, _, err := scorer.Score(&requester, &candidate, testCriteria(), nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(score.Reasons), 3)
	assert.Len(t, score.Reasons, 3)
}

// A well-matched nearby verified candidate must clear 0.5 and carry a
// verification mention.
func TestScoreStrongCandidate(t *testing.T) {
	scorer := NewScorer()

	requester := testProfile("req", 28, "travel", "music", "hiking", "food")
	candidate := testProfile("cand", 29, "travel", "music")
	candidate.Verified = true
	candidate.Location = offsetLocation(*requester.Location, 40)
	candidate.LastActive = time.Now().Add(-time.Hour)

	criteria := testCriteria()
	criteria.MinAge = 25
	criteria.MaxAge = 35
	criteria.MaxDistanceKm = 50

	score, distance, err := scorer.Score(&requester, &candidate, criteria, nil)
	require.NoError(t, err)

	assert.Greater(t, score.Overall, 0.5)
	assert.InDelta(t, 40, distance, 3)
	assert.Contains(t, score.Reasons, "Verified profile")
}

// With no swipe history the behavior component is exactly neutral for every
// candidate.
func TestScoreNeutralBehaviorWithoutHistory(t *testing.T) {
	scorer := NewScorer()
	requester := testProfile("req", 28, "travel")
	empty := &BehaviorProfile{RequesterID: "req"}

	for i, candidate := range fixturePool(10, 3) {
		score, _, err := scorer.Score(&requester, &candidate, testCriteria(), empty)
		require.NoError(t, err)
		assert.Equal(t, 0.5, score.Breakdown.Behavior, "candidate %d", i)
	}
}

func TestScoreBehaviorLikeRate(t *testing.T) {
	scorer := NewScorer()
	requester := testProfile("req", 28, "travel")
	candidate := testProfile("cand", 30, "hiking", "music")

	history := &BehaviorProfile{RequesterID: "req"}
	// Three similar swipes (age within 3, shared interest): two likes.
	for i, liked := range []bool{true, true, false} {
		target := testProfile(fmt.Sprintf("past-%d", i), 29, "hiking")
		history.Swipes = append(history.Swipes,
			NewSwipeRecord(fmt.Sprintf("s%d", i), "req", &target, liked, time.Now()))
	}
	// One dissimilar swipe that must be ignored.
	outlier := testProfile("outlier", 45, "gaming")
	history.Swipes = append(history.Swipes, NewSwipeRecord("s-out", "req", &outlier, false, time.Now()))

	score, _, err := scorer.Score(&requester, &candidate, testCriteria(), history)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, score.Breakdown.Behavior, 1e-9)
}

func TestInterestScoreBlendsPopularity(t *testing.T) {
	scorer := NewScorer()

	// Identical popular interests score near the top.
	high := scorer.interestScore([]string{"travel", "music"}, []string{"travel", "music"})
	assert.Greater(t, high, 0.9)

	// Obscure shared interests still count through the 0.5 default weight.
	niche := scorer.interestScore([]string{"falconry"}, []string{"falconry"})
	assert.InDelta(t, 0.6*1+0.4*0.5, niche, 1e-9)

	// No interests on either side.
	assert.Zero(t, scorer.interestScore(nil, nil))
}

func TestLocationScoreBeyondMaxDistance(t *testing.T) {
	assert.Zero(t, locationScore(120, 100))
	assert.Zero(t, locationScore(10, 0))
	assert.InDelta(t, 0.9, locationScore(10, 100), 1e-9)
}

func TestScoreRejectsMalformedCandidate(t *testing.T) {
	scorer := NewScorer()
	requester := testProfile("req", 28)

	bad := testProfile("bad", 0)
	_, _, err := scorer.Score(&requester, &bad, testCriteria(), nil)
	assert.ErrorIs(t, err, ErrInvalidCandidate)
}

func TestScoreWithoutLocations(t *testing.T) {
	scorer := NewScorer()
	requester := testProfile("req", 28, "travel")
	requester.Location = nil
	candidate := testProfile("cand", 28, "travel")
	candidate.Location = nil

	score, distance, err := scorer.Score(&requester, &candidate, testCriteria(), nil)
	require.NoError(t, err)
	assert.Equal(t, -1.0, distance)
	assert.Zero(t, score.Breakdown.Location)
}
