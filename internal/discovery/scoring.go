// internal/discovery/scoring.go
// Multi-factor compatibility scoring. Every sub-score lives in [0,1] and the
// overall value is the weighted sum, clamped.

package discovery

import (
	"fmt"
	"math"
	"time"

	"github.com/embermatch/ember-backend/internal/geo"
)

// Factor weights. They sum to 1.0.
const (
	weightInterests    = 0.30
	weightDemographics = 0.20
	weightActivity     = 0.20
	weightBehavior     = 0.15
	weightLocation     = 0.15
)

const (
	neutralBehaviorScore = 0.5
	maxMatchReasons      = 3
)

// popularInterests is the fixed popularity ranking used for weighted interest
// overlap. Rank r gets weight 1 - 0.05*r; anything off the list gets 0.5.
var popularInterests = []string{
	"travel",
	"music",
	"fitness",
	"food",
	"movies",
	"reading",
	"hiking",
	"photography",
	"cooking",
	"art",
	"gaming",
	"dancing",
}

// Lifestyle buckets for the demographic similarity signal.
var (
	activeInterests   = []string{"fitness", "sports", "hiking", "dancing", "running"}
	culturalInterests = []string{"art", "music", "books", "museums", "theater"}
	socialInterests   = []string{"travel", "food", "parties", "bars", "concerts"}
)

// Scorer computes compatibility scores. The popularity weights are built once
// at construction.
type Scorer struct {
	interestWeights map[string]float64
}

func NewScorer() *Scorer {
	weights := make(map[string]float64, len(popularInterests))
	for rank, interest := range popularInterests {
		weights[interest] = 1 - 0.05*float64(rank)
	}
	return &Scorer{interestWeights: weights}
}

// Score computes the compatibility of candidate against requester. The
// returned distance is in km, or -1 when either side has no location. The
// history parameter may be nil; the behavior factor then defaults to neutral.
func (s *Scorer) Score(requester, candidate *Profile, criteria *PreferenceCriteria, history *BehaviorProfile) (*CompatibilityScore, float64, error) {
	if candidate == nil || candidate.Age <= 0 {
		return nil, 0, ErrInvalidCandidate
	}

	breakdown := ScoreBreakdown{
		Interests:    s.interestScore(requester.Interests, candidate.Interests),
		Demographics: demographicScore(requester, candidate),
		Activity:     activityScore(requester, candidate),
		Behavior:     behaviorSubScore(history, candidate),
	}

	distance := -1.0
	origin := criteria.Location
	if origin == nil {
		origin = requester.Location
	}
	if origin != nil && candidate.Location != nil {
		d, err := geo.Distance(origin.Latitude, origin.Longitude, candidate.Location.Latitude, candidate.Location.Longitude)
		if err != nil {
			return nil, 0, err
		}
		distance = d
		breakdown.Location = locationScore(d, criteria.MaxDistanceKm)
	}

	overall := breakdown.Interests*weightInterests +
		breakdown.Demographics*weightDemographics +
		breakdown.Activity*weightActivity +
		breakdown.Behavior*weightBehavior +
		breakdown.Location*weightLocation

	score := &CompatibilityScore{
		Overall:   clamp01(overall),
		Breakdown: breakdown,
	}
	score.Reasons = buildReasons(requester, candidate, score)

	return score, distance, nil
}

// interestScore blends raw overlap with popularity-weighted overlap.
func (s *Scorer) interestScore(requesterInterests, candidateInterests []string) float64 {
	denom := len(requesterInterests)
	if len(candidateInterests) > denom {
		denom = len(candidateInterests)
	}
	if denom == 0 {
		return 0
	}

	set := make(map[string]bool, len(requesterInterests))
	for _, interest := range requesterInterests {
		set[interest] = true
	}

	common := 0
	weighted := 0.0
	for _, interest := range candidateInterests {
		if !set[interest] {
			continue
		}
		common++
		if w, ok := s.interestWeights[interest]; ok {
			weighted += w
		} else {
			weighted += 0.5
		}
	}

	base := float64(common) / float64(denom)
	return 0.6*base + 0.4*weighted/float64(denom)
}

// demographicScore: 0.4 age closeness + 0.3 education baseline + 0.3
// lifestyle similarity. The education term carries no real signal yet.
func demographicScore(requester, candidate *Profile) float64 {
	ageDiff := math.Abs(float64(requester.Age - candidate.Age))
	ageCloseness := math.Max(0, (10-ageDiff)/10)

	return 0.4*ageCloseness + 0.3 + 0.3*lifestyleSimilarity(requester.Interests, candidate.Interests)
}

func lifestyleSimilarity(a, b []string) float64 {
	buckets := [][]string{activeInterests, culturalInterests, socialInterests}

	total := 0.0
	for _, bucket := range buckets {
		countA := bucketCount(a, bucket)
		countB := bucketCount(b, bucket)
		denom := countA + countB
		if denom < 1 {
			denom = 1
		}
		total += 1 - math.Abs(float64(countA-countB))/float64(denom)
	}
	return total / float64(len(buckets))
}

func bucketCount(interests, bucket []string) int {
	set := make(map[string]bool, len(bucket))
	for _, b := range bucket {
		set[b] = true
	}
	count := 0
	for _, interest := range interests {
		if set[interest] {
			count++
		}
	}
	return count
}

func activityScore(requester, candidate *Profile) float64 {
	return (recencyScore(requester.LastActive) + recencyScore(candidate.LastActive)) / 2
}

func recencyScore(lastActive time.Time) float64 {
	days := time.Since(lastActive).Hours() / 24
	return math.Max(0, (7-days)/7)
}

func locationScore(distance, maxDistance float64) float64 {
	if maxDistance <= 0 || distance > maxDistance {
		return 0
	}
	return math.Max(0, (maxDistance-distance)/maxDistance)
}

// behaviorSubScore is the like-rate among prior swipes on similar profiles
// (age within 3 years and at least one shared interest), or neutral when no
// similar swipe exists.
func behaviorSubScore(history *BehaviorProfile, candidate *Profile) float64 {
	if history == nil || len(history.Swipes) == 0 {
		return neutralBehaviorScore
	}

	similar, liked := 0, 0
	for i := range history.Swipes {
		rec := &history.Swipes[i]
		ageDiff := rec.Features.Age - candidate.Age
		if ageDiff < -3 || ageDiff > 3 {
			continue
		}
		if !sharesAnyInterest(rec.Features.Interests, candidate.Interests) {
			continue
		}
		similar++
		if rec.Liked {
			liked++
		}
	}

	if similar == 0 {
		return neutralBehaviorScore
	}
	return float64(liked) / float64(similar)
}

// buildReasons emits up to three human-readable reasons in fixed priority
// order.
func buildReasons(requester, candidate *Profile, score *CompatibilityScore) []string {
	var reasons []string

	if score.Breakdown.Interests > 0.7 {
		common := countCommonInterests(requester.Interests, candidate.Interests)
		reasons = append(reasons, fmt.Sprintf("You share %d interests", common))
	}

	ageDiff := requester.Age - candidate.Age
	if ageDiff >= -3 && ageDiff <= 3 {
		reasons = append(reasons, "Close in age")
	}

	if score.Breakdown.Activity > 0.7 {
		reasons = append(reasons, "Recently active")
	}

	if score.Breakdown.Location > 0.8 {
		reasons = append(reasons, "Lives nearby")
	}

	if candidate.Verified {
		reasons = append(reasons, "Verified profile")
	}

	if len(reasons) > maxMatchReasons {
		reasons = reasons[:maxMatchReasons]
	}
	return reasons
}

func countCommonInterests(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, interest := range a {
		set[interest] = true
	}
	count := 0
	for _, interest := range b {
		if set[interest] {
			count++
		}
	}
	return count
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
