// internal/discovery/behavior.go
// Per-user swipe history and the behavioral re-ranking layer.

package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// maxSwipeHistory caps the per-user history; oldest records are evicted
	// first.
	maxSwipeHistory = 100

	// minHistoryForBoost is the minimum history size before behavioral
	// inference kicks in.
	minHistoryForBoost = 10

	// commonInterestShare: interests appearing in at least this fraction of
	// liked profiles count as learned preferences.
	commonInterestShare = 0.3
)

// BehaviorRepository owns the per-user swipe history. Append must be
// serialized per user; reads return an isolated snapshot.
type BehaviorRepository interface {
	Get(ctx context.Context, requesterID string) (*BehaviorProfile, error)
	Append(ctx context.Context, requesterID string, rec SwipeRecord) error
}

// memoryBehaviorRepository keeps history in process memory. Each user entry
// carries its own lock so concurrent requesters never contend.
type memoryBehaviorRepository struct {
	mu      sync.RWMutex
	entries map[string]*behaviorEntry
}

type behaviorEntry struct {
	mu      sync.Mutex
	profile BehaviorProfile
}

func NewMemoryBehaviorRepository() BehaviorRepository {
	return &memoryBehaviorRepository{entries: make(map[string]*behaviorEntry)}
}

func (r *memoryBehaviorRepository) entry(requesterID string) *behaviorEntry {
	r.mu.RLock()
	e, ok := r.entries[requesterID]
	r.mu.RUnlock()
	if ok {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok = r.entries[requesterID]; ok {
		return e
	}
	e = &behaviorEntry{profile: BehaviorProfile{RequesterID: requesterID}}
	r.entries[requesterID] = e
	return e
}

func (r *memoryBehaviorRepository) Get(ctx context.Context, requesterID string) (*BehaviorProfile, error) {
	e := r.entry(requesterID)
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.profile
	snapshot.Swipes = make([]SwipeRecord, len(e.profile.Swipes))
	copy(snapshot.Swipes, e.profile.Swipes)
	return &snapshot, nil
}

func (r *memoryBehaviorRepository) Append(ctx context.Context, requesterID string, rec SwipeRecord) error {
	e := r.entry(requesterID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.profile.Swipes = append(e.profile.Swipes, rec)
	if excess := len(e.profile.Swipes) - maxSwipeHistory; excess > 0 {
		e.profile.Swipes = e.profile.Swipes[excess:]
	}
	e.profile.LastActive = rec.SwipedAt
	return nil
}

// redisBehaviorRepository persists history in a capped Redis list so it
// survives process restarts. Newest records sit at the head; LTRIM enforces
// the cap atomically with the push.
type redisBehaviorRepository struct {
	client *redis.Client
}

func NewRedisBehaviorRepository(client *redis.Client) BehaviorRepository {
	return &redisBehaviorRepository{client: client}
}

func behaviorKey(requesterID string) string {
	return "discovery:swipes:" + requesterID
}

func (r *redisBehaviorRepository) Append(ctx context.Context, requesterID string, rec SwipeRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal swipe record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, behaviorKey(requesterID), payload)
	pipe.LTrim(ctx, behaviorKey(requesterID), 0, maxSwipeHistory-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: append swipe: %v", ErrExternalStore, err)
	}
	return nil
}

func (r *redisBehaviorRepository) Get(ctx context.Context, requesterID string) (*BehaviorProfile, error) {
	raw, err := r.client.LRange(ctx, behaviorKey(requesterID), 0, maxSwipeHistory-1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: load swipe history: %v", ErrExternalStore, err)
	}

	profile := &BehaviorProfile{RequesterID: requesterID}
	// LPUSH stores newest first; history is kept chronological.
	for i := len(raw) - 1; i >= 0; i-- {
		var rec SwipeRecord
		if err := json.Unmarshal([]byte(raw[i]), &rec); err != nil {
			continue
		}
		profile.Swipes = append(profile.Swipes, rec)
	}
	if n := len(profile.Swipes); n > 0 {
		profile.LastActive = profile.Swipes[n-1].SwipedAt
	}
	return profile, nil
}

// likedStats summarizes the liked subset of a swipe history.
type likedStats struct {
	avgAge          float64
	avgPhotoCount   float64
	commonInterests map[string]bool
}

func summarizeLikes(history *BehaviorProfile) *likedStats {
	var liked []*SwipeRecord
	for i := range history.Swipes {
		if history.Swipes[i].Liked {
			liked = append(liked, &history.Swipes[i])
		}
	}
	if len(liked) == 0 {
		return nil
	}

	ageSum, photoSum := 0, 0
	interestCounts := make(map[string]int)
	for _, rec := range liked {
		ageSum += rec.Features.Age
		photoSum += rec.Features.PhotoCount
		for _, interest := range rec.Features.Interests {
			interestCounts[interest]++
		}
	}

	threshold := int(math.Ceil(commonInterestShare * float64(len(liked))))
	if threshold < 1 {
		threshold = 1
	}
	common := make(map[string]bool)
	for interest, count := range interestCounts {
		if count >= threshold {
			common[interest] = true
		}
	}

	return &likedStats{
		avgAge:          float64(ageSum) / float64(len(liked)),
		avgPhotoCount:   float64(photoSum) / float64(len(liked)),
		commonInterests: common,
	}
}

func behaviorBoost(candidate *Profile, stats *likedStats) float64 {
	ageAffinity := math.Max(0, (5-math.Abs(float64(candidate.Age)-stats.avgAge))/5)

	overlap := 0
	for _, interest := range candidate.Interests {
		if stats.commonInterests[interest] {
			overlap++
		}
	}
	interestDenom := len(candidate.Interests)
	if interestDenom < 1 {
		interestDenom = 1
	}
	interestAffinity := float64(overlap) / float64(interestDenom)

	photoDenom := stats.avgPhotoCount
	if photoDenom < 1 {
		photoDenom = 1
	}
	photoAffinity := math.Max(0, 1-math.Abs(float64(candidate.PhotoCount())-stats.avgPhotoCount)/photoDenom)

	return 0.3*ageAffinity + 0.4*interestAffinity + 0.3*photoAffinity
}

// RankCandidates blends compatibility with the behavioral boost, applies the
// flat premium/verified bonuses, and sorts descending. The sort is stable:
// equal scores keep their input order.
func RankCandidates(candidates []RankedCandidate, history *BehaviorProfile) []RankedCandidate {
	var stats *likedStats
	if history != nil && len(history.Swipes) > minHistoryForBoost {
		stats = summarizeLikes(history)
	}

	for i := range candidates {
		c := &candidates[i]
		rank := c.Score.Overall
		if stats != nil {
			rank = 0.7*c.Score.Overall + 0.3*behaviorBoost(&c.Profile, stats)
		}
		if c.Profile.Premium {
			rank += 0.05
		}
		if c.Profile.Verified {
			rank += 0.03
		}
		c.RankScore = rank
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RankScore > candidates[j].RankScore
	})
	return candidates
}

// NewSwipeRecord snapshots the features the ranker learns from.
func NewSwipeRecord(id, requesterID string, candidate *Profile, liked bool, at time.Time) SwipeRecord {
	interests := make([]string, len(candidate.Interests))
	copy(interests, candidate.Interests)

	return SwipeRecord{
		ID:          id,
		RequesterID: requesterID,
		TargetID:    candidate.ID,
		Features: SwipeFeatures{
			Age:        candidate.Age,
			Interests:  interests,
			PhotoCount: candidate.PhotoCount(),
		},
		Liked:    liked,
		SwipedAt: at,
	}
}
