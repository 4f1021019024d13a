// internal/discovery/service.go

package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// DefaultMatchLimit is used when a caller passes a non-positive limit.
const DefaultMatchLimit = 20

// UserStore is the external profile source. GetCandidatePool already excludes
// the requester and previously-swiped users.
type UserStore interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	GetCandidatePool(ctx context.Context, requesterID string, criteria *PreferenceCriteria) ([]Profile, error)
}

// PreferenceStore persists saved discovery filters. LoadFilters returns
// defaults when a user has never saved any.
type PreferenceStore interface {
	LoadFilters(ctx context.Context, userID string) (*PreferenceCriteria, error)
	SaveFilters(ctx context.Context, userID string, criteria *PreferenceCriteria) error
}

// SwipeLog is an optional durable sink for swipe events. Failures never block
// the swipe flow.
type SwipeLog interface {
	RecordSwipe(ctx context.Context, rec *SwipeRecord) error
}

type Service interface {
	GetRankedMatches(ctx context.Context, requesterID string, criteria *PreferenceCriteria, limit int) (*MatchResult, error)
	RecordSwipe(ctx context.Context, requesterID string, candidate *Profile, isLike bool) error
	CalculateCompatibility(ctx context.Context, requesterID, candidateID string) (*CompatibilityScore, error)
	LoadFilters(ctx context.Context, userID string) (*PreferenceCriteria, error)
	SaveFilters(ctx context.Context, userID string, criteria *PreferenceCriteria) error
}

type service struct {
	users    UserStore
	prefs    PreferenceStore
	behavior BehaviorRepository
	swipeLog SwipeLog
	scorer   *Scorer
}

// NewService wires the engine. swipeLog may be nil when durable swipe storage
// is not deployed.
func NewService(users UserStore, prefs PreferenceStore, behavior BehaviorRepository, swipeLog SwipeLog) Service {
	return &service{
		users:    users,
		prefs:    prefs,
		behavior: behavior,
		swipeLog: swipeLog,
		scorer:   NewScorer(),
	}
}

func (s *service) GetRankedMatches(ctx context.Context, requesterID string, criteria *PreferenceCriteria, limit int) (*MatchResult, error) {
	start := time.Now()
	defer func() {
		ObserveRankingDuration(time.Since(start))
	}()

	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	if criteria == nil {
		criteria = DefaultCriteria()
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	requester, err := s.users.GetProfile(ctx, requesterID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		log.Printf("discovery: requester %s profile fetch failed, serving degraded matches: %v", requesterID, err)
		return s.degradedMatches(ctx, requesterID, criteria, limit), nil
	}

	pool, err := s.users.GetCandidatePool(ctx, requesterID, criteria)
	if err != nil {
		log.Printf("discovery: candidate pool fetch for %s failed, serving degraded matches: %v", requesterID, err)
		return s.degradedMatches(ctx, requesterID, criteria, limit), nil
	}

	filtered, err := FilterCandidates(pool, requester, criteria)
	if err != nil {
		// Missing requester location is a caller precondition, not a store
		// hiccup; it must surface.
		return nil, err
	}

	history, err := s.behavior.Get(ctx, requesterID)
	if err != nil {
		log.Printf("discovery: behavior history for %s unavailable, scoring without it: %v", requesterID, err)
		history = nil
	}

	ranked := make([]RankedCandidate, 0, len(filtered))
	for i := range filtered {
		score, distance, err := s.scorer.Score(requester, &filtered[i], criteria, history)
		if err != nil {
			log.Printf("discovery: skipping candidate %s: %v", filtered[i].ID, err)
			continue
		}
		ObserveCompatibilityScore(score.Overall)
		ranked = append(ranked, RankedCandidate{
			Profile:    filtered[i],
			Score:      *score,
			DistanceKm: distance,
		})
	}

	ranked = RankCandidates(ranked, history)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	RecordMatchesServed(len(ranked))
	return &MatchResult{Candidates: ranked}, nil
}

// degradedMatches keeps discovery screens rendering when the primary path is
// unavailable: store-ordered candidates with deterministic placeholder scores,
// clearly flagged.
func (s *service) degradedMatches(ctx context.Context, requesterID string, criteria *PreferenceCriteria, limit int) *MatchResult {
	RecordDegradedFallback()

	pool, err := s.users.GetCandidatePool(ctx, requesterID, criteria)
	if err != nil {
		log.Printf("discovery: degraded pool fetch for %s failed: %v", requesterID, err)
		return &MatchResult{Candidates: []RankedCandidate{}, Degraded: true}
	}

	if len(pool) > limit {
		pool = pool[:limit]
	}

	placeholder := ScoreBreakdown{
		Interests:    neutralBehaviorScore,
		Demographics: neutralBehaviorScore,
		Activity:     neutralBehaviorScore,
		Behavior:     neutralBehaviorScore,
		Location:     neutralBehaviorScore,
	}

	candidates := make([]RankedCandidate, 0, len(pool))
	for i := range pool {
		candidates = append(candidates, RankedCandidate{
			Profile:    pool[i],
			Score:      CompatibilityScore{Overall: neutralBehaviorScore, Breakdown: placeholder},
			DistanceKm: -1,
			RankScore:  neutralBehaviorScore,
		})
	}

	return &MatchResult{Candidates: candidates, Degraded: true}
}

func (s *service) RecordSwipe(ctx context.Context, requesterID string, candidate *Profile, isLike bool) error {
	if requesterID == "" || candidate == nil || candidate.ID == "" {
		return ErrInvalidCandidate
	}

	rec := NewSwipeRecord(uuid.NewString(), requesterID, candidate, isLike, time.Now())

	if err := s.behavior.Append(ctx, requesterID, rec); err != nil {
		// Swipe recording must never block the UI flow.
		log.Printf("discovery: behavior append for %s failed: %v", requesterID, err)
	}

	if s.swipeLog != nil {
		if err := s.swipeLog.RecordSwipe(ctx, &rec); err != nil {
			log.Printf("discovery: durable swipe log for %s failed: %v", requesterID, err)
		}
	}

	RecordSwipeMetric(isLike)
	return nil
}

func (s *service) CalculateCompatibility(ctx context.Context, requesterID, candidateID string) (*CompatibilityScore, error) {
	requester, err := s.users.GetProfile(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("load requester: %w", err)
	}
	candidate, err := s.users.GetProfile(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load candidate: %w", err)
	}

	criteria, err := s.prefs.LoadFilters(ctx, requesterID)
	if err != nil {
		log.Printf("discovery: filters for %s unavailable, using defaults: %v", requesterID, err)
		criteria = DefaultCriteria()
	}

	history, err := s.behavior.Get(ctx, requesterID)
	if err != nil {
		history = nil
	}

	score, _, err := s.scorer.Score(requester, candidate, criteria, history)
	return score, err
}

func (s *service) LoadFilters(ctx context.Context, userID string) (*PreferenceCriteria, error) {
	return s.prefs.LoadFilters(ctx, userID)
}

func (s *service) SaveFilters(ctx context.Context, userID string, criteria *PreferenceCriteria) error {
	if err := criteria.Validate(); err != nil {
		return err
	}
	return s.prefs.SaveFilters(ctx, userID, criteria)
}
