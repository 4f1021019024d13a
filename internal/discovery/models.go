package discovery

import (
	"errors"
	"time"
)

var (
	ErrInvalidCriteria  = errors.New("invalid preference criteria")
	ErrMissingLocation  = errors.New("requester location required for distance filtering")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrExternalStore    = errors.New("external store failure")
	ErrInvalidCandidate = errors.New("invalid candidate profile")
)

// Closed enumerations for preference fields. "any" always means no constraint.

type Gender string

const (
	GenderAny       Gender = "any"
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "nonbinary"
)

type SmokingHabit string

const (
	SmokingAny      SmokingHabit = "any"
	SmokingNever    SmokingHabit = "never"
	SmokingSocially SmokingHabit = "socially"
	SmokingRegular  SmokingHabit = "regularly"
)

type DrinkingHabit string

const (
	DrinkingAny      DrinkingHabit = "any"
	DrinkingNever    DrinkingHabit = "never"
	DrinkingSocially DrinkingHabit = "socially"
	DrinkingRegular  DrinkingHabit = "regularly"
)

type ExerciseHabit string

const (
	ExerciseAny       ExerciseHabit = "any"
	ExerciseNever     ExerciseHabit = "never"
	ExerciseSometimes ExerciseHabit = "sometimes"
	ExerciseOften     ExerciseHabit = "often"
	ExerciseDaily     ExerciseHabit = "daily"
)

type DietType string

const (
	DietAny        DietType = "any"
	DietOmnivore   DietType = "omnivore"
	DietVegetarian DietType = "vegetarian"
	DietVegan      DietType = "vegan"
	DietKosher     DietType = "kosher"
	DietHalal      DietType = "halal"
)

type EducationLevel string

const (
	EducationAny        EducationLevel = "any"
	EducationHighSchool EducationLevel = "high_school"
	EducationBachelors  EducationLevel = "bachelors"
	EducationMasters    EducationLevel = "masters"
	EducationDoctorate  EducationLevel = "doctorate"
)

type RelationshipType string

const (
	RelationshipAny      RelationshipType = "any"
	RelationshipCasual   RelationshipType = "casual"
	RelationshipSerious  RelationshipType = "serious"
	RelationshipMarriage RelationshipType = "marriage"
	RelationshipFriends  RelationshipType = "friends"
)

type KidsStatus string

const (
	KidsAny KidsStatus = "any"
	KidsYes KidsStatus = "yes"
	KidsNo  KidsStatus = "no"
)

// Coordinates is a geographic position. A nil *Coordinates on a Profile means
// the user has not shared a location.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Lifestyle holds the optional self-reported lifestyle attributes. These come
// from the external user store; the engine never invents them.
type Lifestyle struct {
	Smoking  SmokingHabit  `json:"smoking,omitempty"`
	Drinking DrinkingHabit `json:"drinking,omitempty"`
	Exercise ExerciseHabit `json:"exercise,omitempty"`
	Diet     DietType      `json:"diet,omitempty"`
}

// RelationshipGoal is the optional stated intent of a profile.
type RelationshipGoal struct {
	Type      RelationshipType `json:"type,omitempty"`
	HasKids   KidsStatus       `json:"has_kids,omitempty"`
	WantsKids KidsStatus       `json:"wants_kids,omitempty"`
}

// Profile is an immutable snapshot from the external user store. The engine
// only reads it.
type Profile struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"display_name"`
	Age         int               `json:"age"`
	Gender      Gender            `json:"gender"`
	Location    *Coordinates      `json:"location,omitempty"`
	Bio         string            `json:"bio,omitempty"`
	Photos      []string          `json:"photos,omitempty"`
	Interests   []string          `json:"interests,omitempty"`
	Verified    bool              `json:"verified"`
	Premium     bool              `json:"premium"`
	LastActive  time.Time         `json:"last_active"`
	Lifestyle   *Lifestyle        `json:"lifestyle,omitempty"`
	Education   EducationLevel    `json:"education,omitempty"`
	Goal        *RelationshipGoal `json:"goal,omitempty"`
}

// PhotoCount returns the number of photo references on the profile.
func (p *Profile) PhotoCount() int {
	return len(p.Photos)
}

// EducationPreference is only enforced when Required is set and Level is a
// concrete value.
type EducationPreference struct {
	Required bool           `json:"required"`
	Level    EducationLevel `json:"level"`
}

// GoalPreference filters on stated relationship intent; each field is
// independently "any".
type GoalPreference struct {
	Type      RelationshipType `json:"type"`
	HasKids   KidsStatus       `json:"has_kids"`
	WantsKids KidsStatus       `json:"wants_kids"`
}

// PreferenceCriteria is the full set of hard constraints for a discovery
// request. Interests is an OR-any filter over interest tags; MustHaves and
// DealBreakers are evaluated against the derived trait set (see DeriveTraits).
type PreferenceCriteria struct {
	MinAge             int                 `json:"min_age"`
	MaxAge             int                 `json:"max_age"`
	MaxDistanceKm      float64             `json:"max_distance_km"`
	GenderPreference   Gender              `json:"gender_preference"`
	Interests          []string            `json:"interests,omitempty"`
	MustHaves          []string            `json:"must_haves,omitempty"`
	DealBreakers       []string            `json:"deal_breakers,omitempty"`
	Smoking            SmokingHabit        `json:"smoking"`
	Drinking           DrinkingHabit       `json:"drinking"`
	Exercise           ExerciseHabit       `json:"exercise"`
	Diet               DietType            `json:"diet"`
	Education          EducationPreference `json:"education"`
	Goal               GoalPreference      `json:"goal"`
	VerifiedOnly       bool                `json:"verified_only"`
	PremiumOnly        bool                `json:"premium_only"`
	RecentlyActiveOnly bool                `json:"recently_active_only"`

	// Optional override for the requester's own position.
	Location *Coordinates `json:"location,omitempty"`
}

const (
	minAllowedAge = 18
	maxAllowedAge = 120
)

// recentActivityWindow defines "recently active" for filters and scoring.
const recentActivityWindow = 7 * 24 * time.Hour

// Validate rejects structurally invalid criteria before any filtering runs.
func (c *PreferenceCriteria) Validate() error {
	if c.MinAge > c.MaxAge {
		return ErrInvalidCriteria
	}
	if c.MinAge < minAllowedAge || c.MaxAge > maxAllowedAge {
		return ErrInvalidCriteria
	}
	if c.MaxDistanceKm < 0 {
		return ErrInvalidCriteria
	}
	return nil
}

// DefaultCriteria returns the criteria used when a user has never saved
// discovery filters.
func DefaultCriteria() *PreferenceCriteria {
	return &PreferenceCriteria{
		MinAge:           18,
		MaxAge:           55,
		MaxDistanceKm:    100,
		GenderPreference: GenderAny,
		Smoking:          SmokingAny,
		Drinking:         DrinkingAny,
		Exercise:         ExerciseAny,
		Diet:             DietAny,
		Education:        EducationPreference{Level: EducationAny},
		Goal: GoalPreference{
			Type:      RelationshipAny,
			HasKids:   KidsAny,
			WantsKids: KidsAny,
		},
	}
}

// SwipeFeatures is the remembered snapshot of a swiped candidate. Only the
// features the ranker learns from are kept, not the whole profile.
type SwipeFeatures struct {
	Age        int      `json:"age"`
	Interests  []string `json:"interests,omitempty"`
	PhotoCount int      `json:"photo_count"`
}

// SwipeRecord is one like/pass decision in a user's behavior history.
type SwipeRecord struct {
	ID          string        `json:"id"`
	RequesterID string        `json:"requester_id"`
	TargetID    string        `json:"target_id"`
	Features    SwipeFeatures `json:"features"`
	Liked       bool          `json:"liked"`
	SwipedAt    time.Time     `json:"swiped_at"`
}

// BehaviorProfile is the engine-owned mutable state for one requester: a
// bounded, time-ordered swipe history plus coarse activity counters.
type BehaviorProfile struct {
	RequesterID  string        `json:"requester_id"`
	Swipes       []SwipeRecord `json:"swipes"`
	MessageCount int           `json:"message_count"`
	ViewCount    int           `json:"view_count"`
	LastActive   time.Time     `json:"last_active"`
}

// ScoreBreakdown holds the five weighted components, each in [0,1].
type ScoreBreakdown struct {
	Interests    float64 `json:"interests"`
	Demographics float64 `json:"demographics"`
	Activity     float64 `json:"activity"`
	Behavior     float64 `json:"behavior"`
	Location     float64 `json:"location"`
}

// CompatibilityScore is recomputed fresh on every ranking call.
type CompatibilityScore struct {
	Overall   float64        `json:"overall"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Reasons   []string       `json:"reasons,omitempty"`
}

// RankedCandidate is the only type crossing the engine's output boundary.
type RankedCandidate struct {
	Profile    Profile            `json:"profile"`
	Score      CompatibilityScore `json:"score"`
	DistanceKm float64            `json:"distance_km"`
	RankScore  float64            `json:"rank_score"`
}

// MatchResult wraps a ranked list; Degraded marks the deterministic fallback
// produced when the external store fails.
type MatchResult struct {
	Candidates []RankedCandidate `json:"candidates"`
	Degraded   bool              `json:"degraded"`
}
