// internal/discovery/dto.go
package discovery

// DTOs for API requests/responses

type UpdateFiltersDTO struct {
	MinAge             int      `json:"min_age" validate:"required,gte=18,lte=120"`
	MaxAge             int      `json:"max_age" validate:"required,gte=18,lte=120,gtefield=MinAge"`
	MaxDistanceKm      float64  `json:"max_distance_km" validate:"gte=0,lte=20000"`
	GenderPreference   string   `json:"gender_preference" validate:"omitempty,oneof=any male female nonbinary"`
	Interests          []string `json:"interests,omitempty" validate:"max=50"`
	MustHaves          []string `json:"must_haves,omitempty" validate:"max=20"`
	DealBreakers       []string `json:"deal_breakers,omitempty" validate:"max=20"`
	Smoking            string   `json:"smoking,omitempty" validate:"omitempty,oneof=any never socially regularly"`
	Drinking           string   `json:"drinking,omitempty" validate:"omitempty,oneof=any never socially regularly"`
	Exercise           string   `json:"exercise,omitempty" validate:"omitempty,oneof=any never sometimes often daily"`
	Diet               string   `json:"diet,omitempty" validate:"omitempty,oneof=any omnivore vegetarian vegan kosher halal"`
	EducationRequired  bool     `json:"education_required"`
	EducationLevel     string   `json:"education_level,omitempty" validate:"omitempty,oneof=any high_school bachelors masters doctorate"`
	GoalType           string   `json:"goal_type,omitempty" validate:"omitempty,oneof=any casual serious marriage friends"`
	HasKids            string   `json:"has_kids,omitempty" validate:"omitempty,oneof=any yes no"`
	WantsKids          string   `json:"wants_kids,omitempty" validate:"omitempty,oneof=any yes no"`
	VerifiedOnly       bool     `json:"verified_only"`
	PremiumOnly        bool     `json:"premium_only"`
	RecentlyActiveOnly bool     `json:"recently_active_only"`
}

// ToCriteria converts the DTO into engine criteria, filling unset enum fields
// with "any".
func (d *UpdateFiltersDTO) ToCriteria() *PreferenceCriteria {
	c := DefaultCriteria()
	c.MinAge = d.MinAge
	c.MaxAge = d.MaxAge
	c.MaxDistanceKm = d.MaxDistanceKm
	c.Interests = d.Interests
	c.MustHaves = d.MustHaves
	c.DealBreakers = d.DealBreakers
	c.Education.Required = d.EducationRequired
	c.VerifiedOnly = d.VerifiedOnly
	c.PremiumOnly = d.PremiumOnly
	c.RecentlyActiveOnly = d.RecentlyActiveOnly

	if d.GenderPreference != "" {
		c.GenderPreference = Gender(d.GenderPreference)
	}
	if d.Smoking != "" {
		c.Smoking = SmokingHabit(d.Smoking)
	}
	if d.Drinking != "" {
		c.Drinking = DrinkingHabit(d.Drinking)
	}
	if d.Exercise != "" {
		c.Exercise = ExerciseHabit(d.Exercise)
	}
	if d.Diet != "" {
		c.Diet = DietType(d.Diet)
	}
	if d.EducationLevel != "" {
		c.Education.Level = EducationLevel(d.EducationLevel)
	}
	if d.GoalType != "" {
		c.Goal.Type = RelationshipType(d.GoalType)
	}
	if d.HasKids != "" {
		c.Goal.HasKids = KidsStatus(d.HasKids)
	}
	if d.WantsKids != "" {
		c.Goal.WantsKids = KidsStatus(d.WantsKids)
	}

	return c
}

type SwipeDTO struct {
	TargetID string `json:"target_id" validate:"required"`
	Liked    bool   `json:"liked"`
}
