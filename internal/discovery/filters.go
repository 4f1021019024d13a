// internal/discovery/filters.go
// Hard-constraint filter pipeline. Runs before scoring so excluded candidates
// never reach the scorer.

package discovery

import (
	"log"
	"time"

	"github.com/embermatch/ember-backend/internal/geo"
)

// manyPhotosThreshold marks profiles that earn the "many_photos" trait.
const manyPhotosThreshold = 4

// DeriveTraits is the single definition of the trait vocabulary used by both
// MustHaves and DealBreakers: interest tags, derived lifestyle flags, and
// status flags.
func DeriveTraits(p *Profile) map[string]bool {
	traits := make(map[string]bool, len(p.Interests)+6)
	for _, interest := range p.Interests {
		traits[interest] = true
	}

	if ls := p.Lifestyle; ls != nil {
		if ls.Smoking == SmokingSocially || ls.Smoking == SmokingRegular {
			traits["smoker"] = true
		}
		if ls.Drinking == DrinkingRegular {
			traits["drinks_regularly"] = true
		}
		if ls.Exercise == ExerciseOften || ls.Exercise == ExerciseDaily {
			traits["fitness_enthusiast"] = true
		}
		if ls.Diet != "" && ls.Diet != DietAny && ls.Diet != DietOmnivore {
			traits["special_diet"] = true
		}
	}

	if p.Verified {
		traits["verified"] = true
	}
	if p.Premium {
		traits["premium"] = true
	}
	if p.PhotoCount() >= manyPhotosThreshold {
		traits["many_photos"] = true
	}

	return traits
}

// FilterCandidates reduces the pool to the candidates satisfying every hard
// constraint in the criteria. An empty pool yields an empty result, not an
// error. Distance filtering without a resolvable requester location fails
// with ErrMissingLocation; candidates without a location are simply excluded.
func FilterCandidates(pool []Profile, requester *Profile, criteria *PreferenceCriteria) ([]Profile, error) {
	origin := criteria.Location
	if origin == nil && requester != nil {
		origin = requester.Location
	}
	if criteria.MaxDistanceKm > 0 && origin == nil {
		return nil, ErrMissingLocation
	}

	filtered := make([]Profile, 0, len(pool))
	for i := range pool {
		ok, err := passesFilters(&pool[i], origin, criteria)
		if err != nil {
			// Malformed candidate data must not abort the batch.
			log.Printf("discovery: skipping candidate %s: %v", pool[i].ID, err)
			continue
		}
		if ok {
			filtered = append(filtered, pool[i])
		}
	}

	return filtered, nil
}

func passesFilters(c *Profile, origin *Coordinates, criteria *PreferenceCriteria) (bool, error) {
	// 1. Age range, inclusive.
	if c.Age < criteria.MinAge || c.Age > criteria.MaxAge {
		return false, nil
	}

	// 2. Gender preference.
	if criteria.GenderPreference != "" && criteria.GenderPreference != GenderAny {
		if c.Gender != criteria.GenderPreference {
			return false, nil
		}
	}

	// 3. Interest overlap: OR-any against the filter's own interest list.
	if len(criteria.Interests) > 0 && !sharesAnyInterest(c.Interests, criteria.Interests) {
		return false, nil
	}

	// 4. Lifestyle sub-filters, exact match when not "any".
	if !matchesLifestyle(c, criteria) {
		return false, nil
	}

	// 5. Education, only when explicitly required.
	if criteria.Education.Required && criteria.Education.Level != "" && criteria.Education.Level != EducationAny {
		if c.Education != criteria.Education.Level {
			return false, nil
		}
	}

	// 6. Relationship-goal filters.
	if !matchesGoal(c, &criteria.Goal) {
		return false, nil
	}

	// 7/8. Deal-breakers and must-haves over the derived trait set.
	traits := DeriveTraits(c)
	for _, dealBreaker := range criteria.DealBreakers {
		if traits[dealBreaker] {
			return false, nil
		}
	}
	for _, mustHave := range criteria.MustHaves {
		if !traits[mustHave] {
			return false, nil
		}
	}

	// 9. Distance.
	if criteria.MaxDistanceKm > 0 {
		if c.Location == nil {
			return false, nil
		}
		d, err := geo.Distance(origin.Latitude, origin.Longitude, c.Location.Latitude, c.Location.Longitude)
		if err != nil {
			return false, err
		}
		if d > criteria.MaxDistanceKm {
			return false, nil
		}
	}

	// 10. Status flags.
	if criteria.VerifiedOnly && !c.Verified {
		return false, nil
	}
	if criteria.PremiumOnly && !c.Premium {
		return false, nil
	}
	if criteria.RecentlyActiveOnly && time.Since(c.LastActive) > recentActivityWindow {
		return false, nil
	}

	return true, nil
}

func sharesAnyInterest(interests, wanted []string) bool {
	set := make(map[string]bool, len(interests))
	for _, interest := range interests {
		set[interest] = true
	}
	for _, w := range wanted {
		if set[w] {
			return true
		}
	}
	return false
}

func matchesLifestyle(c *Profile, criteria *PreferenceCriteria) bool {
	wantSmoking := criteria.Smoking != "" && criteria.Smoking != SmokingAny
	wantDrinking := criteria.Drinking != "" && criteria.Drinking != DrinkingAny
	wantExercise := criteria.Exercise != "" && criteria.Exercise != ExerciseAny
	wantDiet := criteria.Diet != "" && criteria.Diet != DietAny

	if !wantSmoking && !wantDrinking && !wantExercise && !wantDiet {
		return true
	}
	if c.Lifestyle == nil {
		// A constrained lifestyle field can never match an unknown value.
		return false
	}
	if wantSmoking && c.Lifestyle.Smoking != criteria.Smoking {
		return false
	}
	if wantDrinking && c.Lifestyle.Drinking != criteria.Drinking {
		return false
	}
	if wantExercise && c.Lifestyle.Exercise != criteria.Exercise {
		return false
	}
	if wantDiet && c.Lifestyle.Diet != criteria.Diet {
		return false
	}
	return true
}

func matchesGoal(c *Profile, pref *GoalPreference) bool {
	wantType := pref.Type != "" && pref.Type != RelationshipAny
	wantHasKids := pref.HasKids != "" && pref.HasKids != KidsAny
	wantWantsKids := pref.WantsKids != "" && pref.WantsKids != KidsAny

	if !wantType && !wantHasKids && !wantWantsKids {
		return true
	}
	if c.Goal == nil {
		return false
	}
	if wantType && c.Goal.Type != pref.Type {
		return false
	}
	if wantHasKids && c.Goal.HasKids != pref.HasKids {
		return false
	}
	if wantWantsKids && c.Goal.WantsKids != pref.WantsKids {
		return false
	}
	return true
}
