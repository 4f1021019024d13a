package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterAgeRange(t *testing.T) {
	requester := testProfile("req", 28, "travel")
	criteria := testCriteria()
	criteria.MinAge = 18
	criteria.MaxAge = 25

	pool := []Profile{
		testProfile("young", 22, "travel"),
		testProfile("edge-low", 18, "travel"),
		testProfile("edge-high", 25, "travel"),
		testProfile("older", 50, "travel"),
	}

	filtered, err := FilterCandidates(pool, &requester, criteria)
	require.NoError(t, err)

	ids := candidateIDs(filtered)
	assert.ElementsMatch(t, []string{"young", "edge-low", "edge-high"}, ids)
	assert.NotContains(t, ids, "older")
}

func TestFilterGenderPreference(t *testing.T) {
	requester := testProfile("req", 28)
	criteria := testCriteria()
	criteria.GenderPreference = GenderMale

	male := testProfile("m", 28)
	male.Gender = GenderMale
	female := testProfile("f", 28)
	female.Gender = GenderFemale

	filtered, err := FilterCandidates([]Profile{male, female}, &requester, criteria)
	require.NoError(t, err)
	assert.Equal(t, []string{"m"}, candidateIDs(filtered))
}

func TestFilterInterestOverlap(t *testing.T) {
	requester := testProfile("req", 28, "travel")
	criteria := testCriteria()
	criteria.Interests = []string{"hiking", "music"}

	hiker := testProfile("hiker", 28, "hiking", "food")
	cook := testProfile("cook", 28, "cooking", "food")

	filtered, err := FilterCandidates([]Profile{hiker, cook}, &requester, criteria)
	require.NoError(t, err)
	assert.Equal(t, []string{"hiker"}, candidateIDs(filtered))
}

func TestFilterDealBreakerSmoker(t *testing.T) {
	requester := testProfile("req", 28, "travel")
	criteria := testCriteria()
	criteria.DealBreakers = []string{"smoker"}

	smoker := testProfile("smoker", 28, "travel")
	smoker.Lifestyle = &Lifestyle{Smoking: SmokingRegular}
	clean := testProfile("clean", 28, "travel")
	clean.Lifestyle = &Lifestyle{Smoking: SmokingNever}

	filtered, err := FilterCandidates([]Profile{smoker, clean}, &requester, criteria)
	require.NoError(t, err)
	assert.Equal(t, []string{"clean"}, candidateIDs(filtered))
}

func TestFilterMustHaves(t *testing.T) {
	requester := testProfile("req", 28, "travel")
	criteria := testCriteria()
	criteria.MustHaves = []string{"verified", "fitness_enthusiast"}

	fit := testProfile("fit", 28, "travel")
	fit.Verified = true
	fit.Lifestyle = &Lifestyle{Exercise: ExerciseDaily}

	partial := testProfile("partial", 28, "travel")
	partial.Verified = true

	filtered, err := FilterCandidates([]Profile{fit, partial}, &requester, criteria)
	require.NoError(t, err)
	assert.Equal(t, []string{"fit"}, candidateIDs(filtered))
}

func TestFilterLifestyleExactMatch(t *testing.T) {
	requester := testProfile("req", 28)
	criteria := testCriteria()
	criteria.Drinking = DrinkingNever

	teetotal := testProfile("teetotal", 28)
	teetotal.Lifestyle = &Lifestyle{Drinking: DrinkingNever}
	social := testProfile("social", 28)
	social.Lifestyle = &Lifestyle{Drinking: DrinkingSocially}
	unknown := testProfile("unknown", 28)

	filtered, err := FilterCandidates([]Profile{teetotal, social, unknown}, &requester, criteria)
	require.NoError(t, err)
	assert.Equal(t, []string{"teetotal"}, candidateIDs(filtered))
}

func TestFilterEducationOnlyWhenRequired(t *testing.T) {
	requester := testProfile("req", 28)

	grad := testProfile("grad", 28)
	grad.Education = EducationMasters
	dropout := testProfile("dropout", 28)
	dropout.Education = EducationHighSchool

	criteria := testCriteria()
	criteria.Education.Level = EducationMasters
	// Not required: level alone must not filter.
	filtered, err := FilterCandidates([]Profile{grad, dropout}, &requester, criteria)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	criteria.Education.Required = true
	filtered, err = FilterCandidates([]Profile{grad, dropout}, &requester, criteria)
	require.NoError(t, err)
	assert.Equal(t, []string{"grad"}, candidateIDs(filtered))
}

func TestFilterRelationshipGoal(t *testing.T) {
	requester := testProfile("req", 28)
	criteria := testCriteria()
	criteria.Goal.Type = RelationshipSerious
	criteria.Goal.WantsKids = KidsYes

	aligned := testProfile("aligned", 28)
	aligned.Goal = &RelationshipGoal{Type: RelationshipSerious, WantsKids: KidsYes}
	casual := testProfile("casual", 28)
	casual.Goal = &RelationshipGoal{Type: RelationshipCasual, WantsKids: KidsYes}

	filtered, err := FilterCandidates([]Profile{aligned, casual}, &requester, criteria)
	require.NoError(t, err)
	assert.Equal(t, []string{"aligned"}, candidateIDs(filtered))
}

func TestFilterDistance(t *testing.T) {
	requester := testProfile("req", 28)
	criteria := testCriteria()
	criteria.MaxDistanceKm = 50

	near := testProfile("near", 28)
	near.Location = offsetLocation(*requester.Location, 40)
	far := testProfile("far", 28)
	far.Location = offsetLocation(*requester.Location, 120)
	nowhere := testProfile("nowhere", 28)
	nowhere.Location = nil

	filtered, err := FilterCandidates([]Profile{near, far, nowhere}, &requester, criteria)
	require.NoError(t, err)
	assert.Equal(t, []string{"near"}, candidateIDs(filtered))
}

func TestFilterMissingRequesterLocation(t *testing.T) {
	requester := testProfile("req", 28)
	requester.Location = nil
	criteria := testCriteria()
	criteria.MaxDistanceKm = 50

	_, err := FilterCandidates([]Profile{testProfile("c", 28)}, &requester, criteria)
	assert.ErrorIs(t, err, ErrMissingLocation)
}

func TestFilterLocationOverride(t *testing.T) {
	requester := testProfile("req", 28)
	requester.Location = nil
	criteria := testCriteria()
	criteria.MaxDistanceKm = 50
	criteria.Location = &Coordinates{Latitude: 40.7128, Longitude: -74.0060}

	near := testProfile("near", 28)
	filtered, err := FilterCandidates([]Profile{near}, &requester, criteria)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestFilterStatusFlags(t *testing.T) {
	requester := testProfile("req", 28)
	criteria := testCriteria()
	criteria.VerifiedOnly = true
	criteria.RecentlyActiveOnly = true

	good := testProfile("good", 28)
	good.Verified = true
	stale := testProfile("stale", 28)
	stale.Verified = true
	stale.LastActive = time.Now().Add(-10 * 24 * time.Hour)
	unverified := testProfile("unverified", 28)

	filtered, err := FilterCandidates([]Profile{good, stale, unverified}, &requester, criteria)
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, candidateIDs(filtered))
}

func TestFilterEmptyPool(t *testing.T) {
	requester := testProfile("req", 28)
	filtered, err := FilterCandidates(nil, &requester, testCriteria())
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestFilterMonotonicity(t *testing.T) {
	requester := testProfile("req", 28, "travel", "music")
	pool := fixturePool(60, 42)

	base := testCriteria()
	baseline, err := FilterCandidates(pool, &requester, base)
	require.NoError(t, err)

	narrowerAge := testCriteria()
	narrowerAge.MinAge = 25
	narrowerAge.MaxAge = 35
	narrowed, err := FilterCandidates(pool, &requester, narrowerAge)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(narrowed), len(baseline))

	shorterRange := testCriteria()
	shorterRange.MaxDistanceKm = 10
	nearOnly, err := FilterCandidates(pool, &requester, shorterRange)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(nearOnly), len(baseline))

	withDealBreaker := testCriteria()
	withDealBreaker.DealBreakers = []string{"travel"}
	restricted, err := FilterCandidates(pool, &requester, withDealBreaker)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(restricted), len(baseline))
}

func TestDeriveTraits(t *testing.T) {
	p := testProfile("p", 30, "hiking", "music")
	p.Verified = true
	p.Premium = true
	p.Photos = []string{"a", "b", "c", "d"}
	p.Lifestyle = &Lifestyle{
		Smoking:  SmokingSocially,
		Drinking: DrinkingRegular,
		Exercise: ExerciseOften,
		Diet:     DietVegan,
	}

	traits := DeriveTraits(&p)
	for _, want := range []string{
		"hiking", "music", "smoker", "drinks_regularly",
		"fitness_enthusiast", "special_diet", "verified", "premium", "many_photos",
	} {
		assert.True(t, traits[want], "missing trait %s", want)
	}

	plain := testProfile("plain", 30, "music")
	plainTraits := DeriveTraits(&plain)
	assert.False(t, plainTraits["smoker"])
	assert.False(t, plainTraits["many_photos"])
}

func candidateIDs(profiles []Profile) []string {
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids
}
