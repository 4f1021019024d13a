package discovery

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// candidatePoolCap bounds how many rows the coarse SQL prefilter hands to the
// in-process filter pipeline.
const candidatePoolCap = 500

// PostgresRepository implements UserStore, PreferenceStore and SwipeLog on a
// single Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const profileColumns = `
	id, display_name, age, gender, location_lat, location_lng, bio,
	photos, interests, verified, premium, last_active,
	smoking, drinking, exercise, diet, education,
	goal_type, has_kids, wants_kids
`

func (r *PostgresRepository) GetProfile(ctx context.Context, id string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	row := r.db.QueryRowxContext(ctx, query, id)
	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get profile: %v", ErrExternalStore, err)
	}
	return profile, nil
}

// GetCandidatePool applies a coarse SQL prefilter (age, gender, exclusions)
// and leaves the full predicate chain to FilterCandidates.
func (r *PostgresRepository) GetCandidatePool(ctx context.Context, requesterID string, criteria *PreferenceCriteria) ([]Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		WHERE p.id != $1
		  AND p.age BETWEEN $2 AND $3
		  AND ($4 = 'any' OR p.gender = $4)
		  AND p.id NOT IN (
			  SELECT target_id FROM swipes WHERE requester_id = $1
		  )
		ORDER BY p.last_active DESC
		LIMIT $5
	`

	gender := string(criteria.GenderPreference)
	if gender == "" {
		gender = string(GenderAny)
	}

	rows, err := r.db.QueryxContext(ctx, query, requesterID, criteria.MinAge, criteria.MaxAge, gender, candidatePoolCap)
	if err != nil {
		return nil, fmt.Errorf("%w: candidate pool: %v", ErrExternalStore, err)
	}
	defer rows.Close()

	var pool []Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			continue
		}
		pool = append(pool, *profile)
	}

	return pool, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	var lat, lng sql.NullFloat64
	var smoking, drinking, exercise, diet, education sql.NullString
	var goalType, hasKids, wantsKids sql.NullString

	err := row.Scan(
		&p.ID, &p.DisplayName, &p.Age, &p.Gender, &lat, &lng, &p.Bio,
		pq.Array(&p.Photos), pq.Array(&p.Interests),
		&p.Verified, &p.Premium, &p.LastActive,
		&smoking, &drinking, &exercise, &diet, &education,
		&goalType, &hasKids, &wantsKids,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		p.Location = &Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	if smoking.Valid || drinking.Valid || exercise.Valid || diet.Valid {
		p.Lifestyle = &Lifestyle{
			Smoking:  SmokingHabit(smoking.String),
			Drinking: DrinkingHabit(drinking.String),
			Exercise: ExerciseHabit(exercise.String),
			Diet:     DietType(diet.String),
		}
	}
	if education.Valid {
		p.Education = EducationLevel(education.String)
	}
	if goalType.Valid || hasKids.Valid || wantsKids.Valid {
		p.Goal = &RelationshipGoal{
			Type:      RelationshipType(goalType.String),
			HasKids:   KidsStatus(hasKids.String),
			WantsKids: KidsStatus(wantsKids.String),
		}
	}

	return &p, nil
}

func (r *PostgresRepository) LoadFilters(ctx context.Context, userID string) (*PreferenceCriteria, error) {
	query := `
		SELECT min_age, max_age, max_distance_km, gender_preference,
		       interests, must_haves, deal_breakers,
		       smoking, drinking, exercise, diet,
		       education_required, education_level,
		       goal_type, has_kids, wants_kids,
		       verified_only, premium_only, recently_active_only
		FROM discovery_filters
		WHERE user_id = $1
	`

	c := DefaultCriteria()
	err := r.db.QueryRowxContext(ctx, query, userID).Scan(
		&c.MinAge, &c.MaxAge, &c.MaxDistanceKm, &c.GenderPreference,
		pq.Array(&c.Interests), pq.Array(&c.MustHaves), pq.Array(&c.DealBreakers),
		&c.Smoking, &c.Drinking, &c.Exercise, &c.Diet,
		&c.Education.Required, &c.Education.Level,
		&c.Goal.Type, &c.Goal.HasKids, &c.Goal.WantsKids,
		&c.VerifiedOnly, &c.PremiumOnly, &c.RecentlyActiveOnly,
	)
	if err == sql.ErrNoRows {
		return DefaultCriteria(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load filters: %v", ErrExternalStore, err)
	}
	return c, nil
}

func (r *PostgresRepository) SaveFilters(ctx context.Context, userID string, c *PreferenceCriteria) error {
	query := `
		INSERT INTO discovery_filters (
			user_id, min_age, max_age, max_distance_km, gender_preference,
			interests, must_haves, deal_breakers,
			smoking, drinking, exercise, diet,
			education_required, education_level,
			goal_type, has_kids, wants_kids,
			verified_only, premium_only, recently_active_only, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW()
		)
		ON CONFLICT (user_id) DO UPDATE SET
			min_age = $2, max_age = $3, max_distance_km = $4,
			gender_preference = $5, interests = $6, must_haves = $7,
			deal_breakers = $8, smoking = $9, drinking = $10, exercise = $11,
			diet = $12, education_required = $13, education_level = $14,
			goal_type = $15, has_kids = $16, wants_kids = $17,
			verified_only = $18, premium_only = $19,
			recently_active_only = $20, updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		userID, c.MinAge, c.MaxAge, c.MaxDistanceKm, c.GenderPreference,
		pq.Array(c.Interests), pq.Array(c.MustHaves), pq.Array(c.DealBreakers),
		c.Smoking, c.Drinking, c.Exercise, c.Diet,
		c.Education.Required, c.Education.Level,
		c.Goal.Type, c.Goal.HasKids, c.Goal.WantsKids,
		c.VerifiedOnly, c.PremiumOnly, c.RecentlyActiveOnly,
	)
	if err != nil {
		return fmt.Errorf("%w: save filters: %v", ErrExternalStore, err)
	}
	return nil
}

func (r *PostgresRepository) RecordSwipe(ctx context.Context, rec *SwipeRecord) error {
	query := `
		INSERT INTO swipes (
			id, requester_id, target_id, target_age, target_interests,
			target_photo_count, liked, swiped_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (requester_id, target_id) DO UPDATE SET
			liked = $7, swiped_at = $8
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.RequesterID, rec.TargetID,
		rec.Features.Age, pq.Array(rec.Features.Interests),
		rec.Features.PhotoCount, rec.Liked, rec.SwipedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: record swipe: %v", ErrExternalStore, err)
	}
	return nil
}
