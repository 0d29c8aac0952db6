package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wandermate/server/internal/apperrors"
	"wandermate/server/internal/models"
)

func (s *Store) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if profile.Languages == nil {
		profile.Languages = []string{}
	}
	if profile.TravelInterests == nil {
		profile.TravelInterests = []string{}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles
			(id, username, full_name, email, password_hash, avatar_url, bio,
			 location, languages, travel_interests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, profile.ID, profile.Username, profile.FullName, profile.Email, profile.Password,
		profile.AvatarURL, profile.Bio, profile.Location, profile.Languages,
		profile.TravelInterests, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Validation("account", "email or username already registered")
		}
		return wrapErr("create profile", err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	return s.getProfileWhere(ctx, "id = $1", profileID)
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return s.getProfileWhere(ctx, "email = $1", email)
}

func (s *Store) getProfileWhere(ctx context.Context, where, arg string) (*models.Profile, error) {
	var p models.Profile
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, full_name, email, password_hash, avatar_url, bio,
		       location, languages, travel_interests, created_at, updated_at
		FROM profiles WHERE `+where,
		arg).Scan(&p.ID, &p.Username, &p.FullName, &p.Email, &p.Password,
		&p.AvatarURL, &p.Bio, &p.Location, &p.Languages, &p.TravelInterests,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, wrapErr("get profile", err)
	}
	return &p, nil
}

func (s *Store) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now()

	result, err := s.pool.Exec(ctx, `
		UPDATE profiles
		SET full_name = $1, avatar_url = $2, bio = $3, location = $4,
		    languages = $5, travel_interests = $6, updated_at = $7
		WHERE id = $8
	`, profile.FullName, profile.AvatarURL, profile.Bio, profile.Location,
		profile.Languages, profile.TravelInterests, profile.UpdatedAt, profile.ID)
	if err != nil {
		return wrapErr("update profile", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *Store) SearchProfiles(ctx context.Context, query string, limit int) ([]models.ProfileResponse, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, username, full_name, avatar_url, bio, location,
		       languages, travel_interests, created_at
		FROM profiles
		WHERE username ILIKE $1 OR full_name ILIKE $1
		ORDER BY username
		LIMIT $2
	`, "%"+query+"%", limit)
	if err != nil {
		return nil, wrapErr("search profiles", err)
	}
	defer rows.Close()

	profiles := []models.ProfileResponse{}
	for rows.Next() {
		var p models.ProfileResponse
		err := rows.Scan(&p.ID, &p.Username, &p.FullName, &p.AvatarURL, &p.Bio,
			&p.Location, &p.Languages, &p.TravelInterests, &p.CreatedAt)
		if err != nil {
			return nil, wrapErr("search profiles", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
