package service

import (
	"context"
	"log/slog"
	"strings"

	"wandermate/server/internal/apperrors"
	"wandermate/server/internal/models"
	"wandermate/server/internal/storage"
)

// ProfileUpdateParams carries the editable profile fields.
type ProfileUpdateParams struct {
	FullName        string
	AvatarURL       *string
	Bio             *string
	Location        *string
	Languages       []string
	TravelInterests []string
}

// ProfileService owns profile reads, updates and search.
type ProfileService struct {
	profiles storage.ProfileStore
}

// NewProfileService creates a ProfileService over the given store.
func NewProfileService(profiles storage.ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get returns a profile's public view.
func (s *ProfileService) Get(ctx context.Context, profileID string) (*models.ProfileResponse, error) {
	profile, err := s.profiles.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	resp := profile.ToResponse()
	return &resp, nil
}

// Update applies the caller's own profile changes.
func (s *ProfileService) Update(ctx context.Context, profileID string, params ProfileUpdateParams) (*models.ProfileResponse, error) {
	if strings.TrimSpace(params.FullName) == "" {
		return nil, apperrors.Validation("fullName", "must not be empty")
	}

	profile, err := s.profiles.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.FullName = strings.TrimSpace(params.FullName)
	profile.AvatarURL = params.AvatarURL
	profile.Bio = params.Bio
	profile.Location = params.Location
	if params.Languages != nil {
		profile.Languages = params.Languages
	}
	if params.TravelInterests != nil {
		profile.TravelInterests = params.TravelInterests
	}

	if err := s.profiles.UpdateProfile(ctx, profile); err != nil {
		slog.Error("update profile failed", "profile_id", profileID, "error", err)
		return nil, err
	}

	resp := profile.ToResponse()
	return &resp, nil
}

// Search matches profiles by username or full name.
func (s *ProfileService) Search(ctx context.Context, query string, limit int) ([]models.ProfileResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.ProfileResponse{}, nil
	}
	return s.profiles.SearchProfiles(ctx, query, limit)
}
