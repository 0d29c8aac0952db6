package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"wandermate/server/internal/apperrors"
	"wandermate/server/internal/metrics"
	"wandermate/server/internal/models"
	"wandermate/server/internal/storage"
)

// GroupParams carries the validated fields for creating or updating a
// travel group.
type GroupParams struct {
	Title           string
	Description     string
	Destination     string
	StartDate       time.Time
	EndDate         time.Time
	BudgetRange     *string
	ImageURL        *string
	MaxParticipants int
	Tags            []string
}

// GroupService owns the travel group lifecycle: creation, updates and
// deletion with their cascading effects.
type GroupService struct {
	groups  storage.GroupStore
	members storage.MembershipStore
}

// NewGroupService creates a GroupService over the given stores.
func NewGroupService(groups storage.GroupStore, members storage.MembershipStore) *GroupService {
	return &GroupService{groups: groups, members: members}
}

func validateGroupParams(p *GroupParams) error {
	if strings.TrimSpace(p.Title) == "" {
		return apperrors.Validation("title", "must not be empty")
	}
	if strings.TrimSpace(p.Destination) == "" {
		return apperrors.Validation("destination", "must not be empty")
	}
	if p.StartDate.After(p.EndDate) {
		return apperrors.Validation("dates", "start date must not be after end date")
	}
	if p.MaxParticipants < 1 {
		return apperrors.Validation("maxParticipants", "must be at least 1")
	}
	return nil
}

// normalizeTags lowercases and trims tags, dropping empties.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// CreateGroup validates the params, persists the group and makes the
// creator its first accepted member in the same transaction.
func (s *GroupService) CreateGroup(ctx context.Context, params GroupParams, creatorID string) (*models.TravelGroup, error) {
	if err := validateGroupParams(&params); err != nil {
		return nil, err
	}

	group := &models.TravelGroup{
		Title:           strings.TrimSpace(params.Title),
		Description:     params.Description,
		Destination:     strings.TrimSpace(params.Destination),
		StartDate:       params.StartDate,
		EndDate:         params.EndDate,
		BudgetRange:     params.BudgetRange,
		ImageURL:        params.ImageURL,
		MaxParticipants: params.MaxParticipants,
		CreatorID:       creatorID,
	}

	if err := s.groups.CreateGroup(ctx, group, normalizeTags(params.Tags)); err != nil {
		slog.Error("create group failed", "creator_id", creatorID, "error", err)
		return nil, err
	}

	metrics.GroupsCreated.Inc()
	slog.Info("group created", "group_id", group.ID, "destination", group.Destination, "creator_id", creatorID)
	return group, nil
}

// UpdateGroup applies field updates. Only the creator may update, and the
// date/capacity invariants are re-validated.
func (s *GroupService) UpdateGroup(ctx context.Context, groupID string, params GroupParams, requesterID string) (*models.TravelGroup, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != requesterID {
		return nil, apperrors.ErrNotAuthorized
	}
	if err := validateGroupParams(&params); err != nil {
		return nil, err
	}

	group.Title = strings.TrimSpace(params.Title)
	group.Description = params.Description
	group.Destination = strings.TrimSpace(params.Destination)
	group.StartDate = params.StartDate
	group.EndDate = params.EndDate
	group.BudgetRange = params.BudgetRange
	group.ImageURL = params.ImageURL
	group.MaxParticipants = params.MaxParticipants

	var tags []string
	if params.Tags != nil {
		tags = normalizeTags(params.Tags)
	}

	if err := s.groups.UpdateGroup(ctx, group, tags); err != nil {
		slog.Error("update group failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("group updated", "group_id", groupID)
	return group, nil
}

// DeleteGroup removes the group and, through the storage cascade, all of
// its memberships, messages and tags as one atomic operation.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, requesterID string) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != requesterID {
		return apperrors.ErrNotAuthorized
	}

	if err := s.groups.DeleteGroup(ctx, groupID); err != nil {
		slog.Error("delete group failed", "group_id", groupID, "error", err)
		return err
	}

	slog.Info("group deleted", "group_id", groupID, "creator_id", requesterID)
	return nil
}

// GetGroup returns a group with creator, tags and accepted count. When
// viewerID is set, the viewer's membership status is attached.
func (s *GroupService) GetGroup(ctx context.Context, groupID, viewerID string) (*models.GroupWithDetails, error) {
	details, err := s.groups.GetGroupDetails(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if viewerID != "" {
		details.IsCreator = details.CreatorID == viewerID
		membership, err := s.members.GetMembership(ctx, groupID, viewerID)
		switch {
		case err == nil:
			status := membership.Status
			details.MemberStatus = &status
		case !isNotFound(err):
			return nil, err
		}
	}

	return details, nil
}

// ListGroups returns groups matching the filter, newest first, with the
// viewer's membership status attached when viewerID is set.
func (s *GroupService) ListGroups(ctx context.Context, filter models.GroupFilter, viewerID string) ([]models.GroupWithDetails, error) {
	groups, err := s.groups.ListGroups(ctx, filter)
	if err != nil {
		return nil, err
	}

	if viewerID != "" && len(groups) > 0 {
		memberships, err := s.members.ListMembershipsByProfile(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		statusByGroup := make(map[string]models.MemberStatus, len(memberships))
		for _, m := range memberships {
			statusByGroup[m.TravelGroupID] = m.Status
		}
		for i := range groups {
			groups[i].IsCreator = groups[i].CreatorID == viewerID
			if status, ok := statusByGroup[groups[i].ID]; ok {
				s := status
				groups[i].MemberStatus = &s
			}
		}
	}

	return groups, nil
}

// ListMembers returns all memberships of a group with profile info.
func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]models.MemberWithProfile, error) {
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.members.ListMembers(ctx, groupID)
}
