package service

import (
	"context"
	"log/slog"

	"wandermate/server/internal/apperrors"
	"wandermate/server/internal/metrics"
	"wandermate/server/internal/models"
	"wandermate/server/internal/storage"
)

// MembershipService owns the lifecycle of a (profile, group) membership:
// join requests, approval, rejection, leaving and removal.
type MembershipService struct {
	groups  storage.GroupStore
	members storage.MembershipStore
}

// NewMembershipService creates a MembershipService over the given stores.
func NewMembershipService(groups storage.GroupStore, members storage.MembershipStore) *MembershipService {
	return &MembershipService{groups: groups, members: members}
}

// RequestJoin asks to join a group. A fresh request lands in pending; a
// rejected request is re-opened to pending on the same row. Requests from
// accepted members and duplicate pending requests fail with distinct
// errors so the UI can tell the user what state they are in.
func (s *MembershipService) RequestJoin(ctx context.Context, groupID, profileID string) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID == profileID {
		return apperrors.ErrAlreadyMember
	}

	membership, err := s.members.GetMembership(ctx, groupID, profileID)
	switch {
	case err == nil:
		switch membership.Status {
		case models.StatusAccepted:
			return apperrors.ErrAlreadyMember
		case models.StatusPending:
			return apperrors.ErrRequestPending
		case models.StatusRejected:
			// Re-request transitions the existing row, never inserts
			// a second one.
			if err := s.members.SetStatus(ctx, groupID, profileID, models.StatusPending); err != nil {
				return err
			}
			metrics.JoinRequests.Inc()
			slog.Info("join request re-opened", "group_id", groupID, "profile_id", profileID)
			return nil
		default:
			return apperrors.ErrNotFound
		}
	case !isNotFound(err):
		return err
	}

	// Soft "still open" check. Seats are only consumed on approval, so
	// this is advisory; the authoritative check happens in Approve.
	accepted, err := s.members.AcceptedCount(ctx, groupID)
	if err != nil {
		return err
	}
	if accepted >= group.MaxParticipants {
		return apperrors.ErrGroupFull
	}

	err = s.members.CreateMembership(ctx, &models.GroupMember{
		TravelGroupID: groupID,
		ProfileID:     profileID,
		Status:        models.StatusPending,
	})
	if err != nil {
		// A concurrent duplicate insert lost to the unique constraint;
		// the caller's request is pending either way.
		return err
	}

	metrics.JoinRequests.Inc()
	slog.Info("join requested", "group_id", groupID, "profile_id", profileID)
	return nil
}

// Approve transitions a pending request to accepted. Only the creator may
// approve, and the capacity check is atomic with the transition: two
// concurrent approvals cannot both take the last seat.
func (s *MembershipService) Approve(ctx context.Context, groupID, memberID, requesterID string) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != requesterID {
		return apperrors.ErrNotAuthorized
	}

	membership, err := s.members.GetMembership(ctx, groupID, memberID)
	if err != nil {
		if isNotFound(err) {
			return apperrors.ErrNotMember
		}
		return err
	}
	if !membership.Status.CanTransition(models.StatusAccepted) {
		if membership.Status == models.StatusAccepted {
			return apperrors.ErrAlreadyMember
		}
		return apperrors.ErrNotMember
	}

	err = s.members.AcceptIfCapacity(ctx, groupID, memberID, group.MaxParticipants)
	if err != nil {
		if err == apperrors.ErrGroupFull {
			metrics.ApprovalsAtCapacity.Inc()
			slog.Warn("approval rejected at capacity", "group_id", groupID, "member_id", memberID)
		}
		return err
	}

	metrics.MembersApproved.Inc()
	slog.Info("member approved", "group_id", groupID, "member_id", memberID)
	return nil
}

// Reject transitions a pending request to rejected. Creator only.
func (s *MembershipService) Reject(ctx context.Context, groupID, memberID, requesterID string) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != requesterID {
		return apperrors.ErrNotAuthorized
	}

	membership, err := s.members.GetMembership(ctx, groupID, memberID)
	if err != nil {
		if isNotFound(err) {
			return apperrors.ErrNotMember
		}
		return err
	}
	if !membership.Status.CanTransition(models.StatusRejected) {
		// The creator's own accepted row can never be rejected.
		if membership.Status == models.StatusAccepted {
			return apperrors.ErrAlreadyMember
		}
		return apperrors.ErrNotMember
	}

	if err := s.members.SetStatus(ctx, groupID, memberID, models.StatusRejected); err != nil {
		return err
	}

	slog.Info("join request rejected", "group_id", groupID, "member_id", memberID)
	return nil
}

// Leave removes the caller's own membership. The creator cannot leave;
// they delete the group instead.
func (s *MembershipService) Leave(ctx context.Context, groupID, profileID string) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID == profileID {
		return apperrors.ErrCreatorCannotLeave
	}

	if err := s.members.DeleteMembership(ctx, groupID, profileID); err != nil {
		if isNotFound(err) {
			return apperrors.ErrNotMember
		}
		return err
	}

	slog.Info("member left", "group_id", groupID, "profile_id", profileID)
	return nil
}

// Remove force-removes a member. Creator only, and never the creator's
// own membership.
func (s *MembershipService) Remove(ctx context.Context, groupID, memberID, requesterID string) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != requesterID {
		return apperrors.ErrNotAuthorized
	}
	if memberID == group.CreatorID {
		return apperrors.ErrCannotRemoveCreator
	}

	if err := s.members.DeleteMembership(ctx, groupID, memberID); err != nil {
		if isNotFound(err) {
			return apperrors.ErrNotMember
		}
		return err
	}

	slog.Info("member removed", "group_id", groupID, "member_id", memberID, "by", requesterID)
	return nil
}

// StatusFor reports a profile's membership status for a group.
// StatusNone means no membership row exists.
func (s *MembershipService) StatusFor(ctx context.Context, groupID, profileID string) (models.MemberStatus, error) {
	membership, err := s.members.GetMembership(ctx, groupID, profileID)
	if err != nil {
		if isNotFound(err) {
			return models.StatusNone, nil
		}
		return models.StatusNone, err
	}
	return membership.Status, nil
}
