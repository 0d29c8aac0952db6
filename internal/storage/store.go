// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"wandermate/server/internal/models"
)

// GroupStore persists travel groups and their tags.
type GroupStore interface {
	// CreateGroup persists a new group together with its tags and the
	// creator's accepted membership in a single transaction.
	CreateGroup(ctx context.Context, group *models.TravelGroup, tags []string) error

	// GetGroup retrieves a group by ID, or apperrors.ErrNotFound.
	GetGroup(ctx context.Context, groupID string) (*models.TravelGroup, error)

	// GetGroupDetails retrieves a group with creator profile, tags and
	// accepted member count.
	GetGroupDetails(ctx context.Context, groupID string) (*models.GroupWithDetails, error)

	// ListGroups retrieves groups matching the filter, newest first.
	ListGroups(ctx context.Context, filter models.GroupFilter) ([]models.GroupWithDetails, error)

	// UpdateGroup applies field updates and replaces tags when tags is
	// non-nil.
	UpdateGroup(ctx context.Context, group *models.TravelGroup, tags []string) error

	// DeleteGroup removes the group; memberships, messages and tags go
	// with it.
	DeleteGroup(ctx context.Context, groupID string) error
}

// MembershipStore persists the (profile, group) membership relation.
type MembershipStore interface {
	// GetMembership returns the membership row for (group, profile), or
	// apperrors.ErrNotFound when none exists.
	GetMembership(ctx context.Context, groupID, profileID string) (*models.GroupMember, error)

	// CreateMembership inserts a membership row. A duplicate (group,
	// profile) pair surfaces as apperrors.ErrRequestPending.
	CreateMembership(ctx context.Context, member *models.GroupMember) error

	// SetStatus updates the status of an existing membership row.
	SetStatus(ctx context.Context, groupID, profileID string, status models.MemberStatus) error

	// AcceptIfCapacity transitions a pending membership to accepted only
	// if the group's accepted count is still below maxParticipants. The
	// count check and the update are serialized per group, so concurrent
	// approvals cannot both take the last seat. Returns
	// apperrors.ErrGroupFull when the seat is gone and
	// apperrors.ErrNotFound when no pending row exists.
	AcceptIfCapacity(ctx context.Context, groupID, profileID string, maxParticipants int) error

	// DeleteMembership removes the membership row, or
	// apperrors.ErrNotFound.
	DeleteMembership(ctx context.Context, groupID, profileID string) error

	// ListMembers returns all memberships for a group with profiles,
	// newest join first.
	ListMembers(ctx context.Context, groupID string) ([]models.MemberWithProfile, error)

	// ListMembershipsByProfile returns all of a profile's memberships
	// across groups.
	ListMembershipsByProfile(ctx context.Context, profileID string) ([]models.GroupMember, error)

	// AcceptedCount returns the number of accepted members of a group.
	AcceptedCount(ctx context.Context, groupID string) (int, error)
}

// MessageStore persists group chat messages.
type MessageStore interface {
	// CreateMessage inserts a message. The ID may be client-generated so
	// retries de-duplicate; a duplicate ID leaves the stored row
	// untouched and returns false so the caller can tell a retry from a
	// fresh insert.
	CreateMessage(ctx context.Context, msg *models.GroupMessage) (inserted bool, err error)

	// GetMessage retrieves a message by ID, or apperrors.ErrNotFound.
	GetMessage(ctx context.Context, messageID string) (*models.GroupMessage, error)

	// ListMessages returns messages for a group in ascending creation
	// order. limit <= 0 means no limit.
	ListMessages(ctx context.Context, groupID string, limit, offset int) ([]models.MessageWithSender, error)

	// DeleteMessage removes a message, or apperrors.ErrNotFound.
	DeleteMessage(ctx context.Context, messageID string) error
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, profileID string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error

	// SearchProfiles matches username or full name, case-insensitive.
	SearchProfiles(ctx context.Context, query string, limit int) ([]models.ProfileResponse, error)
}

// Store bundles all storage concerns behind one interface so the service
// layer stays independent of the backing database.
type Store interface {
	GroupStore
	MembershipStore
	MessageStore
	ProfileStore

	// Close releases any resources held by the store.
	Close()
}
