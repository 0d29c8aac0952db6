package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wandermate/server/internal/apperrors"
	"wandermate/server/internal/models"
)

func (s *Store) GetMembership(ctx context.Context, groupID, profileID string) (*models.GroupMember, error) {
	var member models.GroupMember
	err := s.pool.QueryRow(ctx, `
		SELECT id, travel_group_id, profile_id, status, joined_at, updated_at
		FROM group_members
		WHERE travel_group_id = $1 AND profile_id = $2
	`, groupID, profileID).Scan(&member.ID, &member.TravelGroupID, &member.ProfileID,
		&member.Status, &member.JoinedAt, &member.UpdatedAt)
	if err != nil {
		return nil, wrapErr("get membership", err)
	}
	return &member, nil
}

// CreateMembership inserts a membership row. The UNIQUE (travel_group_id,
// profile_id) constraint turns a concurrent duplicate insert into
// ErrRequestPending instead of a second row.
func (s *Store) CreateMembership(ctx context.Context, member *models.GroupMember) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	now := time.Now()
	member.JoinedAt = now
	member.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO group_members (id, travel_group_id, profile_id, status, joined_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, member.ID, member.TravelGroupID, member.ProfileID, member.Status,
		member.JoinedAt, member.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrRequestPending
		}
		return wrapErr("create membership", err)
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, groupID, profileID string, status models.MemberStatus) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE group_members SET status = $1, updated_at = $2
		WHERE travel_group_id = $3 AND profile_id = $4
	`, status, time.Now(), groupID, profileID)
	if err != nil {
		return wrapErr("set membership status", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AcceptIfCapacity performs the capacity check and the pending->accepted
// transition under a row lock on the group. Locking the group first
// serializes concurrent approvals: under READ COMMITTED, two approvals of
// different members would otherwise lock disjoint member rows, each count
// a snapshot that excludes the other's uncommitted transition, and both
// take the last seat.
func (s *Store) AcceptIfCapacity(ctx context.Context, groupID, profileID string, maxParticipants int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrapErr("accept membership", err)
	}
	defer tx.Rollback(ctx)

	var lockedID string
	err = tx.QueryRow(ctx, `
		SELECT id FROM travel_groups WHERE id = $1 FOR UPDATE
	`, groupID).Scan(&lockedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return wrapErr("accept membership", err)
	}

	result, err := tx.Exec(ctx, `
		UPDATE group_members SET status = 'accepted', updated_at = $1
		WHERE travel_group_id = $2 AND profile_id = $3 AND status = 'pending'
		  AND (SELECT COUNT(*) FROM group_members
		       WHERE travel_group_id = $2 AND status = 'accepted') < $4
	`, time.Now(), groupID, profileID, maxParticipants)
	if err != nil {
		return wrapErr("accept membership", err)
	}
	if result.RowsAffected() > 0 {
		if err := tx.Commit(ctx); err != nil {
			return wrapErr("accept membership", err)
		}
		return nil
	}

	// Zero rows: either the seat is gone or there was no pending request.
	var status models.MemberStatus
	err = tx.QueryRow(ctx, `
		SELECT status FROM group_members
		WHERE travel_group_id = $1 AND profile_id = $2
	`, groupID, profileID).Scan(&status)
	switch {
	case err == pgx.ErrNoRows:
		return apperrors.ErrNotFound
	case err != nil:
		return wrapErr("accept membership", err)
	case status == models.StatusPending:
		return apperrors.ErrGroupFull
	case status == models.StatusAccepted:
		// An identical approval already landed; the end state is the
		// one requested.
		return nil
	default:
		return apperrors.ErrNotFound
	}
}

func (s *Store) DeleteMembership(ctx context.Context, groupID, profileID string) error {
	result, err := s.pool.Exec(ctx, `
		DELETE FROM group_members WHERE travel_group_id = $1 AND profile_id = $2
	`, groupID, profileID)
	if err != nil {
		return wrapErr("delete membership", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *Store) ListMembers(ctx context.Context, groupID string) ([]models.MemberWithProfile, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT gm.id, gm.status, gm.joined_at,
		       p.id, p.username, p.full_name, p.avatar_url, p.location
		FROM group_members gm
		INNER JOIN profiles p ON gm.profile_id = p.id
		WHERE gm.travel_group_id = $1
		ORDER BY gm.joined_at DESC
	`, groupID)
	if err != nil {
		return nil, wrapErr("list members", err)
	}
	defer rows.Close()

	members := []models.MemberWithProfile{}
	for rows.Next() {
		var m models.MemberWithProfile
		err := rows.Scan(&m.ID, &m.Status, &m.JoinedAt,
			&m.Profile.ID, &m.Profile.Username, &m.Profile.FullName,
			&m.Profile.AvatarURL, &m.Profile.Location)
		if err != nil {
			return nil, wrapErr("list members", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) ListMembershipsByProfile(ctx context.Context, profileID string) ([]models.GroupMember, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, travel_group_id, profile_id, status, joined_at, updated_at
		FROM group_members WHERE profile_id = $1
	`, profileID)
	if err != nil {
		return nil, wrapErr("list memberships by profile", err)
	}
	defer rows.Close()

	memberships := []models.GroupMember{}
	for rows.Next() {
		var m models.GroupMember
		err := rows.Scan(&m.ID, &m.TravelGroupID, &m.ProfileID, &m.Status, &m.JoinedAt, &m.UpdatedAt)
		if err != nil {
			return nil, wrapErr("list memberships by profile", err)
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (s *Store) AcceptedCount(ctx context.Context, groupID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM group_members
		WHERE travel_group_id = $1 AND status = 'accepted'
	`, groupID).Scan(&count)
	if err != nil {
		return 0, wrapErr("accepted count", err)
	}
	return count, nil
}
