package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wandermate/server/internal/models"
)

// CreateGroup inserts the group, its tags and the creator's accepted
// membership in one transaction, so a group can never exist without its
// creator being a member.
func (s *Store) CreateGroup(ctx context.Context, group *models.TravelGroup, tags []string) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	now := time.Now()
	group.CreatedAt = now
	group.UpdatedAt = now

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrapErr("create group", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO travel_groups
			(id, title, description, destination, start_date, end_date,
			 budget_range, image_url, max_participants, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, group.ID, group.Title, group.Description, group.Destination,
		group.StartDate, group.EndDate, group.BudgetRange, group.ImageURL,
		group.MaxParticipants, group.CreatorID, group.CreatedAt, group.UpdatedAt)
	if err != nil {
		return wrapErr("create group", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO group_members (id, travel_group_id, profile_id, status, joined_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New().String(), group.ID, group.CreatorID, models.StatusAccepted, now, now)
	if err != nil {
		return wrapErr("create creator membership", err)
	}

	for _, tag := range tags {
		_, err = tx.Exec(ctx, `
			INSERT INTO group_tags (id, travel_group_id, tag)
			VALUES ($1, $2, $3)
		`, uuid.New().String(), group.ID, tag)
		if err != nil {
			return wrapErr("create group tags", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapErr("create group", err)
	}
	return nil
}

func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.TravelGroup, error) {
	var group models.TravelGroup
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, description, destination, start_date, end_date,
		       budget_range, image_url, max_participants, creator_id, created_at, updated_at
		FROM travel_groups WHERE id = $1
	`, groupID).Scan(&group.ID, &group.Title, &group.Description, &group.Destination,
		&group.StartDate, &group.EndDate, &group.BudgetRange, &group.ImageURL,
		&group.MaxParticipants, &group.CreatorID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		return nil, wrapErr("get group", err)
	}
	return &group, nil
}

func (s *Store) GetGroupDetails(ctx context.Context, groupID string) (*models.GroupWithDetails, error) {
	var details models.GroupWithDetails
	err := s.pool.QueryRow(ctx, `
		SELECT g.id, g.title, g.description, g.destination, g.start_date, g.end_date,
		       g.budget_range, g.image_url, g.max_participants, g.creator_id,
		       g.created_at, g.updated_at,
		       p.id, p.username, p.full_name, p.avatar_url, p.location,
		       (SELECT COUNT(*) FROM group_members
		        WHERE travel_group_id = g.id AND status = 'accepted') AS accepted_count
		FROM travel_groups g
		INNER JOIN profiles p ON g.creator_id = p.id
		WHERE g.id = $1
	`, groupID).Scan(&details.ID, &details.Title, &details.Description, &details.Destination,
		&details.StartDate, &details.EndDate, &details.BudgetRange, &details.ImageURL,
		&details.MaxParticipants, &details.CreatorID, &details.CreatedAt, &details.UpdatedAt,
		&details.Creator.ID, &details.Creator.Username, &details.Creator.FullName,
		&details.Creator.AvatarURL, &details.Creator.Location, &details.AcceptedCount)
	if err != nil {
		return nil, wrapErr("get group details", err)
	}

	tags, err := s.groupTags(ctx, groupID)
	if err != nil {
		return nil, err
	}
	details.Tags = tags

	return &details, nil
}

func (s *Store) ListGroups(ctx context.Context, filter models.GroupFilter) ([]models.GroupWithDetails, error) {
	query := `
		SELECT g.id, g.title, g.description, g.destination, g.start_date, g.end_date,
		       g.budget_range, g.image_url, g.max_participants, g.creator_id,
		       g.created_at, g.updated_at,
		       p.id, p.username, p.full_name, p.avatar_url, p.location,
		       (SELECT COUNT(*) FROM group_members
		        WHERE travel_group_id = g.id AND status = 'accepted') AS accepted_count
		FROM travel_groups g
		INNER JOIN profiles p ON g.creator_id = p.id`

	var conditions []string
	var args []interface{}

	if filter.Destination != "" {
		args = append(args, "%"+filter.Destination+"%")
		conditions = append(conditions, "g.destination ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.StartAfter != nil {
		args = append(args, *filter.StartAfter)
		conditions = append(conditions, "g.start_date >= $"+strconv.Itoa(len(args)))
	}
	if filter.EndBefore != nil {
		args = append(args, *filter.EndBefore)
		conditions = append(conditions, "g.end_date <= $"+strconv.Itoa(len(args)))
	}
	if filter.Budget != "" {
		args = append(args, filter.Budget)
		conditions = append(conditions, "g.budget_range = $"+strconv.Itoa(len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY g.created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list groups", err)
	}
	defer rows.Close()

	var groups []models.GroupWithDetails
	for rows.Next() {
		var details models.GroupWithDetails
		err := rows.Scan(&details.ID, &details.Title, &details.Description, &details.Destination,
			&details.StartDate, &details.EndDate, &details.BudgetRange, &details.ImageURL,
			&details.MaxParticipants, &details.CreatorID, &details.CreatedAt, &details.UpdatedAt,
			&details.Creator.ID, &details.Creator.Username, &details.Creator.FullName,
			&details.Creator.AvatarURL, &details.Creator.Location, &details.AcceptedCount)
		if err != nil {
			return nil, wrapErr("list groups", err)
		}
		groups = append(groups, details)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list groups", err)
	}

	if groups == nil {
		groups = []models.GroupWithDetails{}
	}
	return groups, nil
}

func (s *Store) UpdateGroup(ctx context.Context, group *models.TravelGroup, tags []string) error {
	group.UpdatedAt = time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrapErr("update group", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE travel_groups
		SET title = $1, description = $2, destination = $3, start_date = $4,
		    end_date = $5, budget_range = $6, image_url = $7,
		    max_participants = $8, updated_at = $9
		WHERE id = $10
	`, group.Title, group.Description, group.Destination, group.StartDate,
		group.EndDate, group.BudgetRange, group.ImageURL,
		group.MaxParticipants, group.UpdatedAt, group.ID)
	if err != nil {
		return wrapErr("update group", err)
	}
	if result.RowsAffected() == 0 {
		return wrapErr("update group", pgx.ErrNoRows)
	}

	if tags != nil {
		_, err = tx.Exec(ctx, `DELETE FROM group_tags WHERE travel_group_id = $1`, group.ID)
		if err != nil {
			return wrapErr("update group tags", err)
		}
		for _, tag := range tags {
			_, err = tx.Exec(ctx, `
				INSERT INTO group_tags (id, travel_group_id, tag)
				VALUES ($1, $2, $3)
			`, uuid.New().String(), group.ID, tag)
			if err != nil {
				return wrapErr("update group tags", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapErr("update group", err)
	}
	return nil
}

// DeleteGroup removes the group; foreign keys cascade memberships, messages
// and tags in the same statement.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM travel_groups WHERE id = $1`, groupID)
	if err != nil {
		return wrapErr("delete group", err)
	}
	if result.RowsAffected() == 0 {
		return wrapErr("delete group", pgx.ErrNoRows)
	}
	return nil
}

func (s *Store) groupTags(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT tag FROM group_tags WHERE travel_group_id = $1 ORDER BY tag
	`, groupID)
	if err != nil {
		return nil, wrapErr("get group tags", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, wrapErr("get group tags", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
