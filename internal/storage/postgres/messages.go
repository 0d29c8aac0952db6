package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wandermate/server/internal/apperrors"
	"wandermate/server/internal/models"
)

// CreateMessage inserts a message. Message IDs are client-generated so a
// retried send collides on the primary key instead of double-posting; the
// ON CONFLICT clause makes the retry a no-op and the zero rows-affected
// result tells the caller nothing was written.
func (s *Store) CreateMessage(ctx context.Context, msg *models.GroupMessage) (bool, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	msg.CreatedAt = time.Now()

	result, err := s.pool.Exec(ctx, `
		INSERT INTO group_messages (id, travel_group_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, msg.ID, msg.TravelGroupID, msg.SenderID, msg.Content, msg.CreatedAt)
	if err != nil {
		return false, wrapErr("create message", err)
	}
	return result.RowsAffected() > 0, nil
}

func (s *Store) GetMessage(ctx context.Context, messageID string) (*models.GroupMessage, error) {
	var msg models.GroupMessage
	err := s.pool.QueryRow(ctx, `
		SELECT id, travel_group_id, sender_id, content, created_at
		FROM group_messages WHERE id = $1
	`, messageID).Scan(&msg.ID, &msg.TravelGroupID, &msg.SenderID, &msg.Content, &msg.CreatedAt)
	if err != nil {
		return nil, wrapErr("get message", err)
	}
	return &msg, nil
}

// ListMessages returns messages in ascending creation order, the stable
// chronological order chat display expects.
func (s *Store) ListMessages(ctx context.Context, groupID string, limit, offset int) ([]models.MessageWithSender, error) {
	query := `
		SELECT m.id, m.travel_group_id, m.content, m.created_at,
		       p.id, p.username, p.full_name, p.avatar_url
		FROM group_messages m
		INNER JOIN profiles p ON m.sender_id = p.id
		WHERE m.travel_group_id = $1
		ORDER BY m.created_at ASC, m.id ASC`

	args := []interface{}{groupID}
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $2"
		if offset > 0 {
			args = append(args, offset)
			query += " OFFSET $3"
		}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list messages", err)
	}
	defer rows.Close()

	messages := []models.MessageWithSender{}
	for rows.Next() {
		var m models.MessageWithSender
		err := rows.Scan(&m.ID, &m.TravelGroupID, &m.Content, &m.CreatedAt,
			&m.Sender.ID, &m.Sender.Username, &m.Sender.FullName, &m.Sender.AvatarURL)
		if err != nil {
			return nil, wrapErr("list messages", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *Store) DeleteMessage(ctx context.Context, messageID string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM group_messages WHERE id = $1`, messageID)
	if err != nil {
		return wrapErr("delete message", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
