package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"wandermate/server/internal/apperrors"
	"wandermate/server/internal/metrics"
	"wandermate/server/internal/models"
	"wandermate/server/internal/ratelimit"
	"wandermate/server/internal/realtime"
	"wandermate/server/internal/storage"
)

// MembershipChecker is the slice of MembershipService that messaging
// depends on for the "who may post" question.
type MembershipChecker interface {
	StatusFor(ctx context.Context, groupID, profileID string) (models.MemberStatus, error)
}

// MessageService owns group chat: sending, fetching, deleting and the
// realtime subscription channel.
type MessageService struct {
	messages    storage.MessageStore
	groups      storage.GroupStore
	profiles    storage.ProfileStore
	memberships MembershipChecker
	limiter     ratelimit.Limiter
	broker      *realtime.Broker
}

// NewMessageService creates a MessageService. The rate limiter is injected
// so tests control the clock and deployments tune the window.
func NewMessageService(
	messages storage.MessageStore,
	groups storage.GroupStore,
	profiles storage.ProfileStore,
	memberships MembershipChecker,
	limiter ratelimit.Limiter,
	broker *realtime.Broker,
) *MessageService {
	return &MessageService{
		messages:    messages,
		groups:      groups,
		profiles:    profiles,
		memberships: memberships,
		limiter:     limiter,
		broker:      broker,
	}
}

// rateKey scopes the limiter to a (sender, group) pair.
func rateKey(senderID, groupID string) string {
	return senderID + "-" + groupID
}

// Send persists a chat message for an accepted member and publishes it to
// subscribers. clientMessageID, when set, de-duplicates retried sends.
func (s *MessageService) Send(ctx context.Context, groupID, senderID, content, clientMessageID string) (*models.MessageWithSender, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.ErrEmptyContent
	}

	status, err := s.memberships.StatusFor(ctx, groupID, senderID)
	if err != nil {
		return nil, err
	}
	if status != models.StatusAccepted {
		return nil, apperrors.ErrNotAuthorized
	}

	if !s.limiter.Allow(rateKey(senderID, groupID)) {
		metrics.MessagesRateLimited.Inc()
		slog.Warn("message rate limited", "group_id", groupID, "sender_id", senderID)
		return nil, apperrors.ErrRateLimited
	}

	msg := &models.GroupMessage{
		ID:            clientMessageID,
		TravelGroupID: groupID,
		SenderID:      senderID,
		Content:       content,
	}
	inserted, err := s.messages.CreateMessage(ctx, msg)
	if err != nil {
		slog.Error("send message failed", "group_id", groupID, "sender_id", senderID, "error", err)
		return nil, err
	}

	sender, err := s.profiles.GetProfile(ctx, senderID)
	if err != nil {
		return nil, err
	}

	if !inserted {
		// The client-generated ID already names a stored message. A
		// retry of this sender's own message is answered idempotently,
		// without publishing a second event; anything else is the
		// caller reusing a foreign ID.
		stored, err := s.messages.GetMessage(ctx, msg.ID)
		if err != nil {
			return nil, err
		}
		if stored.SenderID != senderID || stored.TravelGroupID != groupID || stored.Content != content {
			return nil, apperrors.Validation("messageId", "already used by another message")
		}
		return &models.MessageWithSender{
			ID:            stored.ID,
			TravelGroupID: stored.TravelGroupID,
			Content:       stored.Content,
			Sender:        sender.ToResponse(),
			CreatedAt:     stored.CreatedAt,
		}, nil
	}

	out := &models.MessageWithSender{
		ID:            msg.ID,
		TravelGroupID: msg.TravelGroupID,
		Content:       msg.Content,
		Sender:        sender.ToResponse(),
		CreatedAt:     msg.CreatedAt,
	}

	// Publish after the write commits so subscribers never see a message
	// that was not persisted.
	s.broker.Publish(realtime.Event{
		Type:      realtime.EventMessageCreated,
		GroupID:   groupID,
		MessageID: msg.ID,
		Message:   out,
		Timestamp: time.Now(),
	})

	metrics.MessagesSent.Inc()
	return out, nil
}

// Fetch returns a group's messages in ascending creation order.
func (s *MessageService) Fetch(ctx context.Context, groupID string, limit, offset int) ([]models.MessageWithSender, error) {
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.messages.ListMessages(ctx, groupID, limit, offset)
}

// Delete removes a message. Only its sender or the group's creator may
// delete it.
func (s *MessageService) Delete(ctx context.Context, messageID, requesterID string) error {
	msg, err := s.messages.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}

	group, err := s.groups.GetGroup(ctx, msg.TravelGroupID)
	if err != nil {
		return err
	}

	if requesterID != msg.SenderID && requesterID != group.CreatorID {
		return apperrors.ErrNotAuthorized
	}

	if err := s.messages.DeleteMessage(ctx, messageID); err != nil {
		return err
	}

	s.broker.Publish(realtime.Event{
		Type:      realtime.EventMessageDeleted,
		GroupID:   msg.TravelGroupID,
		MessageID: messageID,
		Timestamp: time.Now(),
	})

	slog.Info("message deleted", "message_id", messageID, "by", requesterID)
	return nil
}

// Subscribe opens a cancellable stream of chat events for a group.
func (s *MessageService) Subscribe(groupID string) *realtime.Subscription {
	return s.broker.Subscribe(groupID)
}
