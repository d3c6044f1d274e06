package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
)

const (
	titleMaxRunes = 40
	titleEllipsis = "..."
	defaultTitle  = "New chat"
)

// Conversation runs the message/reply flow and every owner-guarded
// operation on stored conversations.
type Conversation struct {
	conversationStore model.ConversationStore
	userStore         model.UserStore
	answerer          model.Answerer
	storage           model.Storage
	engineTimeout     time.Duration
	logger            *logger.Logger
}

// NewConversation builds the orchestrator. A nil storage disables transcript
// archiving; a zero engineTimeout leaves the engine bounded by the request only.
func NewConversation(
	conversationStore model.ConversationStore,
	userStore model.UserStore,
	answerer model.Answerer,
	storage model.Storage,
	engineTimeout time.Duration,
	logger *logger.Logger,
) *Conversation {
	return &Conversation{
		conversationStore: conversationStore,
		userStore:         userStore,
		answerer:          answerer,
		storage:           storage,
		engineTimeout:     engineTimeout,
		logger:            logger,
	}
}

// Respond answers message and records the exchange. With historyID nil a new
// conversation is created; otherwise the turn is appended to that
// conversation, which must belong to userID.
func (s *Conversation) Respond(ctx context.Context, userID uuid.UUID, message string, historyID *int64) (model.Reply, error) {
	if strings.TrimSpace(message) == "" {
		return model.Reply{}, model.NewMissingFieldError("message")
	}

	if _, err := s.requireUser(ctx, userID); err != nil {
		return model.Reply{}, err
	}

	if historyID != nil {
		if _, err := s.owned(ctx, userID, *historyID); err != nil {
			return model.Reply{}, err
		}
	}

	reply, err := s.answer(ctx, message)
	if err != nil {
		s.logger.Error("Conversation service: answering engine failed",
			"user_id", userID,
			"error", err.Error())
		return model.Reply{}, err
	}

	if err := ctx.Err(); err != nil {
		s.logger.Info("Conversation service: request ended before reply was saved",
			"user_id", userID)
		return model.Reply{}, fmt.Errorf("request cancelled: %w", err)
	}

	turn := model.Turn{Message: message, Reply: reply}

	if historyID != nil {
		ok, err := s.conversationStore.Update(ctx, *historyID, userID, turn)
		if err != nil {
			s.logger.Error("Conversation service: failed to append turn",
				"user_id", userID,
				"history_id", *historyID,
				"error", err.Error())
			return model.Reply{}, fmt.Errorf("failed to append turn: %w", err)
		}
		if !ok {
			return model.Reply{}, model.ErrConversationNotFound
		}

		return model.Reply{Response: reply, HistoryID: *historyID}, nil
	}

	id, err := s.conversationStore.Create(ctx, userID, deriveTitle(message), turn)
	if err != nil {
		s.logger.Error("Conversation service: failed to create conversation",
			"user_id", userID,
			"error", err.Error())
		return model.Reply{}, fmt.Errorf("failed to create conversation: %w", err)
	}

	s.logger.Info("Conversation service: conversation started",
		"user_id", userID,
		"history_id", id)

	return model.Reply{Response: reply, HistoryID: id}, nil
}

func (s *Conversation) answer(ctx context.Context, message string) (string, error) {
	if s.engineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.engineTimeout)
		defer cancel()
	}

	reply, err := s.answerer.Answer(ctx, message)
	if err != nil {
		if errors.Is(err, model.ErrEngineUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", model.ErrEngineUnavailable, err)
	}

	return reply, nil
}

// List returns summaries of the caller's conversations, most recently updated first.
func (s *Conversation) List(ctx context.Context, userID uuid.UUID) ([]model.ConversationSummary, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	summaries, err := s.conversationStore.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	return summaries, nil
}

// Get returns a full conversation owned by userID.
func (s *Conversation) Get(ctx context.Context, userID uuid.UUID, id int64) (model.Conversation, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return model.Conversation{}, err
	}

	conv, err := s.owned(ctx, userID, id)
	if err != nil {
		return model.Conversation{}, err
	}
	conv.OwnerUsername = user.Username

	return conv, nil
}

// Delete removes a conversation owned by userID. A missing id reports false
// without error so repeated deletes are harmless.
func (s *Conversation) Delete(ctx context.Context, userID uuid.UUID, id int64) (bool, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return false, err
	}

	conv, err := s.owned(ctx, userID, id)
	if errors.Is(err, model.ErrConversationNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return s.remove(ctx, conv)
}

// DeleteAllForOwner archives and removes every conversation of ownerID.
func (s *Conversation) DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error {
	ids, err := s.conversationStore.ListIDsByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	for _, id := range ids {
		conv, err := s.conversationStore.GetByID(ctx, id)
		if errors.Is(err, model.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to get conversation %d: %w", id, err)
		}

		if _, err := s.remove(ctx, conv); err != nil {
			return err
		}
	}

	s.logger.Info("Conversation service: removed all conversations",
		"user_id", ownerID,
		"count", len(ids))

	return nil
}

func (s *Conversation) remove(ctx context.Context, conv model.Conversation) (bool, error) {
	if err := s.archive(ctx, conv); err != nil {
		s.logger.Error("Conversation service: failed to archive transcript",
			"history_id", conv.ID,
			"error", err.Error())
		return false, fmt.Errorf("failed to archive conversation %d: %w", conv.ID, err)
	}

	deleted, err := s.conversationStore.Delete(ctx, conv.ID)
	if err != nil {
		s.logger.Error("Conversation service: failed to delete conversation",
			"history_id", conv.ID,
			"error", err.Error())
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}

	s.logger.Info("Conversation service: conversation deleted",
		"user_id", conv.OwnerID,
		"history_id", conv.ID,
		"deleted", deleted)

	return deleted, nil
}

func (s *Conversation) requireUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// owned loads conversation id and checks that userID owns it.
func (s *Conversation) owned(ctx context.Context, userID uuid.UUID, id int64) (model.Conversation, error) {
	conv, err := s.conversationStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Conversation{}, model.ErrConversationNotFound
	}
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to get conversation: %w", err)
	}

	if conv.OwnerID != userID {
		s.logger.Info("Conversation service: access denied",
			"user_id", userID,
			"history_id", id)
		return model.Conversation{}, model.ErrForbidden
	}

	return conv, nil
}

type transcript struct {
	HistoryID int64             `json:"history_id"`
	OwnerID   uuid.UUID         `json:"owner_id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Turns     []transcriptEntry `json:"turns"`
}

type transcriptEntry struct {
	Position  int       `json:"position"`
	User      string    `json:"user"`
	AI        string    `json:"ai"`
	CreatedAt time.Time `json:"created_at"`
}

func transcriptKey(conv model.Conversation) string {
	return fmt.Sprintf("archive/%s/%d.json", conv.OwnerID, conv.ID)
}

func (s *Conversation) archive(ctx context.Context, conv model.Conversation) error {
	if s.storage == nil {
		return nil
	}

	t := transcript{
		HistoryID: conv.ID,
		OwnerID:   conv.OwnerID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		Turns:     make([]transcriptEntry, 0, len(conv.Turns)),
	}
	for _, turn := range conv.Turns {
		t.Turns = append(t.Turns, transcriptEntry{
			Position:  turn.Position,
			User:      turn.Message,
			AI:        turn.Reply,
			CreatedAt: turn.CreatedAt,
		})
	}

	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	return s.storage.Upload(ctx, transcriptKey(conv), bytes.NewReader(body), int64(len(body)))
}

// deriveTitle builds a list label from the first message: whitespace is
// collapsed and long messages are cut at a word boundary.
func deriveTitle(message string) string {
	title := strings.Join(strings.Fields(message), " ")
	if title == "" {
		return defaultTitle
	}
	if utf8.RuneCountInString(title) <= titleMaxRunes {
		return title
	}

	runes := []rune(title)
	cut := string(runes[:titleMaxRunes])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}

	return strings.TrimSpace(cut) + titleEllipsis
}
