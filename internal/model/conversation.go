package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ConversationStore defines persistence operations for conversations and their turns.
type ConversationStore interface {
	Create(ctx context.Context, ownerID uuid.UUID, title string, turn Turn) (int64, error)
	Update(ctx context.Context, id int64, ownerID uuid.UUID, turn Turn) (bool, error)
	GetByID(ctx context.Context, id int64) (Conversation, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ConversationSummary, error)
	ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Conversation is a chat owned by exactly one user.
type Conversation struct {
	ID        int64
	OwnerID   uuid.UUID
	Title     string
	Turns     []Turn
	CreatedAt time.Time
	UpdatedAt time.Time

	// OwnerUsername is resolved for display and never stored with the conversation.
	OwnerUsername string
}

// Turn is a single message/reply exchange. Positions start at 1.
type Turn struct {
	Position  int
	Message   string
	Reply     string
	CreatedAt time.Time
}

// ConversationSummary is the list projection of a conversation. Opening is
// the first turn, kept so clients can label the entry.
type ConversationSummary struct {
	ID        int64
	Title     string
	TurnCount int
	Opening   Turn
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reply is the outcome of a single Respond call.
type Reply struct {
	Response  string
	HistoryID int64
}

// Answerer turns a user message into a reply. Implementations must honor ctx.
type Answerer interface {
	Answer(ctx context.Context, message string) (string, error)
}
