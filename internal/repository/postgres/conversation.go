package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/convo-server/internal/model"
)

var _ model.ConversationStore = (*ConversationRepository)(nil)

type ConversationRepository struct {
	db *Connection
}

func NewConversationRepository(db *Connection) *ConversationRepository {
	return &ConversationRepository{
		db: db,
	}
}

// Create inserts a conversation together with its first turn and returns the new id.
func (r *ConversationRepository) Create(ctx context.Context, ownerID uuid.UUID, title string, turn model.Turn) (int64, error) {
	var id int64
	err := r.db.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO conversations (owner_id, title) VALUES ($1, $2) RETURNING id`,
			ownerID, title,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert conversation: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO turns (conversation_id, position, message, reply) VALUES ($1, 1, $2, $3)`,
			id, turn.Message, turn.Reply,
		)
		if err != nil {
			return fmt.Errorf("failed to insert first turn: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// Update appends a turn to the conversation owned by ownerID. The conversation
// row stays locked until commit, so concurrent appends to one id serialize.
// It reports false when no such conversation exists for that owner.
func (r *ConversationRepository) Update(ctx context.Context, id int64, ownerID uuid.UUID, turn model.Turn) (bool, error) {
	found := false
	err := r.db.withTx(ctx, func(tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM conversations WHERE id = $1 AND owner_id = $2 FOR UPDATE`,
			id, ownerID,
		).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to lock conversation: %w", err)
		}

		var next int
		err = tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(position), 0) + 1 FROM turns WHERE conversation_id = $1`,
			id,
		).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to compute next position: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO turns (conversation_id, position, message, reply) VALUES ($1, $2, $3, $4)`,
			id, next, turn.Message, turn.Reply,
		)
		if err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}

		_, err = tx.Exec(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to touch conversation: %w", err)
		}

		found = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return found, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (model.Conversation, error) {
	var conv model.Conversation
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, title, created_at, updated_at FROM conversations WHERE id = $1`,
		id,
	).Scan(&conv.ID, &conv.OwnerID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Conversation{}, model.ErrNotFound
		}
		return model.Conversation{}, fmt.Errorf("failed to get conversation: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT position, message, reply, created_at FROM turns WHERE conversation_id = $1 ORDER BY position`,
		id,
	)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to get turns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Turn
		if err := rows.Scan(&t.Position, &t.Message, &t.Reply, &t.CreatedAt); err != nil {
			return model.Conversation{}, fmt.Errorf("failed to scan turn: %w", err)
		}
		conv.Turns = append(conv.Turns, t)
	}
	if err := rows.Err(); err != nil {
		return model.Conversation{}, fmt.Errorf("failed to iterate turns: %w", err)
	}

	return conv, nil
}

func (r *ConversationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.ConversationSummary, error) {
	query := `
		SELECT c.id, c.title, COUNT(t.position), COALESCE(f.message, ''), COALESCE(f.reply, ''),
		       c.created_at, c.updated_at
		FROM conversations c
		LEFT JOIN turns t ON t.conversation_id = c.id
		LEFT JOIN turns f ON f.conversation_id = c.id AND f.position = 1
		WHERE c.owner_id = $1
		GROUP BY c.id, f.message, f.reply
		ORDER BY c.updated_at DESC, c.id DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	summaries := make([]model.ConversationSummary, 0)
	for rows.Next() {
		var s model.ConversationSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.TurnCount, &s.Opening.Message, &s.Opening.Reply, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}

	return summaries, nil
}

func (r *ConversationRepository) ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM conversations WHERE owner_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan conversation id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation ids: %w", err)
	}

	return ids, nil
}

// Delete removes the conversation and its turns. Deleting a missing id reports false.
func (r *ConversationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
