package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/convo-server/internal/model"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type loginResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type respondRequest struct {
	Message   string `json:"message"`
	HistoryID *int64 `json:"history_id"`
}

type respondResponse struct {
	Response  string `json:"response"`
	HistoryID int64  `json:"history_id"`
}

type historySummary struct {
	HistoryID int64          `json:"history_id"`
	Title     string         `json:"title"`
	TurnCount int            `json:"turn_count"`
	Chat      []turnResponse `json:"chat"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type historyListResponse struct {
	ChatHistory []historySummary `json:"chat_history"`
}

type turnResponse struct {
	User string `json:"user"`
	AI   string `json:"ai"`
}

// chatResponse carries the turns under "chat" as an ordered array, with the
// conversation metadata as sibling keys.
type chatResponse struct {
	HistoryID int64          `json:"history_id"`
	Title     string         `json:"title"`
	Username  string         `json:"username"`
	Chat      []turnResponse `json:"chat"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type deleteChatResponse struct {
	Success bool `json:"success"`
}

func newHistoryList(summaries []model.ConversationSummary) historyListResponse {
	out := make([]historySummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, historySummary{
			HistoryID: s.ID,
			Title:     s.Title,
			TurnCount: s.TurnCount,
			Chat:      []turnResponse{{User: s.Opening.Message, AI: s.Opening.Reply}},
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return historyListResponse{ChatHistory: out}
}

func newChatResponse(conv model.Conversation) chatResponse {
	turns := make([]turnResponse, 0, len(conv.Turns))
	for _, t := range conv.Turns {
		turns = append(turns, turnResponse{User: t.Message, AI: t.Reply})
	}
	return chatResponse{
		HistoryID: conv.ID,
		Title:     conv.Title,
		Username:  conv.OwnerUsername,
		Chat:      turns,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}
