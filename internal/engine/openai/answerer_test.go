package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/convo-server/internal/config"
	"github.com/dtroode/convo-server/internal/model"
)

func newTestAnswerer(t *testing.T, handler http.HandlerFunc) *Answerer {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewAnswerer(config.Engine{
		BaseURL:      srv.URL + "/v1/",
		APIKey:       "test-key",
		Model:        "test-model",
		SystemPrompt: "be brief",
		MaxTokens:    64,
	})
}

func completion(content string) goopenai.ChatCompletionResponse {
	return goopenai.ChatCompletionResponse{
		ID:     "cmpl-1",
		Object: "chat.completion",
		Model:  "test-model",
		Choices: []goopenai.ChatCompletionChoice{{
			Index:        0,
			Message:      goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: content},
			FinishReason: goopenai.FinishReasonStop,
		}},
	}
}

func TestAnswerer_Answer(t *testing.T) {
	var got goopenai.ChatCompletionRequest
	a := newTestAnswerer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("  hi there \n"))
	})

	reply, err := a.Answer(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 64, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, goopenai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "be brief", got.Messages[0].Content)
	assert.Equal(t, goopenai.ChatMessageRoleUser, got.Messages[1].Role)
	assert.Equal(t, "hello", got.Messages[1].Content)
}

func TestAnswerer_Answer_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "upstream error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{ID: "cmpl-2"})
			},
		},
		{
			name: "blank content",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(completion("   "))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnswerer(t, tt.handler)

			reply, err := a.Answer(context.Background(), "hello")
			require.ErrorIs(t, err, model.ErrEngineUnavailable)
			assert.Empty(t, reply)
		})
	}
}

func TestAnswerer_Answer_ContextDeadline(t *testing.T) {
	a := newTestAnswerer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := a.Answer(ctx, "hello")
	require.ErrorIs(t, err, model.ErrEngineUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAnswerer_NoSystemPrompt(t *testing.T) {
	var got goopenai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("ok"))
	}))
	t.Cleanup(srv.Close)

	a := NewAnswerer(config.Engine{BaseURL: srv.URL, Model: "m"})
	_, err := a.Answer(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, goopenai.ChatMessageRoleUser, got.Messages[0].Role)
}
