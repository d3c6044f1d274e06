package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/dtroode/convo-server/internal/config"
	"github.com/dtroode/convo-server/internal/model"
)

var _ model.Answerer = (*Answerer)(nil)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Answerer asks an OpenAI-compatible chat completion endpoint for a reply.
// Every call is stateless: only the system prompt and the current message are sent.
type Answerer struct {
	client       chatClient
	model        string
	systemPrompt string
	maxTokens    int
}

func NewAnswerer(cfg config.Engine) *Answerer {
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &Answerer{
		client:       goopenai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		maxTokens:    cfg.MaxTokens,
	}
}

func (a *Answerer) Answer(ctx context.Context, message string) (string, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if a.systemPrompt != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: a.systemPrompt,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := a.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     a.model,
		Messages:  messages,
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %w", model.ErrEngineUnavailable, ctxErr)
		}
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: status %d: %s", model.ErrEngineUnavailable, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%w: %w", model.ErrEngineUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", model.ErrEngineUnavailable)
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("%w: blank completion", model.ErrEngineUnavailable)
	}

	return reply, nil
}
