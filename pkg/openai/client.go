package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/dskvich/chatwriting/pkg/domain"
)

// client is the gateway to the text-generation backend. It is stateless: every request
// carries its own provider, credential and endpoint, so the underlying API client is
// rebuilt per call from the current model config.
type client struct{}

func NewClient() *client {
	return &client{}
}

func (c *client) CreateCompletion(ctx context.Context, req domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("at least one message is required")
	}

	messages := lo.Map(req.Messages, func(m domain.CompletionMessage, _ int) go_openai.ChatCompletionMessage {
		return go_openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	})

	resp, err := c.newAPIClient(req).CreateChatCompletion(ctx, go_openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Messages:    messages,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}
	choice := resp.Choices[0]

	out := &domain.CompletionResponse{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Model:        resp.Model,
	}
	if resp.Usage.TotalTokens > 0 || resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		out.Usage = &domain.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return out, nil
}

func (c *client) newAPIClient(req domain.CompletionRequest) *go_openai.Client {
	baseURL := strings.TrimRight(strings.TrimSpace(req.BaseURL), "/")

	switch req.Provider {
	case domain.ProviderAzure:
		return go_openai.NewClientWithConfig(go_openai.DefaultAzureConfig(req.APIKey, baseURL))
	default:
		config := go_openai.DefaultConfig(req.APIKey)
		if baseURL != "" {
			config.BaseURL = baseURL
		}
		return go_openai.NewClientWithConfig(config)
	}
}
