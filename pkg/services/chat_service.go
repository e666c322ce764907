package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/dskvich/chatwriting/pkg/domain"
	"github.com/dskvich/chatwriting/pkg/logger"
)

type MessagesRepository interface {
	Append(message domain.ChatMessage)
	UpdateByID(id string, patch domain.MessagePatch)
	Reset()
	All() []domain.ChatMessage
	LastMessage() (domain.ChatMessage, bool)
}

type PromptsRepository interface {
	Selected() (domain.PromptTemplate, bool)
}

type SettingsRepository interface {
	Get() domain.ModelConfig
}

type InferenceGateway interface {
	CreateCompletion(ctx context.Context, req domain.CompletionRequest) (*domain.CompletionResponse, error)
}

// chatService orchestrates one conversation turn: it owns the turn-taking status,
// appends to the timeline and calls the inference gateway. At most one call may be
// outstanding; the begin transition is the guard that enforces it.
type chatService struct {
	messages MessagesRepository
	prompts  PromptsRepository
	settings SettingsRepository
	gateway  InferenceGateway

	mu     sync.Mutex
	status domain.ConversationStatus

	turnCh chan domain.TurnEvent
}

func NewChatService(
	messages MessagesRepository,
	prompts PromptsRepository,
	settings SettingsRepository,
	gateway InferenceGateway,
) *chatService {
	return &chatService{
		messages: messages,
		prompts:  prompts,
		settings: settings,
		gateway:  gateway,
		status:   domain.ConversationStatus{State: domain.StateIdle},
		turnCh:   make(chan domain.TurnEvent, 8),
	}
}

// TurnEvents is the stream of turn-completed notifications consumed by the sequencer.
func (c *chatService) TurnEvents() <-chan domain.TurnEvent {
	return c.turnCh
}

// Submit runs one full conversation turn: append the user message, call the gateway,
// append the assistant reply. Empty content is rejected before any state changes, and
// a submit while a reply is outstanding is rejected with ErrConversationBusy.
func (c *chatService) Submit(ctx context.Context, content string) (domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ChatMessage{}, domain.ErrEmptyMessage
	}

	if err := c.begin(); err != nil {
		return domain.ChatMessage{}, err
	}

	config := c.settings.Get()
	request := domain.CompletionRequest{
		Provider:    config.Provider,
		APIKey:      config.APIKey,
		BaseURL:     config.BaseURL,
		Model:       config.Model,
		Temperature: config.Temperature,
		MaxTokens:   config.MaxTokens,
		Messages:    c.buildMessages(content),
	}

	userMessage := domain.NewChatMessage(domain.RoleUser, content)
	c.messages.Append(userMessage)

	ctx = logger.ContextWithTurnID(ctx, userMessage.ID)
	slog.InfoContext(ctx, "Submitting turn",
		"provider", config.Provider,
		"model", config.Model,
		"requestMessages", len(request.Messages),
	)

	response, err := c.gateway.CreateCompletion(ctx, request)
	if err != nil {
		// The user turn stays in the timeline even though it never got a reply.
		c.fail(err.Error())
		c.publishTurn()
		return domain.ChatMessage{}, fmt.Errorf("generating reply: %w", err)
	}

	assistantMessage := domain.NewChatMessage(domain.RoleAssistant, response.Content)
	c.messages.Append(assistantMessage)
	if response.Usage != nil {
		c.messages.UpdateByID(assistantMessage.ID, domain.MessagePatch{Usage: response.Usage})
		assistantMessage.Usage = response.Usage
	}
	c.succeed()
	c.publishTurn()

	slog.InfoContext(ctx, "Turn completed",
		"finishReason", response.FinishReason,
		"totalTokens", lo.TernaryF(response.Usage != nil,
			func() int { return response.Usage.TotalTokens },
			func() int { return 0 }),
	)
	return assistantMessage, nil
}

// Reset clears the timeline and returns the status to idle. It does not wait for an
// outstanding reply: a turn already in flight completes normally and appends its result
// to the cleared timeline.
func (c *chatService) Reset() {
	c.messages.Reset()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = domain.ConversationStatus{State: domain.StateIdle}
}

func (c *chatService) Status() domain.ConversationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

func (c *chatService) Messages() []domain.ChatMessage {
	return c.messages.All()
}

func (c *chatService) LastMessage() (domain.ChatMessage, bool) {
	return c.messages.LastMessage()
}

// buildMessages assembles the gateway request: the selected system prompt (when its id
// still resolves), the existing timeline stripped to role/content, then the new user
// turn.
func (c *chatService) buildMessages(content string) []domain.CompletionMessage {
	var out []domain.CompletionMessage

	if systemPrompt, ok := c.prompts.Selected(); ok {
		out = append(out, domain.CompletionMessage{Role: domain.RoleSystem, Content: systemPrompt.Content})
	}

	out = append(out, lo.Map(c.messages.All(), func(m domain.ChatMessage, _ int) domain.CompletionMessage {
		return domain.CompletionMessage{Role: m.Role, Content: m.Content}
	})...)

	return append(out, domain.CompletionMessage{Role: domain.RoleUser, Content: content})
}

// begin is the idle/error -> thinking transition. A fresh submit is always allowed
// from the error state; a second one while thinking is not.
func (c *chatService) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.State == domain.StateThinking {
		return domain.ErrConversationBusy
	}
	c.status = domain.ConversationStatus{State: domain.StateThinking}
	return nil
}

func (c *chatService) succeed() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = domain.ConversationStatus{State: domain.StateIdle}
}

func (c *chatService) fail(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = domain.ConversationStatus{State: domain.StateError, Err: message}
}

func (c *chatService) publishTurn() {
	select {
	case c.turnCh <- domain.TurnEvent{Status: c.Status()}:
	default:
		// The buffer holding older unconsumed events is already enough to wake the
		// sequencer; dropping this one loses nothing.
	}
}
