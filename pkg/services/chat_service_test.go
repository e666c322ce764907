package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/chatwriting/pkg/domain"
	"github.com/dskvich/chatwriting/pkg/repository"
)

type fakePrompts struct {
	selected domain.PromptTemplate
	ok       bool
	byID     map[string]domain.PromptTemplate
}

func (f *fakePrompts) Selected() (domain.PromptTemplate, bool) {
	return f.selected, f.ok
}

func (f *fakePrompts) GetByID(id string) (domain.PromptTemplate, bool) {
	p, ok := f.byID[id]
	return p, ok
}

type fakeSettings struct {
	config domain.ModelConfig
}

func (f *fakeSettings) Get() domain.ModelConfig { return f.config }

type fakeGateway struct {
	requests []domain.CompletionRequest
	respond  func(req domain.CompletionRequest) (*domain.CompletionResponse, error)
}

func (f *fakeGateway) CreateCompletion(_ context.Context, req domain.CompletionRequest) (*domain.CompletionResponse, error) {
	f.requests = append(f.requests, req)
	return f.respond(req)
}

func newTestChatService(gateway *fakeGateway, prompts *fakePrompts) *chatService {
	config := domain.DefaultModelConfig()
	config.APIKey = "sk-test"
	return NewChatService(
		repository.NewMessagesRepository(),
		prompts,
		&fakeSettings{config: config},
		gateway,
	)
}

func TestChatService_SubmitAppendsUserAndAssistant(t *testing.T) {
	gateway := &fakeGateway{
		respond: func(domain.CompletionRequest) (*domain.CompletionResponse, error) {
			return &domain.CompletionResponse{
				Content:      "reply",
				FinishReason: "stop",
				Usage:        &domain.Usage{PromptTokens: 3, CompletionTokens: 5, TotalTokens: 8},
			}, nil
		},
	}
	svc := newTestChatService(gateway, &fakePrompts{})

	reply, err := svc.Submit(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, reply.Role)
	assert.Equal(t, "reply", reply.Content)
	require.NotNil(t, reply.Usage)
	assert.Equal(t, 8, reply.Usage.TotalTokens)

	timeline := svc.Messages()
	require.Len(t, timeline, 2)
	assert.Equal(t, domain.RoleUser, timeline[0].Role)
	assert.Equal(t, "hello", timeline[0].Content)
	assert.Equal(t, reply.ID, timeline[1].ID)
	// Usage lands on the stored timeline entry, not just the returned copy.
	require.NotNil(t, timeline[1].Usage)
	assert.Equal(t, 8, timeline[1].Usage.TotalTokens)

	assert.Equal(t, domain.StateIdle, svc.Status().State)
}

func TestChatService_SubmitRejectsBlankContent(t *testing.T) {
	gateway := &fakeGateway{
		respond: func(domain.CompletionRequest) (*domain.CompletionResponse, error) {
			t.Fatal("gateway must not be called")
			return nil, nil
		},
	}
	svc := newTestChatService(gateway, &fakePrompts{})

	_, err := svc.Submit(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	assert.Empty(t, svc.Messages())
	assert.Equal(t, domain.StateIdle, svc.Status().State)
}

func TestChatService_SubmitPrependsSelectedSystemPrompt(t *testing.T) {
	gateway := &fakeGateway{
		respond: func(domain.CompletionRequest) (*domain.CompletionResponse, error) {
			return &domain.CompletionResponse{Content: "ok"}, nil
		},
	}
	prompts := &fakePrompts{
		selected: domain.NewPromptTemplate("Coach", "", "be rigorous"),
		ok:       true,
	}
	svc := newTestChatService(gateway, prompts)

	_, err := svc.Submit(context.Background(), "first")
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), "second")
	require.NoError(t, err)

	require.Len(t, gateway.requests, 2)

	first := gateway.requests[0].Messages
	require.Len(t, first, 2)
	assert.Equal(t, domain.RoleSystem, first[0].Role)
	assert.Equal(t, "be rigorous", first[0].Content)
	assert.Equal(t, domain.RoleUser, first[1].Role)

	// The second request carries the full prior timeline after the system prompt.
	second := gateway.requests[1].Messages
	require.Len(t, second, 4)
	assert.Equal(t, domain.RoleSystem, second[0].Role)
	assert.Equal(t, "first", second[1].Content)
	assert.Equal(t, domain.RoleAssistant, second[2].Role)
	assert.Equal(t, "second", second[3].Content)
}

func TestChatService_SubmitFailureKeepsUserTurn(t *testing.T) {
	gateway := &fakeGateway{
		respond: func(domain.CompletionRequest) (*domain.CompletionResponse, error) {
			return nil, errors.New("backend down")
		},
	}
	svc := newTestChatService(gateway, &fakePrompts{})

	_, err := svc.Submit(context.Background(), "hello")
	require.Error(t, err)

	timeline := svc.Messages()
	require.Len(t, timeline, 1)
	assert.Equal(t, domain.RoleUser, timeline[0].Role)

	status := svc.Status()
	assert.Equal(t, domain.StateError, status.State)
	assert.Contains(t, status.Err, "backend down")
}

func TestChatService_SubmitAllowedFromErrorState(t *testing.T) {
	failing := true
	gateway := &fakeGateway{
		respond: func(domain.CompletionRequest) (*domain.CompletionResponse, error) {
			if failing {
				return nil, errors.New("backend down")
			}
			return &domain.CompletionResponse{Content: "recovered"}, nil
		},
	}
	svc := newTestChatService(gateway, &fakePrompts{})

	_, err := svc.Submit(context.Background(), "hello")
	require.Error(t, err)
	require.Equal(t, domain.StateError, svc.Status().State)

	failing = false
	reply, err := svc.Submit(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, "recovered", reply.Content)
	assert.Equal(t, domain.StateIdle, svc.Status().State)
}

func TestChatService_SubmitRejectedWhileThinking(t *testing.T) {
	release := make(chan struct{})
	gateway := &fakeGateway{
		respond: func(domain.CompletionRequest) (*domain.CompletionResponse, error) {
			<-release
			return &domain.CompletionResponse{Content: "done"}, nil
		},
	}
	svc := newTestChatService(gateway, &fakePrompts{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), "slow")
		firstDone <- err
	}()

	// Wait until the first submit is inside the gateway call.
	require.Eventually(t, func() bool {
		return svc.Status().State == domain.StateThinking
	}, time.Second, time.Millisecond)

	_, err := svc.Submit(context.Background(), "too eager")
	assert.ErrorIs(t, err, domain.ErrConversationBusy)

	close(release)
	require.NoError(t, <-firstDone)
	assert.Len(t, svc.Messages(), 2)
}

func TestChatService_ResetWhileThinking(t *testing.T) {
	release := make(chan struct{})
	gateway := &fakeGateway{
		respond: func(domain.CompletionRequest) (*domain.CompletionResponse, error) {
			<-release
			return &domain.CompletionResponse{Content: "late reply"}, nil
		},
	}
	svc := newTestChatService(gateway, &fakePrompts{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), "slow")
		done <- err
	}()
	require.Eventually(t, func() bool {
		return svc.Status().State == domain.StateThinking
	}, time.Second, time.Millisecond)

	svc.Reset()
	assert.Empty(t, svc.Messages())
	assert.Equal(t, domain.StateIdle, svc.Status().State)

	// The in-flight turn still completes and lands on the cleared timeline.
	close(release)
	require.NoError(t, <-done)

	timeline := svc.Messages()
	require.Len(t, timeline, 1)
	assert.Equal(t, domain.RoleAssistant, timeline[0].Role)
	assert.Equal(t, "late reply", timeline[0].Content)
}

func TestChatService_ResetClearsTimelineAndError(t *testing.T) {
	gateway := &fakeGateway{
		respond: func(domain.CompletionRequest) (*domain.CompletionResponse, error) {
			return nil, errors.New("backend down")
		},
	}
	svc := newTestChatService(gateway, &fakePrompts{})

	_, err := svc.Submit(context.Background(), "hello")
	require.Error(t, err)

	svc.Reset()

	assert.Empty(t, svc.Messages())
	assert.Equal(t, domain.ConversationStatus{State: domain.StateIdle}, svc.Status())
}

func TestChatService_PublishesTurnEvents(t *testing.T) {
	gateway := &fakeGateway{
		respond: func(domain.CompletionRequest) (*domain.CompletionResponse, error) {
			return &domain.CompletionResponse{Content: "reply"}, nil
		},
	}
	svc := newTestChatService(gateway, &fakePrompts{})

	_, err := svc.Submit(context.Background(), "hello")
	require.NoError(t, err)

	select {
	case event := <-svc.TurnEvents():
		assert.Equal(t, domain.StateIdle, event.Status.State)
	default:
		t.Fatal("expected a turn event")
	}
}
