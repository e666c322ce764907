package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/dskvich/chatwriting/pkg/domain"
	"github.com/dskvich/chatwriting/pkg/logger"
)

type TurnSubmitter interface {
	Submit(ctx context.Context, content string) (domain.ChatMessage, error)
	Reset()
	Status() domain.ConversationStatus
	LastMessage() (domain.ChatMessage, bool)
	TurnEvents() <-chan domain.TurnEvent
}

type PromptResolver interface {
	GetByID(id string) (domain.PromptTemplate, bool)
}

// sequencerService walks an ordered queue of prompt ids as a scripted multi-turn
// conversation. It runs as a worker: an event loop that re-evaluates the advancement
// rule whenever a turn completes. Prompt ids are weak references, resolved against the
// live library right before submission; ids whose template has been deleted in the
// meantime are skipped silently.
type sequencerService struct {
	chat    TurnSubmitter
	prompts PromptResolver

	mu      sync.Mutex
	pending []string
	active  bool

	wakeCh chan struct{}
}

func NewSequencerService(chat TurnSubmitter, prompts PromptResolver) *sequencerService {
	return &sequencerService{
		chat:    chat,
		prompts: prompts,
		wakeCh:  make(chan struct{}, 1),
	}
}

func (s *sequencerService) Name() string { return "auto_sequencer" }

// Start is the sequencer's event loop. It is the only goroutine that drives
// advancement, so the rule is evaluated serially no matter which trigger fired.
func (s *sequencerService) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", s.Name())
	defer slog.Info("Worker stopped", "name", s.Name())

	events := s.chat.TurnEvents()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.wakeCh:
			s.advance(ctx)
		case <-events:
			s.advance(ctx)
		}
	}
}

// StartBatch resets the conversation and installs the queue. The batch starts from a
// clean timeline; it is rejected while another batch is active or a reply is
// outstanding.
func (s *sequencerService) StartBatch(ctx context.Context, promptIDs []string) error {
	if len(promptIDs) == 0 {
		return domain.ErrEmptyBatch
	}
	if s.chat.Status().State == domain.StateThinking {
		return domain.ErrConversationBusy
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return domain.ErrBatchActive
	}
	s.pending = slices.Clone(promptIDs)
	s.active = true
	s.mu.Unlock()

	s.chat.Reset()
	slog.InfoContext(ctx, "Starting batch conversation", "queued", len(promptIDs))
	s.wake()
	return nil
}

// StopBatch deactivates the batch and clears the queue immediately. An outstanding
// inference call still completes and appends its reply, but triggers no further
// advancement.
func (s *sequencerService) StopBatch() {
	s.mu.Lock()
	wasActive := s.active
	s.active = false
	s.pending = nil
	s.mu.Unlock()

	if wasActive {
		slog.Info("Batch conversation stopped")
	}
}

func (s *sequencerService) QueueState() domain.AutoQueueState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.AutoQueueState{
		Pending: slices.Clone(s.pending),
		Active:  s.active,
	}
}

func (s *sequencerService) wake() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

// advance pops and submits queued prompts for as long as the advancement rule holds:
// the batch is active, the conversation is idle, and the timeline is empty or ends
// with an assistant reply. A failed turn leaves the status in error, which stalls the
// queue until a manual resubmission brings it back to idle.
func (s *sequencerService) advance(ctx context.Context) {
	for {
		s.mu.Lock()
		if !s.active {
			s.mu.Unlock()
			return
		}
		if len(s.pending) == 0 {
			// The queue was observed empty, so the batch is over.
			s.active = false
			s.mu.Unlock()
			return
		}
		if status := s.chat.Status(); status.State != domain.StateIdle {
			s.mu.Unlock()
			return
		}
		if last, ok := s.chat.LastMessage(); ok && last.Role != domain.RoleAssistant {
			s.mu.Unlock()
			return
		}
		id := s.pending[0]
		s.pending = s.pending[1:]
		drained := len(s.pending) == 0
		s.mu.Unlock()

		prompt, ok := s.prompts.GetByID(id)
		if !ok {
			slog.InfoContext(ctx, "Skipping prompt deleted from library", "promptId", id)
			if drained {
				s.deactivate()
				return
			}
			continue
		}

		if _, err := s.chat.Submit(ctx, prompt.Content); err != nil {
			if errors.Is(err, domain.ErrConversationBusy) {
				// Lost the race to a manual submit. Requeue the prompt and wait for
				// that turn's event.
				s.mu.Lock()
				if s.active {
					s.pending = append([]string{id}, s.pending...)
				}
				s.mu.Unlock()
				return
			}
			slog.WarnContext(ctx, "Batch turn failed", "promptId", id, logger.Err(err))
			if drained {
				s.deactivate()
			}
			return
		}

		if drained {
			s.deactivate()
			slog.InfoContext(ctx, "Batch conversation finished")
			return
		}
	}
}

// deactivate ends the batch after the advancement attempt that drained the queue. A
// queue refilled by a newer batch in the meantime is left alone.
func (s *sequencerService) deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		s.active = false
	}
}
