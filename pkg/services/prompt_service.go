package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/dskvich/chatwriting/pkg/domain"
)

type TimelineReader interface {
	All() []domain.ChatMessage
}

type PromptUpserter interface {
	Upsert(ctx context.Context, prompt domain.PromptTemplate) error
}

const promptNameLimit = 24

// promptService synthesizes reusable prompt templates out of timeline entries.
type promptService struct {
	messages TimelineReader
	prompts  PromptUpserter
}

func NewPromptService(messages TimelineReader, prompts PromptUpserter) *promptService {
	return &promptService{
		messages: messages,
		prompts:  prompts,
	}
}

// CreateFromMessages turns the referenced user-authored timeline entries into prompt
// templates, one per message, named by the truncated content. Unknown ids and
// non-user entries are ignored.
func (p *promptService) CreateFromMessages(ctx context.Context, messageIDs []string) ([]domain.PromptTemplate, error) {
	byID := lo.KeyBy(p.messages.All(), func(m domain.ChatMessage) string {
		return m.ID
	})

	var created []domain.PromptTemplate
	for _, id := range lo.Uniq(messageIDs) {
		message, ok := byID[id]
		if !ok || message.Role != domain.RoleUser {
			continue
		}

		prompt := domain.NewPromptTemplate(truncateName(message.Content), "", message.Content)
		if err := p.prompts.Upsert(ctx, prompt); err != nil {
			return nil, fmt.Errorf("saving prompt from message %s: %w", id, err)
		}
		created = append(created, prompt)
	}

	return created, nil
}

func truncateName(content string) string {
	if utf8.RuneCountInString(content) <= promptNameLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:promptNameLimit]) + "…"
}
