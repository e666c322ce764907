package repository

import (
	"sync"

	"github.com/dskvich/chatwriting/pkg/domain"
)

// messagesRepository is the append-only timeline of the current conversation. It lives
// in memory only: the timeline is deliberately not persisted across restarts.
type messagesRepository struct {
	mu       sync.RWMutex
	messages []domain.ChatMessage
}

func NewMessagesRepository() *messagesRepository {
	return &messagesRepository{}
}

func (m *messagesRepository) Append(message domain.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, message)
}

// UpdateByID merges patch into the entry with the given id, keeping its position.
// Unknown ids are a no-op.
func (m *messagesRepository) UpdateByID(id string, patch domain.MessagePatch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.messages {
		if m.messages[i].ID != id {
			continue
		}
		if patch.Content != nil {
			m.messages[i].Content = *patch.Content
		}
		if patch.Usage != nil {
			m.messages[i].Usage = patch.Usage
		}
		return
	}
}

// Reset clears the timeline. It is the only bulk removal operation.
func (m *messagesRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = nil
}

func (m *messagesRepository) All() []domain.ChatMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ChatMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

func (m *messagesRepository) LastMessage() (domain.ChatMessage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.messages) == 0 {
		return domain.ChatMessage{}, false
	}
	return m.messages[len(m.messages)-1], true
}
