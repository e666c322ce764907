package domain

type ConversationState string

const (
	StateIdle     ConversationState = "idle"
	StateThinking ConversationState = "thinking"
	StateError    ConversationState = "error"
)

// ConversationStatus is the single turn-taking status of the engine. Err carries the
// human-readable cause while State is StateError, and is empty otherwise.
type ConversationStatus struct {
	State ConversationState `json:"state"`
	Err   string            `json:"error,omitempty"`
}

// TurnEvent is published after every submit attempt reaches a terminal status, so the
// sequencer can re-evaluate its advancement rule.
type TurnEvent struct {
	Status ConversationStatus
}

// AutoQueueState is a snapshot of the batch conversation queue.
type AutoQueueState struct {
	Pending []string `json:"pending"`
	Active  bool     `json:"active"`
}
