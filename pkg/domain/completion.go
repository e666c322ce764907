package domain

// CompletionMessage is the role/content pair sent over the gateway boundary. Timeline
// metadata such as ids and usage is stripped before a request is built.
type CompletionMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	Provider    Provider
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Messages    []CompletionMessage
}

type CompletionResponse struct {
	Content      string `json:"content"`
	FinishReason string `json:"finishReason,omitempty"`
	Model        string `json:"model,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
}
