package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/chatwriting/pkg/domain"
)

func TestClient_MissingAPIKeyFailsBeforeNetwork(t *testing.T) {
	c := NewClient()

	_, err := c.CreateCompletion(context.Background(), domain.CompletionRequest{
		APIKey:   "   ",
		Messages: []domain.CompletionMessage{{Role: domain.RoleUser, Content: "hi"}},
	})
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestClient_EmptyMessagesRejected(t *testing.T) {
	c := NewClient()

	_, err := c.CreateCompletion(context.Background(), domain.CompletionRequest{APIKey: "sk-test"})
	assert.Error(t, err)
}

func TestClient_CustomProviderUsesConfiguredBaseURL(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "local-model",
			"choices": [{"message": {"role": "assistant", "content": "hello back"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 2, "completion_tokens": 3, "total_tokens": 5}
		}`))
	}))
	defer server.Close()

	c := NewClient()
	resp, err := c.CreateCompletion(context.Background(), domain.CompletionRequest{
		Provider:    domain.ProviderCustom,
		APIKey:      "sk-local",
		BaseURL:     server.URL + "/v1/", // trailing slash is tolerated
		Model:       "local-model",
		Temperature: 0.5,
		MaxTokens:   64,
		Messages: []domain.CompletionMessage{
			{Role: domain.RoleSystem, Content: "be brief"},
			{Role: domain.RoleUser, Content: "hello"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-local", gotAuth)
	assert.Equal(t, "local-model", gotBody["model"])
	assert.Len(t, gotBody["messages"], 2)

	assert.Equal(t, "hello back", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, "local-model", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 5, resp.Usage.TotalTokens)
}

func TestClient_NoChoicesIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model": "m", "choices": []}`))
	}))
	defer server.Close()

	c := NewClient()
	_, err := c.CreateCompletion(context.Background(), domain.CompletionRequest{
		Provider: domain.ProviderCustom,
		APIKey:   "sk-local",
		BaseURL:  server.URL,
		Model:    "m",
		Messages: []domain.CompletionMessage{{Role: domain.RoleUser, Content: "hi"}},
	})
	assert.ErrorContains(t, err, "no choices")
}
