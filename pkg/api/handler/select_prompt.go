package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
)

type PromptSelector interface {
	Select(id string)
}

type selectPrompt struct {
	prompts PromptSelector
	writer  response.JSONResponseWriter
}

func NewSelectPrompt(prompts PromptSelector) *selectPrompt {
	return &selectPrompt{prompts: prompts}
}

// ServeHTTP sets the active system prompt. An empty id clears the selection. The id is
// deliberately not validated against the library; resolution is lazy.
func (h *selectPrompt) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	h.prompts.Select(req.ID)
	h.writer.WriteNoContentResponse(w)
}
