package handler

import (
	"context"
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
)

type PromptRemover interface {
	Remove(ctx context.Context, id string) error
}

type deletePrompt struct {
	prompts PromptRemover
	writer  response.JSONResponseWriter
}

func NewDeletePrompt(prompts PromptRemover) *deletePrompt {
	return &deletePrompt{prompts: prompts}
}

func (h *deletePrompt) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "prompt id is required")
		return
	}

	if err := h.prompts.Remove(r.Context(), id); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writer.WriteNoContentResponse(w)
}
