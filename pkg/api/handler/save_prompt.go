package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dskvich/chatwriting/pkg/api/response"
	"github.com/dskvich/chatwriting/pkg/domain"
)

type PromptUpserter interface {
	Upsert(ctx context.Context, prompt domain.PromptTemplate) error
}

type savePrompt struct {
	prompts PromptUpserter
	writer  response.JSONResponseWriter
}

func NewSavePrompt(prompts PromptUpserter) *savePrompt {
	return &savePrompt{prompts: prompts}
}

func (h *savePrompt) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Content     string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Content = strings.TrimSpace(req.Content)
	if req.Name == "" || req.Content == "" {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "name and content are required")
		return
	}

	prompt := domain.NewPromptTemplate(req.Name, strings.TrimSpace(req.Description), req.Content)
	if req.ID != "" {
		prompt.ID = req.ID
	}

	if err := h.prompts.Upsert(r.Context(), prompt); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writer.WriteSuccessResponse(w, prompt)
}
