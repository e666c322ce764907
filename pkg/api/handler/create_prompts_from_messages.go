package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
	"github.com/dskvich/chatwriting/pkg/domain"
)

type PromptSynthesizer interface {
	CreateFromMessages(ctx context.Context, messageIDs []string) ([]domain.PromptTemplate, error)
}

type createPromptsFromMessages struct {
	prompts PromptSynthesizer
	writer  response.JSONResponseWriter
}

func NewCreatePromptsFromMessages(prompts PromptSynthesizer) *createPromptsFromMessages {
	return &createPromptsFromMessages{prompts: prompts}
}

func (h *createPromptsFromMessages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageIDs []string `json:"messageIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.MessageIDs) == 0 {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "messageIds are required")
		return
	}

	created, err := h.prompts.CreateFromMessages(r.Context(), req.MessageIDs)
	if err != nil {
		h.writer.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writer.WriteSuccessResponse(w, map[string]any{"created": created})
}
