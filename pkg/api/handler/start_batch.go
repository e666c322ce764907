package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
	"github.com/dskvich/chatwriting/pkg/domain"
)

type BatchStarter interface {
	StartBatch(ctx context.Context, promptIDs []string) error
	QueueState() domain.AutoQueueState
}

type startBatch struct {
	sequencer BatchStarter
	writer    response.JSONResponseWriter
}

func NewStartBatch(sequencer BatchStarter) *startBatch {
	return &startBatch{sequencer: sequencer}
}

func (h *startBatch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PromptIDs []string `json:"promptIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.sequencer.StartBatch(r.Context(), req.PromptIDs)
	switch {
	case errors.Is(err, domain.ErrEmptyBatch):
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, domain.ErrBatchActive), errors.Is(err, domain.ErrConversationBusy):
		h.writer.WriteErrorResponse(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.writer.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writer.WriteSuccessResponse(w, h.sequencer.QueueState())
}
