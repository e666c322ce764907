package handler

import (
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
	"github.com/dskvich/chatwriting/pkg/domain"
)

type BatchReader interface {
	QueueState() domain.AutoQueueState
}

type getBatch struct {
	sequencer BatchReader
	writer    response.JSONResponseWriter
}

func NewGetBatch(sequencer BatchReader) *getBatch {
	return &getBatch{sequencer: sequencer}
}

func (h *getBatch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.writer.WriteSuccessResponse(w, h.sequencer.QueueState())
}
