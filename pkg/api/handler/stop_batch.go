package handler

import (
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
)

type BatchStopper interface {
	StopBatch()
}

type stopBatch struct {
	sequencer BatchStopper
	writer    response.JSONResponseWriter
}

func NewStopBatch(sequencer BatchStopper) *stopBatch {
	return &stopBatch{sequencer: sequencer}
}

func (h *stopBatch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.sequencer.StopBatch()
	h.writer.WriteNoContentResponse(w)
}
