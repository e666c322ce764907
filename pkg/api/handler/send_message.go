package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
	"github.com/dskvich/chatwriting/pkg/domain"
)

type TurnSubmitter interface {
	Submit(ctx context.Context, content string) (domain.ChatMessage, error)
}

type sendMessage struct {
	chat   TurnSubmitter
	writer response.JSONResponseWriter
}

func NewSendMessage(chat TurnSubmitter) *sendMessage {
	return &sendMessage{chat: chat}
}

func (h *sendMessage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	assistantMessage, err := h.chat.Submit(r.Context(), req.Content)
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, domain.ErrConversationBusy):
		h.writer.WriteErrorResponse(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.writer.WriteErrorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writer.WriteSuccessResponse(w, assistantMessage)
}
