package handler

import (
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
	"github.com/dskvich/chatwriting/pkg/domain"
)

type ConversationReader interface {
	Messages() []domain.ChatMessage
	Status() domain.ConversationStatus
}

type listMessages struct {
	chat   ConversationReader
	writer response.JSONResponseWriter
}

func NewListMessages(chat ConversationReader) *listMessages {
	return &listMessages{chat: chat}
}

func (h *listMessages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.writer.WriteSuccessResponse(w, map[string]any{
		"messages": h.chat.Messages(),
		"status":   h.chat.Status(),
	})
}
