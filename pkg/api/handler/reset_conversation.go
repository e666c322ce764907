package handler

import (
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
)

type ConversationResetter interface {
	Reset()
}

type resetConversation struct {
	chat   ConversationResetter
	writer response.JSONResponseWriter
}

func NewResetConversation(chat ConversationResetter) *resetConversation {
	return &resetConversation{chat: chat}
}

func (h *resetConversation) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.chat.Reset()
	h.writer.WriteNoContentResponse(w)
}
