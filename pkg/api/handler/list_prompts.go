package handler

import (
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
	"github.com/dskvich/chatwriting/pkg/domain"
)

type PromptLister interface {
	All() []domain.PromptTemplate
	SelectedID() string
}

type listPrompts struct {
	prompts PromptLister
	writer  response.JSONResponseWriter
}

func NewListPrompts(prompts PromptLister) *listPrompts {
	return &listPrompts{prompts: prompts}
}

func (h *listPrompts) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.writer.WriteSuccessResponse(w, map[string]any{
		"prompts":    h.prompts.All(),
		"selectedId": h.prompts.SelectedID(),
	})
}
