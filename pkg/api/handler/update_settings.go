package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
	"github.com/dskvich/chatwriting/pkg/domain"
)

type SettingsWriter interface {
	SetPartial(ctx context.Context, patch domain.ConfigPatch) (domain.ModelConfig, error)
}

type updateSettings struct {
	settings SettingsWriter
	writer   response.JSONResponseWriter
}

func NewUpdateSettings(settings SettingsWriter) *updateSettings {
	return &updateSettings{settings: settings}
}

func (h *updateSettings) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var patch domain.ConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	config, err := h.settings.SetPartial(r.Context(), patch)
	if err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writer.WriteSuccessResponse(w, map[string]any{
		"config":           config,
		"apiKeyConfigured": config.APIKey != "",
	})
}
