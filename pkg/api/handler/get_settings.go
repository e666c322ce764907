package handler

import (
	"net/http"

	"github.com/dskvich/chatwriting/pkg/api/response"
	"github.com/dskvich/chatwriting/pkg/domain"
)

type SettingsReader interface {
	Get() domain.ModelConfig
}

type getSettings struct {
	settings SettingsReader
	writer   response.JSONResponseWriter
}

func NewGetSettings(settings SettingsReader) *getSettings {
	return &getSettings{settings: settings}
}

// ServeHTTP returns the model config. The API key is excluded from serialization;
// apiKeyConfigured tells the caller whether one is set for this session.
func (h *getSettings) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	config := h.settings.Get()
	h.writer.WriteSuccessResponse(w, map[string]any{
		"config":           config,
		"apiKeyConfigured": config.APIKey != "",
	})
}
