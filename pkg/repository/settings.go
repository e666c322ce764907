package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"github.com/dskvich/chatwriting/pkg/domain"
	"github.com/dskvich/chatwriting/pkg/logger"
	"github.com/dskvich/chatwriting/pkg/storage"
)

type settingsRepository struct {
	mu     sync.RWMutex
	store  Store
	config domain.ModelConfig
}

// NewSettingsRepository merges the persisted partial snapshot onto the hard-coded
// defaults. The API key is force-cleared on every load: the secret never survives a
// restart and has to be entered again per session.
func NewSettingsRepository(ctx context.Context, store Store) *settingsRepository {
	config := domain.DefaultModelConfig()

	// The snapshot is decoded into a scratch value: a malformed one is discarded
	// wholesale, so fields decoded before the error cannot leak into the defaults.
	loaded := domain.DefaultModelConfig()
	ok, err := store.Load(ctx, storage.KeyModelConfig, &loaded)
	if err != nil {
		slog.WarnContext(ctx, "Loading model config", logger.Err(err))
	}
	if ok {
		config = loaded
	}
	config.APIKey = ""

	return &settingsRepository{
		store:  store,
		config: config,
	}
}

func (r *settingsRepository) Get() domain.ModelConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.config
}

// SetPartial merges the patch onto the current config and immediately persists a
// redacted snapshot (the API key field is never serialized).
func (r *settingsRepository) SetPartial(ctx context.Context, patch domain.ConfigPatch) (domain.ModelConfig, error) {
	if err := validatePatch(patch); err != nil {
		return domain.ModelConfig{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if patch.Provider != nil {
		r.config.Provider = *patch.Provider
	}
	if patch.APIKey != nil {
		r.config.APIKey = *patch.APIKey
	}
	if patch.BaseURL != nil {
		r.config.BaseURL = *patch.BaseURL
	}
	if patch.Model != nil {
		r.config.Model = *patch.Model
	}
	if patch.Temperature != nil {
		r.config.Temperature = *patch.Temperature
	}
	if patch.MaxTokens != nil {
		r.config.MaxTokens = *patch.MaxTokens
	}

	if err := r.store.Save(ctx, storage.KeyModelConfig, r.config); err != nil {
		return domain.ModelConfig{}, fmt.Errorf("persisting model config: %w", err)
	}

	return r.config, nil
}

func validatePatch(patch domain.ConfigPatch) error {
	if patch.Provider != nil && !lo.Contains(domain.SupportedProviders, *patch.Provider) {
		return fmt.Errorf("unsupported provider %q", *patch.Provider)
	}
	if patch.Temperature != nil && (*patch.Temperature < domain.MinTemperature || *patch.Temperature > domain.MaxTemperature) {
		return fmt.Errorf("temperature %v is out of range [%v, %v]", *patch.Temperature, domain.MinTemperature, domain.MaxTemperature)
	}
	if patch.MaxTokens != nil && (*patch.MaxTokens < domain.MinMaxTokens || *patch.MaxTokens > domain.MaxMaxTokens) {
		return fmt.Errorf("max tokens %d is out of range [%d, %d]", *patch.MaxTokens, domain.MinMaxTokens, domain.MaxMaxTokens)
	}
	return nil
}
