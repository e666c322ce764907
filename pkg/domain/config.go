package domain

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderAzure  Provider = "azure"
	ProviderCustom Provider = "custom"
)

var SupportedProviders = []Provider{
	ProviderOpenAI,
	ProviderAzure,
	ProviderCustom,
}

const (
	MinTemperature = 0.0
	MaxTemperature = 1.0
	MinMaxTokens   = 1
	MaxMaxTokens   = 4096
)

// ModelConfig describes how to reach the text-generation backend. The API key is a
// per-session secret: it is excluded from every persisted snapshot and has to be
// entered again after a restart.
type ModelConfig struct {
	Provider    Provider `json:"provider"`
	APIKey      string   `json:"-"`
	BaseURL     string   `json:"baseUrl"`
	Model       string   `json:"model"`
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"maxTokens"`
}

func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Provider:    ProviderOpenAI,
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4o-mini",
		Temperature: 0.35,
		MaxTokens:   1024,
	}
}

// ConfigPatch is a partial update of ModelConfig. Nil fields keep their current value.
type ConfigPatch struct {
	Provider    *Provider `json:"provider,omitempty"`
	APIKey      *string   `json:"apiKey,omitempty"`
	BaseURL     *string   `json:"baseUrl,omitempty"`
	Model       *string   `json:"model,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"maxTokens,omitempty"`
}
