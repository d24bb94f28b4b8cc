package llm

import (
	"fmt"
	"os"

	"github.com/avetrov/crosswalk/internal/model"
)

// NewProvider creates the configured provider; nil when disabled
func NewProvider(config Config) (Provider, error) {
	switch config.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIProvider(config)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel converts loaded configuration into provider settings
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:        cfg.Provider,
		Model:           cfg.Model,
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Timeout,
		MaxTokens:       cfg.MaxTokens,
		StrictCitations: cfg.StrictCitations,
	}
}

// LoadConfigFromEnv fills the API key from the environment when unset
func LoadConfigFromEnv(config *Config) {
	if config.APIKey != "" {
		return
	}
	switch config.Provider {
	case "openai":
		config.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}
