// Package llm provides the external analysis client: a single-attempt text
// completion call against a hosted model, with typed failures so callers can
// fall back to local heuristics.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short facet narratives
	TierLite ModelTier = "lite"
	// TierStandard is for the consolidated match score
	TierStandard ModelTier = "standard"
	// TierAdvanced is reserved for heavier reasoning prompts
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderNone disables external analysis entirely
	ProviderNone Provider = "none"
	// ProviderGemini is the Google Gemini API (API key auth)
	ProviderGemini Provider = "gemini"
	// ProviderVertex is Gemini served through Vertex AI (project credentials)
	ProviderVertex Provider = "vertex"
)

// SafetyThreshold is the provider-side content blocking threshold applied
// to every harm category.
type SafetyThreshold string

// Safety thresholds
const (
	SafetyBlockNone           SafetyThreshold = "block_none"
	SafetyBlockOnlyHigh       SafetyThreshold = "block_only_high"
	SafetyBlockMediumAndAbove SafetyThreshold = "block_medium_and_above"
	SafetyBlockLowAndAbove    SafetyThreshold = "block_low_and_above"
)

// Default request parameters
const (
	DefaultTemperature     float32 = 0.2
	DefaultMaxOutputTokens int32   = 1024
	DefaultRequestTimeout          = 60 * time.Second
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string

	Temperature     float32
	MaxOutputTokens int32
	SafetyThreshold SafetyThreshold
	// RequestTimeout bounds a single call; zero leaves it to the caller's context.
	RequestTimeout time.Duration

	// APIKey authenticates ProviderGemini.
	APIKey string
	// Project and Location address ProviderVertex.
	Project  string
	Location string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
		SafetyThreshold: SafetyBlockMediumAndAbove,
		RequestTimeout:  DefaultRequestTimeout,
	}
}

// DefaultVertexConfig returns the default Vertex AI configuration
func DefaultVertexConfig(project, location string) *Config {
	cfg := DefaultGeminiConfig()
	cfg.Provider = ProviderVertex
	cfg.Project = project
	cfg.Location = location
	if cfg.Location == "" {
		cfg.Location = "us-central1"
	}
	return cfg
}

// Configured reports whether the provider has the credentials it needs.
// It never touches the network.
func (c *Config) Configured() bool {
	if c == nil {
		return false
	}
	switch c.Provider {
	case ProviderGemini:
		return c.APIKey != ""
	case ProviderVertex:
		return c.Project != "" && c.Location != ""
	default:
		return false
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
