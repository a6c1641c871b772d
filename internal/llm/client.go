package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Client is an abstraction over analysis providers
type Client interface {
	// Complete sends a single prompt and returns the response text. It makes
	// exactly one attempt; every failure is a *Failure.
	Complete(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// Provider identifies the backing provider
	Provider() Provider
	// GetModel returns the provider model used for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a client based on configuration. When credentials are
// missing it returns a client whose every call fails with
// FailureNotConfigured, so callers take their fallback path without a
// network round trip.
func NewClient(ctx context.Context, config *Config, logger *zap.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if !config.Configured() {
		return NewUnconfiguredClient(config.Provider), nil
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, logger)
	case ProviderVertex:
		return NewVertexClient(ctx, config, logger)
	default:
		return nil, fmt.Errorf("unsupported analysis provider %q", config.Provider)
	}
}

// IsConfigured reports whether calls on c can reach a provider.
func IsConfigured(c Client) bool {
	if c == nil {
		return false
	}
	_, unconfigured := c.(*UnconfiguredClient)
	return !unconfigured
}

// UnconfiguredClient fails every call with FailureNotConfigured.
type UnconfiguredClient struct {
	provider Provider
}

// NewUnconfiguredClient returns a client standing in for a provider without credentials.
func NewUnconfiguredClient(provider Provider) *UnconfiguredClient {
	if provider == "" {
		provider = ProviderNone
	}
	return &UnconfiguredClient{provider: provider}
}

// Complete always returns a not-configured failure.
func (c *UnconfiguredClient) Complete(_ context.Context, _ string, _ ModelTier) (string, error) {
	return "", notConfigured(c.provider)
}

// Provider returns the provider this client stands in for.
func (c *UnconfiguredClient) Provider() Provider {
	return c.provider
}

// GetModel returns an empty model name.
func (c *UnconfiguredClient) GetModel(ModelTier) string {
	return ""
}

// Close is a no-op.
func (c *UnconfiguredClient) Close() error {
	return nil
}

// withTimeout applies the configured per-call timeout, if any.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
