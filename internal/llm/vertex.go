package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/jonathan/job-matcher/internal/logging"
	"go.uber.org/zap"
)

// VertexClient implements Client for Gemini models served by Vertex AI.
// Authentication uses Application Default Credentials.
type VertexClient struct {
	client *genai.Client
	config *Config
	logger *zap.Logger
}

// NewVertexClient creates a Vertex AI client for the configured project and location
func NewVertexClient(ctx context.Context, config *Config, logger *zap.Logger) (*VertexClient, error) {
	if config.Project == "" || config.Location == "" {
		return nil, notConfigured(ProviderVertex)
	}

	client, err := genai.NewClient(ctx, config.Project, config.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return &VertexClient{
		client: client,
		config: config,
		logger: logging.OrNop(logger),
	}, nil
}

// Complete generates text content using the model for the given tier
func (c *VertexClient) Complete(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &Failure{Kind: FailureNotConfigured, Provider: ProviderVertex, Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	ctx, cancel := withTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	model.SetMaxOutputTokens(c.config.MaxOutputTokens)
	model.SafetySettings = vertexSafetySettings(c.config.SafetyThreshold)

	c.logger.Debug("analysis request",
		append(logging.ProviderFields(string(ProviderVertex), modelName),
			zap.String("prompt_preview", logging.Truncate(prompt, 200)))...)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", &Failure{Kind: FailureBlocked, Provider: ProviderVertex, Message: blocked.Error(), Err: err}
		}
		return "", classifyError(ProviderVertex, err)
	}

	return vertexText(resp)
}

// Provider returns ProviderVertex
func (c *VertexClient) Provider() Provider {
	return ProviderVertex
}

// GetModel returns the model name for a tier
func (c *VertexClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *VertexClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func vertexText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &Failure{Kind: FailureMissingText, Provider: ProviderVertex, Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", &Failure{Kind: FailureMissingText, Provider: ProviderVertex, Message: "no content in response"}
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &Failure{Kind: FailureMissingText, Provider: ProviderVertex, Message: "no text parts in response"}
	}
	return text, nil
}

func vertexSafetySettings(threshold SafetyThreshold) []*genai.SafetySetting {
	block := genai.HarmBlockMediumAndAbove
	switch threshold {
	case SafetyBlockNone:
		block = genai.HarmBlockNone
	case SafetyBlockOnlyHigh:
		block = genai.HarmBlockOnlyHigh
	case SafetyBlockLowAndAbove:
		block = genai.HarmBlockLowAndAbove
	}

	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: block},
		{Category: genai.HarmCategoryHateSpeech, Threshold: block},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: block},
		{Category: genai.HarmCategoryDangerousContent, Threshold: block},
	}
}
