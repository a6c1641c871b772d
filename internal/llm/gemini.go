package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/job-matcher/internal/logging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for the Google Gemini API
type GeminiClient struct {
	client *genai.Client
	config *Config
	logger *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, logger *zap.Logger) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, notConfigured(ProviderGemini)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
		logger: logging.OrNop(logger),
	}, nil
}

// Complete generates text content using the model for the given tier
func (c *GeminiClient) Complete(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &Failure{Kind: FailureNotConfigured, Provider: ProviderGemini, Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	ctx, cancel := withTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	model.SetMaxOutputTokens(c.config.MaxOutputTokens)
	model.SafetySettings = geminiSafetySettings(c.config.SafetyThreshold)

	c.logger.Debug("analysis request",
		append(logging.ProviderFields(string(ProviderGemini), modelName),
			zap.String("prompt_preview", logging.Truncate(prompt, 200)))...)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", &Failure{Kind: FailureBlocked, Provider: ProviderGemini, Message: blocked.Error(), Err: err}
		}
		return "", classifyError(ProviderGemini, err)
	}

	return geminiText(resp)
}

// Provider returns ProviderGemini
func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// geminiText extracts the first candidate's text parts
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &Failure{Kind: FailureMissingText, Provider: ProviderGemini, Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &Failure{Kind: FailureMissingText, Provider: ProviderGemini, Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", &Failure{Kind: FailureMissingText, Provider: ProviderGemini, Message: "no text parts in response"}
	}
	return text, nil
}

func geminiSafetySettings(threshold SafetyThreshold) []*genai.SafetySetting {
	var block genai.HarmBlockThreshold
	switch threshold {
	case SafetyBlockNone:
		block = genai.HarmBlockNone
	case SafetyBlockOnlyHigh:
		block = genai.HarmBlockOnlyHigh
	case SafetyBlockLowAndAbove:
		block = genai.HarmBlockLowAndAbove
	default:
		block = genai.HarmBlockMediumAndAbove
	}

	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{Category: category, Threshold: block})
	}
	return settings
}
