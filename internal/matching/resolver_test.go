package matching

import (
	"context"
	"testing"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/prompts"
	"github.com/jonathan/job-matcher/internal/skills"
	"github.com/jonathan/job-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func compositeInput(pct float64) CompositeInput {
	return CompositeInput{
		Profile:   &types.StudentSkillProfile{Skills: []string{"Go"}, CVText: "Gopher since 2019"},
		Job:       &types.JobRequirement{Title: "Go Developer", Skills: []string{"Go"}},
		Heuristic: skills.Result{SkillPercentage: pct, Percentage: pct},
		Evidence:  &types.MatchEvidence{GitHubAnalysis: "Two Go services."},
	}
}

func TestResolver_Unconfigured(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := NewResolver(llm.NewUnconfiguredClient(llm.ProviderGemini), zap.New(core))

	got := r.Resolve(context.Background(), compositeInput(0))
	assert.Equal(t, types.SourceHeuristic, got.Source)
	assert.InDelta(t, 1.0, got.Score, 0.001)

	got = r.Resolve(context.Background(), compositeInput(72.5))
	assert.InDelta(t, 72.5, got.Score, 0.001)
	assert.Contains(t, got.Rationale, "Heuristic score 72.5")

	assert.Equal(t, 1, logs.Len())
}

func TestResolver_ProviderResponses(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		err       error
		want      float64
		source    types.EvidenceSource
		rationale string
	}{
		{name: "json", text: `{"score": 81, "rationale": "Solid Go background."}`, want: 81, source: types.SourceAI, rationale: "Solid Go background."},
		{name: "fenced", text: "```json\n{\"score\": 64.6}\n```", want: 65, source: types.SourceAI},
		{name: "above range", text: `{"score": 140}`, want: 100, source: types.SourceAI},
		{name: "below range", text: `{"score": -3}`, want: 1, source: types.SourceAI},
		{name: "bare number", text: "78", want: 78, source: types.SourceAI},
		{name: "labelled number", text: "Score: 55/100", want: 55, source: types.SourceAI},
		{name: "prose", text: "The student is a good fit.", want: 40, source: types.SourceHeuristic},
		{name: "failure", err: &llm.Failure{Kind: llm.FailureTransport, Provider: llm.ProviderGemini}, want: 40, source: types.SourceHeuristic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{respond: func(string) (string, error) { return tt.text, tt.err }}
			r := NewResolver(client, nil)

			got := r.Resolve(context.Background(), compositeInput(40))

			assert.InDelta(t, tt.want, got.Score, 0.001)
			assert.Equal(t, tt.source, got.Source)
			if tt.rationale != "" {
				assert.Equal(t, tt.rationale, got.Rationale)
			} else {
				assert.NotEmpty(t, got.Rationale)
			}
		})
	}
}

func TestResolver_Prompt(t *testing.T) {
	client := &fakeClient{respond: func(string) (string, error) { return `{"score": 50}`, nil }}

	NewResolver(client, nil).Resolve(context.Background(), compositeInput(40))

	require.Len(t, client.prompts, 1)
	assert.Equal(t, llm.TierStandard, client.tiers[0])
	prompt := client.prompts[0]
	assert.Contains(t, prompt, "Title: Go Developer")
	assert.Contains(t, prompt, "Gopher since 2019")
	assert.Contains(t, prompt, "GitHub: Two Go services.")
	assert.Contains(t, prompt, "Portfolio (inferred, low confidence): not provided")
	assert.Contains(t, prompt, "Heuristic score 40.0")
}

func TestClampScore(t *testing.T) {
	assert.InDelta(t, 1.0, ClampScore(0), 0.001)
	assert.InDelta(t, 100.0, ClampScore(250), 0.001)
	assert.InDelta(t, 42.0, ClampScore(42), 0.001)
}

func TestPromptKeys_Exist(t *testing.T) {
	require.NoError(t, prompts.Require(prompts.MatchingFile, PromptKeys()...))
}
