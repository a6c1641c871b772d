// Package evidence analyzes a student's supporting evidence (GitHub,
// portfolio, certifications, experience) against a job's required skills.
//
// Each facet first asks the external analysis provider for a narrative. When
// the provider is not configured, fails, or answers with something that does
// not parse, a deterministic keyword heuristic produces the narrative instead.
// Analysis never fails: an absent facet yields a "not provided" placeholder.
package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/job-matcher/internal/catalog"
	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/logging"
	"github.com/jonathan/job-matcher/internal/prompts"
	"github.com/jonathan/job-matcher/internal/schemas"
	"github.com/jonathan/job-matcher/internal/skills"
	"github.com/jonathan/job-matcher/internal/types"
	"go.uber.org/zap"
)

// Prompt keys in prompts.MatchingFile
const (
	promptGitHub         = "github-analysis"
	promptPortfolio      = "portfolio-analysis"
	promptCertifications = "certifications-analysis"
	promptExperience     = "experience-analysis"
)

// PromptKeys lists the facet templates the analyzer renders.
func PromptKeys() []string {
	return []string{promptGitHub, promptPortfolio, promptCertifications, promptExperience}
}

// PortfolioCap bounds the portfolio percentage; the site itself is never inspected.
const PortfolioCap = 75.0

// Analyzer produces the four facet analyses for a (student, job) pair.
// It is safe for concurrent use.
type Analyzer struct {
	client  llm.Client
	catalog *catalog.Catalog
	scorer  *skills.Scorer
	logger  *zap.Logger
	now     func() time.Time

	notConfiguredOnce sync.Once
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the time source used for experience durations.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// NewAnalyzer creates an analyzer. A nil client behaves as an unconfigured provider.
func NewAnalyzer(client llm.Client, cat *catalog.Catalog, scorer *skills.Scorer, logger *zap.Logger, opts ...Option) *Analyzer {
	if client == nil {
		client = llm.NewUnconfiguredClient(llm.ProviderNone)
	}
	a := &Analyzer{
		client:  client,
		catalog: cat,
		scorer:  scorer,
		logger:  logging.OrNop(logger),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs every facet sequentially and returns them in types.Facets order.
func (a *Analyzer) Analyze(ctx context.Context, p *types.StudentSkillProfile, j *types.JobRequirement) []types.FacetAnalysis {
	return []types.FacetAnalysis{
		a.AnalyzeGitHub(ctx, p, j),
		a.AnalyzePortfolio(ctx, p, j),
		a.AnalyzeCertifications(ctx, p, j),
		a.AnalyzeExperience(ctx, p, j),
	}
}

// facetResponse is the JSON shape requested from the provider
type facetResponse struct {
	Narrative       string   `json:"narrative"`
	MatchPercentage *float64 `json:"match_percentage"`
}

// run tries the provider and falls back to the heuristic on any failure.
func (a *Analyzer) run(ctx context.Context, facet types.Facet, promptKey string, data map[string]string, heuristic func() types.FacetAnalysis, capPct float64) types.FacetAnalysis {
	log := a.logger.With(zap.String(logging.FieldFacet, string(facet)))

	if !llm.IsConfigured(a.client) {
		a.notConfiguredOnce.Do(func() {
			a.logger.Info("analysis provider not configured, using heuristic evidence analysis")
		})
		return heuristic()
	}

	prompt, err := prompts.Render(prompts.MatchingFile, promptKey, data)
	if err != nil {
		log.Error("failed to render prompt", zap.Error(err))
		return heuristic()
	}

	text, err := a.client.Complete(ctx, prompt, llm.TierLite)
	if err != nil {
		log.Warn("evidence analysis failed, using heuristic", failureFields(err)...)
		return heuristic()
	}

	resp, err := parseFacetResponse(text)
	if err != nil {
		log.Warn("unparsable evidence analysis, using heuristic",
			zap.Error(err), zap.String("response_preview", logging.Truncate(text, 200)))
		return heuristic()
	}

	var pct float64
	if resp.MatchPercentage != nil {
		pct = *resp.MatchPercentage
	} else {
		pct = heuristic().MatchPercentage
	}

	return types.FacetAnalysis{
		Facet:           facet,
		Source:          types.SourceAI,
		Narrative:       types.BoundNarrative(strings.TrimSpace(resp.Narrative)),
		MatchPercentage: clampPct(pct, capPct),
	}
}

func parseFacetResponse(text string) (*facetResponse, error) {
	cleaned := llm.CleanJSONBlock(text)
	if err := schemas.Validate(schemas.EvidenceAnalysis, []byte(cleaned)); err != nil {
		return nil, err
	}
	var resp facetResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	if strings.TrimSpace(resp.Narrative) == "" {
		return nil, fmt.Errorf("analysis has an empty narrative")
	}
	return &resp, nil
}

// failureFields describes an analysis failure for logs.
func failureFields(err error) []zap.Field {
	f, ok := llm.AsFailure(err)
	if !ok {
		return []zap.Field{zap.Error(err)}
	}
	fields := []zap.Field{
		zap.String("kind", string(f.Kind)),
		zap.String(logging.FieldProvider, string(f.Provider)),
		zap.String("message", f.Message),
	}
	if f.Code != 0 {
		fields = append(fields, zap.Int("code", f.Code))
	}
	if f.Status != "" {
		fields = append(fields, zap.String("status", f.Status))
	}
	return fields
}

func notProvided(facet types.Facet, label string) types.FacetAnalysis {
	return types.FacetAnalysis{
		Facet:     facet,
		Source:    types.SourceNotProvided,
		Narrative: label + ": " + types.NotProvided + ".",
	}
}

func clampPct(v, max float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Round(math.Min(v, max)*100) / 100
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// unionFold appends items not already present, comparing folded forms.
func unionFold(base []string, items ...string) []string {
	seen := make(map[string]bool, len(base)+len(items))
	out := make([]string, 0, len(base)+len(items))
	for _, s := range append(append([]string(nil), base...), items...) {
		f := skills.Fold(s)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, s)
	}
	return out
}

// coverageSentence summarises which job skills a piece of evidence supports.
func coverageSentence(matches []skills.SkillMatch) (covered, missing []string) {
	for _, m := range matches {
		if m.Tier == skills.TierMissing {
			missing = append(missing, m.JobSkill)
			continue
		}
		covered = append(covered, m.JobSkill)
	}
	return covered, missing
}
