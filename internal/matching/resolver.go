package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/logging"
	"github.com/jonathan/job-matcher/internal/prompts"
	"github.com/jonathan/job-matcher/internal/schemas"
	"github.com/jonathan/job-matcher/internal/skills"
	"github.com/jonathan/job-matcher/internal/types"
	"go.uber.org/zap"
)

const promptComposite = "composite-score"

// PromptKeys lists the templates the resolver renders.
func PromptKeys() []string {
	return []string{promptComposite}
}

// leadingScore accepts bare answers such as "78" or "Score: 78/100".
var leadingScore = regexp.MustCompile(`(?i)^(?:score\s*[:=]?\s*)?(-?\d+(?:\.\d+)?)`)

// CompositeInput is everything the composite prompt is built from.
type CompositeInput struct {
	Profile   *types.StudentSkillProfile
	Job       *types.JobRequirement
	Heuristic skills.Result
	Evidence  *types.MatchEvidence
}

// Resolution is the final score for a pair and where it came from.
type Resolution struct {
	Score     float64
	Rationale string
	Source    types.EvidenceSource
}

// Resolver turns the heuristic score and evidence into the final 1-100 score.
type Resolver struct {
	client llm.Client
	logger *zap.Logger

	notConfiguredOnce sync.Once
}

// NewResolver creates a resolver. A nil client behaves as an unconfigured provider.
func NewResolver(client llm.Client, logger *zap.Logger) *Resolver {
	if client == nil {
		client = llm.NewUnconfiguredClient(llm.ProviderNone)
	}
	return &Resolver{client: client, logger: logging.OrNop(logger)}
}

// Resolve asks the provider for a consolidated score. Without a provider, or
// on any failure, the heuristic percentage floored at 1 is used.
func (r *Resolver) Resolve(ctx context.Context, in CompositeInput) Resolution {
	fallback := Resolution{
		Score:     ClampScore(in.Heuristic.Percentage),
		Rationale: in.Heuristic.Summary(),
		Source:    types.SourceHeuristic,
	}

	if !llm.IsConfigured(r.client) {
		r.notConfiguredOnce.Do(func() {
			r.logger.Info("analysis provider not configured, using heuristic composite score")
		})
		return fallback
	}

	prompt, err := prompts.Render(prompts.MatchingFile, promptComposite, compositeData(in))
	if err != nil {
		r.logger.Error("failed to render prompt", zap.Error(err))
		return fallback
	}

	log := r.logger.With(zap.String(logging.FieldJobID, in.Job.JobID.String()))
	text, err := r.client.Complete(ctx, prompt, llm.TierStandard)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if f, ok := llm.AsFailure(err); ok {
			fields = append(fields, zap.String("kind", string(f.Kind)), zap.Int("code", f.Code),
				zap.String("status", f.Status), zap.String("message", f.Message))
		}
		log.Warn("composite scoring failed, using heuristic score", fields...)
		return fallback
	}

	score, rationale, err := parseCompositeScore(text)
	if err != nil {
		log.Warn("unparsable composite score, using heuristic score",
			zap.Error(err), zap.String("response_preview", logging.Truncate(text, 200)))
		return fallback
	}
	if strings.TrimSpace(rationale) == "" {
		rationale = fallback.Rationale
	}

	return Resolution{
		Score:     ClampScore(score),
		Rationale: types.BoundNarrative(strings.TrimSpace(rationale)),
		Source:    types.SourceAI,
	}
}

func parseCompositeScore(text string) (float64, string, error) {
	cleaned := llm.CleanJSONBlock(text)
	if err := schemas.Validate(schemas.CompositeScore, []byte(cleaned)); err == nil {
		var resp struct {
			Score     float64 `json:"score"`
			Rationale string  `json:"rationale"`
		}
		if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
			return 0, "", fmt.Errorf("failed to decode composite score: %w", err)
		}
		return math.Round(resp.Score), resp.Rationale, nil
	}

	m := leadingScore.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, "", fmt.Errorf("no score in response")
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid score %q: %w", m[1], err)
	}
	return math.Round(v), "", nil
}

// ClampScore bounds a score to [MinMatchScore, MaxMatchScore].
func ClampScore(v float64) float64 {
	if math.IsNaN(v) {
		return types.MinMatchScore
	}
	return math.Max(types.MinMatchScore, math.Min(types.MaxMatchScore, v))
}

func compositeData(in CompositeInput) map[string]string {
	p, j := in.Profile, in.Job
	data := map[string]string{
		"JobTitle":         j.Title,
		"Company":          j.Company,
		"Location":         j.Location,
		"JobDescription":   j.Description,
		"JobSkills":        strings.Join(j.Skills, ", "),
		"University":       p.University,
		"Major":            p.Major,
		"StudentSkills":    strings.Join(p.Skills, ", "),
		"Bio":              p.Bio,
		"CVText":           p.CVText,
		"HeuristicSummary": in.Heuristic.Summary(),
	}
	if e := in.Evidence; e != nil {
		data["GitHubAnalysis"] = e.GitHubAnalysis
		data["PortfolioAnalysis"] = e.PortfolioAnalysis
		data["CertificationsAnalysis"] = e.CertificationsAnalysis
		data["ExperiencesAnalysis"] = e.ExperiencesAnalysis
	}
	return data
}
