// Package matching runs the job-student matching pipeline: heuristic skill
// scoring, evidence analysis, composite score resolution and idempotent
// persistence of one JobMatch per (student, job) pair.
package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/cv"
	"github.com/jonathan/job-matcher/internal/logging"
	"github.com/jonathan/job-matcher/internal/skills"
	"github.com/jonathan/job-matcher/internal/types"
	"go.uber.org/zap"
)

// EvidenceAnalyzer produces the facet analyses for a pair. It never fails.
type EvidenceAnalyzer interface {
	Analyze(ctx context.Context, p *types.StudentSkillProfile, j *types.JobRequirement) []types.FacetAnalysis
}

// Engine is the matching service consumed by the HTTP layer and the CLI.
type Engine struct {
	store    Store
	scorer   *skills.Scorer
	analyzer EvidenceAnalyzer
	resolver *Resolver
	logger   *zap.Logger
	now      func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineClock overrides the time source used for matchedAt.
func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine wires the engine's collaborators.
func NewEngine(store Store, scorer *skills.Scorer, analyzer EvidenceAnalyzer, resolver *Resolver, logger *zap.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		store:    store,
		scorer:   scorer,
		analyzer: analyzer,
		resolver: resolver,
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunStats counts the outcome of one student's run.
type RunStats struct {
	Created int
	Skipped int
	Failed  int
}

// FindMatchesForStudent scores every active job the student has not been
// matched with yet and persists the results. See Rank for what is returned.
// If ctx is cancelled mid-run, the matches created so far are returned with
// the context error.
func (e *Engine) FindMatchesForStudent(ctx context.Context, studentID uuid.UUID, minScore *float64) ([]types.JobMatch, error) {
	matches, _, err := e.run(ctx, studentID, minScore)
	return matches, err
}

func (e *Engine) run(ctx context.Context, studentID uuid.UUID, minScore *float64) ([]types.JobMatch, RunStats, error) {
	var stats RunStats
	log := e.logger.With(zap.String(logging.FieldStudentID, studentID.String()))

	student, err := e.store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, stats, &NotFoundError{Resource: "student", ID: studentID}
	}
	profile := BuildProfile(student, e.cvText(ctx, student, log))

	jobs, err := e.store.ListActiveJobs(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to list active jobs: %w", err)
	}
	existing, err := e.store.ListMatchesForStudent(ctx, studentID)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to list existing matches: %w", err)
	}

	pending := PendingJobs(existing, jobs)
	stats.Skipped = len(jobs) - len(pending)

	created := make([]types.JobMatch, 0, len(pending))
	for i := range pending {
		if ctx.Err() != nil {
			break
		}
		job := &pending[i]
		m, ok, err := e.matchJob(ctx, profile, job)
		if err != nil {
			stats.Failed++
			log.Warn("failed to match job, skipping",
				zap.String(logging.FieldJobID, job.ID.String()), zap.Error(err))
			continue
		}
		if !ok {
			stats.Skipped++
			continue
		}
		created = append(created, *m)
		stats.Created++
	}

	log.Info("matching run finished",
		zap.Int("active_jobs", len(jobs)),
		zap.Int("created", stats.Created),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))

	return Rank(created, existing, minScore), stats, ctx.Err()
}

// matchJob scores and persists one pair. Panics are converted to errors so
// one bad job cannot abort the run.
func (e *Engine) matchJob(ctx context.Context, profile *types.StudentSkillProfile, job *types.Job) (m *types.JobMatch, created bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, created, err = nil, false, fmt.Errorf("panic while matching job: %v", r)
		}
	}()

	req := BuildRequirement(job)
	heuristic := e.scorer.Score(profile.Skills, req.Skills, profile.Completeness())

	evidence := &types.MatchEvidence{}
	for _, facet := range e.analyzer.Analyze(ctx, profile, req) {
		evidence.Set(facet)
	}

	res := e.resolver.Resolve(ctx, CompositeInput{
		Profile:   profile,
		Job:       req,
		Heuristic: heuristic,
		Evidence:  evidence,
	})
	evidence.OverallMatch = types.BoundNarrative(res.Rationale)

	m = &types.JobMatch{
		ID:               uuid.New(),
		StudentID:        profile.StudentID,
		JobID:            job.ID,
		MatchScore:       res.Score,
		MatchDetails:     types.BoundNarrative(heuristic.Summary()),
		DetailedAnalysis: evidence,
		MatchedAt:        e.now().UTC(),
	}
	created, err = e.store.CreateMatchIfAbsent(ctx, m)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save match: %w", err)
	}
	return m, created, nil
}

// cvText loads the student's active CV as prompt context. A missing or
// unreadable CV is not an error for the run.
func (e *Engine) cvText(ctx context.Context, s *types.Student, log *zap.Logger) string {
	if s.ActiveCVID == nil {
		return ""
	}
	c, err := e.store.GetCV(ctx, *s.ActiveCVID)
	if err != nil {
		log.Warn("failed to load CV", zap.Error(err))
		return ""
	}
	if c == nil {
		return ""
	}
	text, err := cv.PlainText(c)
	if err != nil {
		log.Warn("failed to extract CV text", zap.Error(err))
		return ""
	}
	return cv.Excerpt(text, cv.DefaultExcerptLength)
}

// GetMatchesForStudent returns the student's stored matches, best first.
func (e *Engine) GetMatchesForStudent(ctx context.Context, studentID uuid.UUID) ([]types.JobMatch, error) {
	student, err := e.store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, &NotFoundError{Resource: "student", ID: studentID}
	}
	matches, err := e.store.ListMatchesForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	SortByScore(matches)
	return matches, nil
}

// GetMatch returns one stored match.
func (e *Engine) GetMatch(ctx context.Context, matchID uuid.UUID) (*types.JobMatch, error) {
	m, err := e.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	if m == nil {
		return nil, &NotFoundError{Resource: "match", ID: matchID}
	}
	return m, nil
}

// MarkViewed flags a match as viewed by its owner. Marking twice is a no-op.
func (e *Engine) MarkViewed(ctx context.Context, matchID, studentID uuid.UUID) (*types.JobMatch, error) {
	m, err := e.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.StudentID != studentID {
		return nil, &ForbiddenError{MatchID: matchID, StudentID: studentID}
	}
	if m.Viewed {
		return m, nil
	}
	if err := e.store.MarkMatchViewed(ctx, matchID); err != nil {
		return nil, fmt.Errorf("failed to mark match viewed: %w", err)
	}
	m.Viewed = true
	return m, nil
}
