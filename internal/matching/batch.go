package matching

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/job-matcher/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchSummary aggregates a run over every student.
type BatchSummary struct {
	Students int
	Errors   int
	RunStats
}

// FindMatchesForAll runs FindMatchesForStudent for every stored student with
// at most workers runs in flight. One student's failure does not stop the
// others; concurrent runs are safe because persistence is create-if-absent.
func (e *Engine) FindMatchesForAll(ctx context.Context, workers int) (BatchSummary, error) {
	ids, err := e.store.ListStudentIDs(ctx)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("failed to list students: %w", err)
	}
	if workers < 1 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		summary = BatchSummary{Students: len(ids)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, id := range ids {
		g.Go(func() error {
			_, stats, err := e.run(gctx, id, nil)
			mu.Lock()
			defer mu.Unlock()
			summary.Created += stats.Created
			summary.Skipped += stats.Skipped
			summary.Failed += stats.Failed
			if err != nil {
				summary.Errors++
				e.logger.Warn("student run failed",
					zap.String(logging.FieldStudentID, id.String()), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Info("batch matching finished",
		zap.Int("students", summary.Students),
		zap.Int("errors", summary.Errors),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, ctx.Err()
}

