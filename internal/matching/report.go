package matching

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/export"
	"github.com/jonathan/job-matcher/internal/types"
)

// Report gathers a student's stored matches and the job titles needed to
// export them. Jobs that are no longer active are reported by id.
func (e *Engine) Report(ctx context.Context, studentID uuid.UUID) (export.Report, error) {
	student, err := e.store.GetStudent(ctx, studentID)
	if err != nil {
		return export.Report{}, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return export.Report{}, &NotFoundError{Resource: "student", ID: studentID}
	}

	matches, err := e.store.ListMatchesForStudent(ctx, studentID)
	if err != nil {
		return export.Report{}, fmt.Errorf("failed to list matches: %w", err)
	}
	SortByScore(matches)

	jobs, err := e.store.ListActiveJobs(ctx)
	if err != nil {
		return export.Report{}, fmt.Errorf("failed to list jobs: %w", err)
	}
	byID := make(map[uuid.UUID]types.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}

	return export.Report{StudentName: student.Name, Matches: matches, Jobs: byID}, nil
}
