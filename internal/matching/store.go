package matching

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/types"
)

// Lookups return (nil, nil) when the record does not exist.

// StudentStore loads stored students with their certifications and experiences.
type StudentStore interface {
	GetStudent(ctx context.Context, id uuid.UUID) (*types.Student, error)
	ListStudentIDs(ctx context.Context) ([]uuid.UUID, error)
}

// JobCatalog lists the jobs open for matching.
type JobCatalog interface {
	ListActiveJobs(ctx context.Context) ([]types.Job, error)
}

// MatchStore persists JobMatch records. CreateMatchIfAbsent must be atomic
// per (student, job) pair and report false when a match already existed.
type MatchStore interface {
	ListMatchesForStudent(ctx context.Context, studentID uuid.UUID) ([]types.JobMatch, error)
	CreateMatchIfAbsent(ctx context.Context, m *types.JobMatch) (bool, error)
	GetMatch(ctx context.Context, id uuid.UUID) (*types.JobMatch, error)
	MarkMatchViewed(ctx context.Context, id uuid.UUID) error
}

// CVStore loads stored CVs used as prompt context.
type CVStore interface {
	GetCV(ctx context.Context, id uuid.UUID) (*types.CV, error)
}

// Store is everything the engine consumes.
type Store interface {
	StudentStore
	JobCatalog
	MatchStore
	CVStore
}
