package matching

import (
	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/types"
)

// PendingJobs returns the jobs, in catalog order, the student has no match for yet.
func PendingJobs(existing []types.JobMatch, jobs []types.Job) []types.Job {
	matched := make(map[uuid.UUID]bool, len(existing))
	for _, m := range existing {
		matched[m.JobID] = true
	}
	pending := make([]types.Job, 0, len(jobs))
	for _, j := range jobs {
		if matched[j.ID] {
			continue
		}
		matched[j.ID] = true
		pending = append(pending, j)
	}
	return pending
}
