package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPendingJobs(t *testing.T) {
	a := types.Job{ID: uuid.New(), Title: "a"}
	b := types.Job{ID: uuid.New(), Title: "b"}
	c := types.Job{ID: uuid.New(), Title: "c"}
	existing := []types.JobMatch{{JobID: b.ID}}

	assert.Equal(t, []types.Job{a, c}, PendingJobs(existing, []types.Job{a, b, c}))
	assert.Equal(t, []types.Job{a}, PendingJobs(nil, []types.Job{a, a}))
	assert.Empty(t, PendingJobs(existing, []types.Job{b}))
	assert.Empty(t, PendingJobs(nil, nil))
}
