package fixtures

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/db/sqlite"
	"github.com/jonathan/job-matcher/internal/schemas"
	"github.com/jonathan/job-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "students": [
    {
      "id": "8f1a4c36-0d7e-4a4f-9e58-3c1c2f4b9a10",
      "name": "  Jane Doe ",
      "skills": "Java, Spring Boot, React",
      "github_url": "https://github.com/janedoe",
      "experiences": [
        {"title": "Backend Intern", "company": "Acme", "start_date": "2025-01-01T00:00:00Z"}
      ]
    }
  ],
  "jobs": [
    {"title": "Full Stack Developer", "required_skills": "Java, Spring, React"},
    {"title": "Closed Role", "required_skills": "Go", "active": false}
  ],
  "cvs": [
    {"student_id": "8f1a4c36-0d7e-4a4f-9e58-3c1c2f4b9a10", "html_content": "<p>Java developer</p>"}
  ]
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	set, err := Load(writeFixture(t, sample))
	require.NoError(t, err)

	require.Len(t, set.Students, 1)
	s := set.Students[0]
	assert.Equal(t, "Jane Doe", s.Name)
	require.Len(t, s.Experiences, 1)

	require.Len(t, set.Jobs, 2)
	assert.True(t, set.Jobs[0].Job.Active, "active defaults to true")
	assert.False(t, set.Jobs[1].Job.Active)
	assert.NotEqual(t, uuid.Nil, set.Jobs[0].ID)

	require.Len(t, set.CVs, 1)
	require.NotNil(t, s.ActiveCVID)
	assert.Equal(t, set.CVs[0].ID, *s.ActiveCVID)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		var lerr *LoadError
		require.ErrorAs(t, err, &lerr)
		assert.Contains(t, err.Error(), "failed to read file")
	})

	t.Run("schema violation", func(t *testing.T) {
		_, err := Load(writeFixture(t, `{"jobs": [{"required_skills": "Go"}]}`))
		var verr *schemas.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := Load(writeFixture(t, `students: []`))
		var lerr *LoadError
		assert.ErrorAs(t, err, &lerr)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := Parse([]byte(`{"students": [{"name": "A", "email": "not-an-email"}]}`))
		var nerr *NormalizationError
		require.ErrorAs(t, err, &nerr)
		assert.Contains(t, err.Error(), "Email")
	})

	t.Run("experience without start date", func(t *testing.T) {
		_, err := Parse([]byte(`{"students": [{"name": "A", "experiences": [{"title": "Dev"}]}]}`))
		var nerr *NormalizationError
		assert.ErrorAs(t, err, &nerr)
	})

	t.Run("duplicate student", func(t *testing.T) {
		id := uuid.NewString()
		_, err := Parse([]byte(`{"students": [{"id": "` + id + `", "name": "A"}, {"id": "` + id + `", "name": "B"}]}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate student id")
	})
}

type recordingSink struct {
	students, jobs, cvs int
	failJob             bool
}

func (s *recordingSink) SaveStudent(context.Context, *types.Student) error { s.students++; return nil }
func (s *recordingSink) SaveCV(context.Context, *types.CV) error           { s.cvs++; return nil }
func (s *recordingSink) SaveJob(context.Context, *types.Job) error {
	if s.failJob {
		return errors.New("disk full")
	}
	s.jobs++
	return nil
}

func TestImport_StopsAtFirstError(t *testing.T) {
	set, err := Parse([]byte(sample))
	require.NoError(t, err)

	sink := &recordingSink{failJob: true}
	n, err := Import(context.Background(), sink, set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save job")
	assert.Equal(t, Counts{Students: 1}, n)
	assert.Zero(t, sink.cvs)
}

func TestImport_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	set, err := Parse([]byte(sample))
	require.NoError(t, err)

	n, err := Import(ctx, store, set)
	require.NoError(t, err)
	assert.Equal(t, Counts{Students: 1, Jobs: 2, CVs: 1}, n)

	student, err := store.GetStudent(ctx, set.Students[0].ID)
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, "Jane Doe", student.Name)
	require.NotNil(t, student.ActiveCVID)

	cv, err := store.GetCV(ctx, *student.ActiveCVID)
	require.NoError(t, err)
	require.NotNil(t, cv)
	assert.Contains(t, cv.HTMLContent, "Java developer")

	jobs, err := store.ListActiveJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Full Stack Developer", jobs[0].Title)

	// importing again upserts instead of duplicating
	_, err = Import(ctx, store, set)
	require.NoError(t, err)
	jobs, err = store.ListActiveJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
