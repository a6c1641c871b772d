// Package fixtures loads and imports seed data (students, jobs and CVs) so
// the matcher can run without a profile management front end.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/schemas"
	"github.com/jonathan/job-matcher/internal/types"
)

// Job is a job fixture. Active defaults to true when omitted.
type Job struct {
	types.Job
	Active *bool `json:"active,omitempty"`
}

// Set is the content of a fixture file.
type Set struct {
	Students []types.Student `json:"students"`
	Jobs     []Job           `json:"jobs"`
	CVs      []types.CV      `json:"cvs"`
}

// Load reads a fixture file, checks it against the fixture schema and normalizes it.
func Load(path string) (*Set, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to read file %s", path), Cause: err}
	}
	return Parse(content)
}

// Parse is Load for in-memory content.
func Parse(content []byte) (*Set, error) {
	if err := schemas.Validate(schemas.Fixtures, content); err != nil {
		return nil, &LoadError{Message: "fixture file does not match schema", Cause: err}
	}

	var set Set
	if err := json.Unmarshal(content, &set); err != nil {
		return nil, &LoadError{Message: "failed to unmarshal JSON", Cause: err}
	}
	if err := Normalize(&set); err != nil {
		return nil, err
	}
	return &set, nil
}

var validate = validator.New()

// Normalize trims text fields, assigns missing ids, activates each student's
// first CV and validates every record.
func Normalize(set *Set) error {
	byID := make(map[uuid.UUID]*types.Student, len(set.Students))
	for i := range set.Students {
		s := &set.Students[i]
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.Name = strings.TrimSpace(s.Name)
		s.Email = strings.TrimSpace(s.Email)
		s.Skills = strings.TrimSpace(s.Skills)
		s.GitHubURL = strings.TrimSpace(s.GitHubURL)
		s.PortfolioURL = strings.TrimSpace(s.PortfolioURL)
		if err := validate.Struct(s); err != nil {
			return &NormalizationError{Message: fmt.Sprintf("invalid student %q", s.Name), Cause: err}
		}
		if _, dup := byID[s.ID]; dup {
			return &NormalizationError{Message: fmt.Sprintf("duplicate student id %s", s.ID)}
		}
		byID[s.ID] = s
	}

	for i := range set.Jobs {
		j := &set.Jobs[i]
		if j.ID == uuid.Nil {
			j.ID = uuid.New()
		}
		j.Title = strings.TrimSpace(j.Title)
		j.RequiredSkills = strings.TrimSpace(j.RequiredSkills)
		j.Job.Active = j.Active == nil || *j.Active
		if err := validate.Struct(&j.Job); err != nil {
			return &NormalizationError{Message: fmt.Sprintf("invalid job %q", j.Title), Cause: err}
		}
	}

	for i := range set.CVs {
		c := &set.CVs[i]
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		if c.StudentID == uuid.Nil {
			return &NormalizationError{Message: fmt.Sprintf("cv %s has no student_id", c.ID)}
		}
		if s, ok := byID[c.StudentID]; ok && s.ActiveCVID == nil {
			id := c.ID
			s.ActiveCVID = &id
		}
	}
	return nil
}

// Sink stores imported records. Both stores implement it.
type Sink interface {
	SaveStudent(ctx context.Context, s *types.Student) error
	SaveJob(ctx context.Context, j *types.Job) error
	SaveCV(ctx context.Context, c *types.CV) error
}

// Counts reports how many records were written.
type Counts struct {
	Students int
	Jobs     int
	CVs      int
}

// Import upserts students, then jobs, then CVs. It stops at the first error.
func Import(ctx context.Context, sink Sink, set *Set) (Counts, error) {
	var n Counts
	for i := range set.Students {
		if err := sink.SaveStudent(ctx, &set.Students[i]); err != nil {
			return n, fmt.Errorf("failed to save student %s: %w", set.Students[i].ID, err)
		}
		n.Students++
	}
	for i := range set.Jobs {
		if err := sink.SaveJob(ctx, &set.Jobs[i].Job); err != nil {
			return n, fmt.Errorf("failed to save job %s: %w", set.Jobs[i].ID, err)
		}
		n.Jobs++
	}
	for i := range set.CVs {
		if err := sink.SaveCV(ctx, &set.CVs[i]); err != nil {
			return n, fmt.Errorf("failed to save cv %s: %w", set.CVs[i].ID, err)
		}
		n.CVs++
	}
	return n, nil
}
