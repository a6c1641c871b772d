package types

import (
	"time"

	"github.com/google/uuid"
)

// Job is an active job posting from the job catalog.
// RequiredSkills holds the raw stored skill string.
type Job struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title" validate:"required"`
	Company        string    `json:"company,omitempty"`
	Description    string    `json:"description,omitempty"`
	Location       string    `json:"location,omitempty"`
	RequiredSkills string    `json:"required_skills"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// JobRequirement is the parsed view of a job used for scoring.
type JobRequirement struct {
	JobID       uuid.UUID
	Title       string
	Company     string
	Description string
	Location    string
	Skills      []string
}

// CV is a stored curriculum vitae. HTMLContent is the rendered document,
// ParsedText the plain text extracted at upload time (may be empty).
type CV struct {
	ID          uuid.UUID `json:"id"`
	StudentID   uuid.UUID `json:"student_id"`
	FileName    string    `json:"file_name,omitempty"`
	HTMLContent string    `json:"html_content,omitempty"`
	ParsedText  string    `json:"parsed_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
