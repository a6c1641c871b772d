package types

import (
	"time"

	"github.com/google/uuid"
)

// Score bounds for a persisted match.
const (
	MinMatchScore = 1.0
	MaxMatchScore = 100.0
)

// JobMatch is a persisted (student, job) compatibility result. At most one
// exists per pair; only Viewed changes after creation.
type JobMatch struct {
	ID               uuid.UUID      `json:"id"`
	StudentID        uuid.UUID      `json:"student_id"`
	JobID            uuid.UUID      `json:"job_id"`
	MatchScore       float64        `json:"match_score"`
	MatchDetails     string         `json:"match_details"`
	DetailedAnalysis *MatchEvidence `json:"detailed_analysis,omitempty"`
	MatchedAt        time.Time      `json:"matched_at"`
	Viewed           bool           `json:"viewed"`
}
