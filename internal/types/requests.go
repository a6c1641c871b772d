package types

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FindMatchesRequest is the optional body of a matching run request.
type FindMatchesRequest struct {
	MinScore *float64 `json:"min_score,omitempty" validate:"omitempty,gte=1,lte=100"`
}

// MatchesResponse lists matches for one student, best first.
type MatchesResponse struct {
	StudentID uuid.UUID  `json:"student_id"`
	Matches   []JobMatch `json:"matches"`
	Count     int        `json:"count"`
}

// TokenResponse carries a signed bearer token for a student.
type TokenResponse struct {
	StudentID uuid.UUID `json:"student_id"`
	Token     string    `json:"token"`
}

var requestValidator = newRequestValidator()

// newRequestValidator reports fields by their JSON names.
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate validates the FindMatchesRequest using the validator.
func (r *FindMatchesRequest) Validate() error {
	return requestValidator.Struct(r)
}

// NewMatchesResponse wraps matches, never encoding a null list.
func NewMatchesResponse(studentID uuid.UUID, matches []JobMatch) MatchesResponse {
	if matches == nil {
		matches = []JobMatch{}
	}
	return MatchesResponse{StudentID: studentID, Matches: matches, Count: len(matches)}
}
