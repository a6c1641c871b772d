package matching

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors matched with errors.Is
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// NotFoundError reports a missing student, job or match.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ForbiddenError reports an attempt to modify a match owned by another student.
type ForbiddenError struct {
	MatchID   uuid.UUID
	StudentID uuid.UUID
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("match %s does not belong to student %s", e.MatchID, e.StudentID)
}

// Is makes errors.Is(err, ErrForbidden) true.
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}
