package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/export"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/server/middleware"
	"github.com/jonathan/job-matcher/internal/types"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; the only body is a small JSON object.
const maxBodyBytes = 1 << 16

// handleFindMatches runs matching for the authenticated student.
func (s *Server) handleFindMatches(w http.ResponseWriter, r *http.Request) {
	studentID, ok := s.authorizeStudent(w, r)
	if !ok {
		return
	}

	var req types.FindMatchesRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	matches, err := s.engine.FindMatchesForStudent(r.Context(), studentID, req.MinScore)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.NewMatchesResponse(studentID, matches))
}

// handleListMatches returns every stored match of the student, best first.
func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	studentID, ok := s.authorizeStudent(w, r)
	if !ok {
		return
	}

	matches, err := s.engine.GetMatchesForStudent(r.Context(), studentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.NewMatchesResponse(studentID, matches))
}

// handleExportMatches streams the student's matches as an XLSX workbook.
func (s *Server) handleExportMatches(w http.ResponseWriter, r *http.Request) {
	studentID, ok := s.authorizeStudent(w, r)
	if !ok {
		return
	}

	report, err := s.engine.Report(r.Context(), studentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Render fully before writing headers so a failure can still be a JSON error.
	var buf bytes.Buffer
	if err := export.Write(&buf, report); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="matches-%s.xlsx"`, studentID))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("failed to write export", zap.Error(err))
	}
}

// handleGetMatch returns one match owned by the authenticated student.
func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	caller, err := middleware.GetStudentID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	m, err := s.engine.GetMatch(r.Context(), matchID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if m.StudentID != caller {
		s.writeError(w, r, &matching.ForbiddenError{MatchID: matchID, StudentID: caller})
		return
	}
	s.jsonResponse(w, http.StatusOK, m)
}

// handleMarkViewed flags a match as viewed by its owner.
func (s *Server) handleMarkViewed(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	caller, err := middleware.GetStudentID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	m, err := s.engine.MarkViewed(r.Context(), matchID, caller)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, m)
}

// authorizeStudent resolves the {id} path segment and requires it to be the
// token's student.
func (s *Server) authorizeStudent(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	studentID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return uuid.Nil, false
	}
	caller, err := middleware.GetStudentID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	if caller != studentID {
		s.errorResponse(w, http.StatusForbidden, "token does not grant access to this student")
		return uuid.Nil, false
	}
	return studentID, true
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: fmt.Sprintf("invalid uuid %q", raw)}
	}
	return id, nil
}

// decodeOptionalJSON decodes the body into dst; an empty body leaves dst unchanged.
func decodeOptionalJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// validationError flattens validator output into an ErrValidation.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	fields := make([]string, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
		msgs = append(msgs, fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param()))
	}
	return &ErrValidation{Field: strings.Join(fields, ","), Message: strings.Join(msgs, "; ")}
}
