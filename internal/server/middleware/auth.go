// Package middleware provides HTTP middleware for bearer token authentication.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const studentIDKey ContextKey = "studentID"

// TokenValidator validates a bearer token.
type TokenValidator interface {
	ValidateToken(tokenString string) (StudentIDGetter, error)
}

// StudentIDGetter extracts the student id from validated claims.
type StudentIDGetter interface {
	GetStudentID() uuid.UUID
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the token's student id in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			ctx := WithStudentID(r.Context(), claims.GetStudentID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken parses "Bearer <token>", case-insensitive on the scheme.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="job-matcher"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WithStudentID returns a context carrying the authenticated student id.
func WithStudentID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, studentIDKey, id)
}

// GetStudentID extracts the authenticated student id from the request context.
func GetStudentID(r *http.Request) (uuid.UUID, error) {
	id, ok := r.Context().Value(studentIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("student ID not found in request context")
	}
	return id, nil
}
