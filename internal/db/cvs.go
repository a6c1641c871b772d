package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/job-matcher/internal/types"
)

// GetCV retrieves a CV by ID. Returns nil when it does not exist.
func (db *DB) GetCV(ctx context.Context, id uuid.UUID) (*types.CV, error) {
	var c types.CV
	var fileName, html, parsed *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, student_id, file_name, html_content, parsed_text, created_at
		 FROM cvs WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.StudentID, &fileName, &html, &parsed, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cv: %w", err)
	}
	c.FileName = derefString(fileName)
	c.HTMLContent = derefString(html)
	c.ParsedText = derefString(parsed)
	return &c, nil
}

// SaveCV inserts or replaces a CV. A nil ID is assigned a new one.
func (db *DB) SaveCV(ctx context.Context, c *types.CV) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO cvs (id, student_id, file_name, html_content, parsed_text)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		     file_name = $3, html_content = $4, parsed_text = $5
		 RETURNING created_at`,
		c.ID, c.StudentID, nullIfEmpty(c.FileName), nullIfEmpty(c.HTMLContent), nullIfEmpty(c.ParsedText),
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save cv: %w", err)
	}
	return nil
}
