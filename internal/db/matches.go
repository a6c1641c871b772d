package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/job-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Job Match Methods
// -----------------------------------------------------------------------------

const matchColumns = `id, student_id, job_id, match_score, match_details, detailed_analysis, matched_at, viewed`

// ListMatchesForStudent returns every stored match for a student, best first.
func (db *DB) ListMatchesForStudent(ctx context.Context, studentID uuid.UUID) ([]types.JobMatch, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+matchColumns+` FROM job_matches
		 WHERE student_id = $1 ORDER BY match_score DESC, matched_at DESC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []types.JobMatch
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// CreateMatchIfAbsent inserts m unless the (student, job) pair already has a
// match. It reports whether a row was written.
func (db *DB) CreateMatchIfAbsent(ctx context.Context, m *types.JobMatch) (bool, error) {
	analysisJSON, err := EncodeEvidence(m.DetailedAnalysis)
	if err != nil {
		return false, err
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_matches (id, student_id, job_id, match_score, match_details, detailed_analysis, matched_at, viewed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (student_id, job_id) DO NOTHING
		 RETURNING id`,
		m.ID, m.StudentID, m.JobID, m.MatchScore, types.BoundNarrative(m.MatchDetails), analysisJSON, m.MatchedAt, m.Viewed,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to create match: %w", err)
	}
	return true, nil
}

// GetMatch retrieves a match by ID. Returns nil when it does not exist.
func (db *DB) GetMatch(ctx context.Context, id uuid.UUID) (*types.JobMatch, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+matchColumns+` FROM job_matches WHERE id = $1`, id)
	m, err := scanMatch(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// MarkMatchViewed sets the viewed flag. Other columns never change after creation.
func (db *DB) MarkMatchViewed(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `UPDATE job_matches SET viewed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark match viewed: %w", err)
	}
	return nil
}

func scanMatch(row pgx.Row) (*types.JobMatch, error) {
	var m types.JobMatch
	var analysisJSON []byte
	err := row.Scan(&m.ID, &m.StudentID, &m.JobID, &m.MatchScore, &m.MatchDetails,
		&analysisJSON, &m.MatchedAt, &m.Viewed)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	if m.DetailedAnalysis, err = DecodeEvidence(analysisJSON); err != nil {
		return nil, err
	}
	return &m, nil
}

// EncodeEvidence serializes a match's detailed analysis; nil stays NULL.
func EncodeEvidence(e *types.MatchEvidence) ([]byte, error) {
	if e == nil {
		return nil, nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal detailed analysis: %w", err)
	}
	return data, nil
}

// DecodeEvidence parses a stored detailed analysis. Empty input yields nil.
func DecodeEvidence(data []byte) (*types.MatchEvidence, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var e types.MatchEvidence
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to decode detailed analysis: %w", err)
	}
	return &e, nil
}
