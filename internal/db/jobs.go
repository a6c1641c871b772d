package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

// ListActiveJobs returns the jobs open for matching, oldest first.
func (db *DB) ListActiveJobs(ctx context.Context) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, company, description, location, required_skills, active, created_at
		 FROM jobs WHERE active ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var j types.Job
		var company, description, location *string
		if err := rows.Scan(&j.ID, &j.Title, &company, &description, &location,
			&j.RequiredSkills, &j.Active, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		j.Company = derefString(company)
		j.Description = derefString(description)
		j.Location = derefString(location)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// SaveJob inserts or replaces a job. A nil ID is assigned a new one.
func (db *DB) SaveJob(ctx context.Context, j *types.Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (id, title, company, description, location, required_skills, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		     title = $2, company = $3, description = $4, location = $5,
		     required_skills = $6, active = $7
		 RETURNING created_at`,
		j.ID, j.Title, nullIfEmpty(j.Company), nullIfEmpty(j.Description), nullIfEmpty(j.Location),
		j.RequiredSkills, j.Active,
	).Scan(&j.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}
