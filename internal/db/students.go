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
// Student Methods
// -----------------------------------------------------------------------------

// GetStudent retrieves a student with certifications and experiences.
// Returns nil when the student does not exist.
func (db *DB) GetStudent(ctx context.Context, id uuid.UUID) (*types.Student, error) {
	var s types.Student
	var email, university, major, bio, githubURL, portfolioURL *string
	var projectsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, university, major, bio, skills, github_url,
		        github_projects, portfolio_url, active_cv_id, created_at
		 FROM students WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &email, &university, &major, &bio, &s.Skills, &githubURL,
		&projectsJSON, &portfolioURL, &s.ActiveCVID, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	s.Email = derefString(email)
	s.University = derefString(university)
	s.Major = derefString(major)
	s.Bio = derefString(bio)
	s.GitHubURL = derefString(githubURL)
	s.PortfolioURL = derefString(portfolioURL)
	if projectsJSON != nil {
		if err := json.Unmarshal(projectsJSON, &s.GitHubProjects); err != nil {
			return nil, fmt.Errorf("failed to decode github projects: %w", err)
		}
	}

	if s.Certifications, err = db.listCertifications(ctx, id); err != nil {
		return nil, err
	}
	if s.Experiences, err = db.listExperiences(ctx, id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *DB) listCertifications(ctx context.Context, studentID uuid.UUID) ([]types.Certification, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, issuer, issue_date, expiry_date, credential_url
		 FROM certifications WHERE student_id = $1 ORDER BY issue_date NULLS LAST, name`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	defer rows.Close()

	var certs []types.Certification
	for rows.Next() {
		var c types.Certification
		var issuer, credentialURL *string
		if err := rows.Scan(&c.ID, &c.Name, &issuer, &c.IssueDate, &c.ExpiryDate, &credentialURL); err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		c.Issuer = derefString(issuer)
		c.CredentialURL = derefString(credentialURL)
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

func (db *DB) listExperiences(ctx context.Context, studentID uuid.UUID) ([]types.Experience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, company, location, start_date, end_date, current, description
		 FROM experiences WHERE student_id = $1 ORDER BY start_date`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	var exps []types.Experience
	for rows.Next() {
		var e types.Experience
		var company, location, description *string
		if err := rows.Scan(&e.ID, &e.Title, &company, &location, &e.StartDate, &e.EndDate, &e.Current, &description); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		e.Company = derefString(company)
		e.Location = derefString(location)
		e.Description = derefString(description)
		exps = append(exps, e)
	}
	return exps, rows.Err()
}

// ListStudentIDs returns every student id.
func (db *DB) ListStudentIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := db.pool.Query(ctx, `SELECT id FROM students ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan student id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SaveStudent inserts or replaces a student together with their
// certifications and experiences. A nil ID is assigned a new one.
func (db *DB) SaveStudent(ctx context.Context, s *types.Student) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	projectsJSON, err := json.Marshal(s.GitHubProjects)
	if err != nil {
		return fmt.Errorf("failed to marshal github projects: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO students (id, name, email, university, major, bio, skills,
		                       github_url, github_projects, portfolio_url, active_cv_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
		     name = $2, email = $3, university = $4, major = $5, bio = $6, skills = $7,
		     github_url = $8, github_projects = $9, portfolio_url = $10, active_cv_id = $11
		 RETURNING created_at`,
		s.ID, s.Name, nullIfEmpty(s.Email), nullIfEmpty(s.University), nullIfEmpty(s.Major),
		nullIfEmpty(s.Bio), s.Skills, nullIfEmpty(s.GitHubURL), projectsJSON,
		nullIfEmpty(s.PortfolioURL), s.ActiveCVID,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save student: %w", err)
	}

	// Replace related rows
	if _, err := tx.Exec(ctx, `DELETE FROM certifications WHERE student_id = $1`, s.ID); err != nil {
		return fmt.Errorf("failed to clear certifications: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM experiences WHERE student_id = $1`, s.ID); err != nil {
		return fmt.Errorf("failed to clear experiences: %w", err)
	}

	for i := range s.Certifications {
		c := &s.Certifications[i]
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO certifications (id, student_id, name, issuer, issue_date, expiry_date, credential_url)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, s.ID, c.Name, nullIfEmpty(c.Issuer), c.IssueDate, c.ExpiryDate, nullIfEmpty(c.CredentialURL),
		)
		if err != nil {
			return fmt.Errorf("failed to insert certification: %w", err)
		}
	}

	for i := range s.Experiences {
		e := &s.Experiences[i]
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO experiences (id, student_id, title, company, location, start_date, end_date, current, description)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.ID, s.ID, e.Title, nullIfEmpty(e.Company), nullIfEmpty(e.Location), e.StartDate, e.EndDate,
			e.Current, nullIfEmpty(e.Description),
		)
		if err != nil {
			return fmt.Errorf("failed to insert experience: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit student: %w", err)
	}
	return nil
}
