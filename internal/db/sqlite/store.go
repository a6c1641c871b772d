// Package sqlite is an embedded, single-file implementation of the matching
// store, used for local runs and tests without a PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/types"
	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed store. Ids are stored as text, times as RFC 3339.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir %s: %w", filepath.Dir(path), err)
		}
	}
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	conn.SetMaxOpenConns(1) // SQLite: single writer

	s := &Store{db: conn}
	if err := s.Migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates any missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: init schema: %w", err)
	}
	return nil
}

// Ping verifies the database is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetStudent retrieves a student with certifications and experiences.
// Returns nil when the student does not exist.
func (s *Store) GetStudent(ctx context.Context, id uuid.UUID) (*types.Student, error) {
	var st types.Student
	var projects, activeCV sql.NullString
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, university, major, bio, skills, github_url,
		        github_projects, portfolio_url, active_cv_id, created_at
		 FROM students WHERE id = ?`, id.String(),
	).Scan(&st.ID, &st.Name, &st.Email, &st.University, &st.Major, &st.Bio, &st.Skills,
		&st.GitHubURL, &projects, &st.PortfolioURL, &activeCV, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if st.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if projects.Valid && projects.String != "" {
		if err := json.Unmarshal([]byte(projects.String), &st.GitHubProjects); err != nil {
			return nil, fmt.Errorf("failed to decode github projects: %w", err)
		}
	}
	if activeCV.Valid {
		cvID, err := uuid.Parse(activeCV.String)
		if err != nil {
			return nil, fmt.Errorf("invalid active cv id: %w", err)
		}
		st.ActiveCVID = &cvID
	}
	if st.Certifications, err = s.listCertifications(ctx, id); err != nil {
		return nil, err
	}
	if st.Experiences, err = s.listExperiences(ctx, id); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) listCertifications(ctx context.Context, studentID uuid.UUID) ([]types.Certification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, issuer, issue_date, expiry_date, credential_url
		 FROM certifications WHERE student_id = ? ORDER BY issue_date, name`, studentID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	defer rows.Close()

	var certs []types.Certification
	for rows.Next() {
		var c types.Certification
		var issued, expires sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Issuer, &issued, &expires, &c.CredentialURL); err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		if c.IssueDate, err = parseNullTime(issued); err != nil {
			return nil, err
		}
		if c.ExpiryDate, err = parseNullTime(expires); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

func (s *Store) listExperiences(ctx context.Context, studentID uuid.UUID) ([]types.Experience, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, company, location, start_date, end_date, current, description
		 FROM experiences WHERE student_id = ? ORDER BY start_date`, studentID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	var exps []types.Experience
	for rows.Next() {
		var e types.Experience
		var start string
		var end sql.NullString
		if err := rows.Scan(&e.ID, &e.Title, &e.Company, &e.Location, &start, &end, &e.Current, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		if e.StartDate, err = parseTime(start); err != nil {
			return nil, err
		}
		if e.EndDate, err = parseNullTime(end); err != nil {
			return nil, err
		}
		exps = append(exps, e)
	}
	return exps, rows.Err()
}

// ListStudentIDs returns every student id.
func (s *Store) ListStudentIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM students ORDER BY created_at, id`)
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

// SaveStudent inserts or replaces a student with their certifications and experiences.
func (s *Store) SaveStudent(ctx context.Context, st *types.Student) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	projects, err := json.Marshal(st.GitHubProjects)
	if err != nil {
		return fmt.Errorf("failed to marshal github projects: %w", err)
	}
	var activeCV *string
	if st.ActiveCVID != nil {
		v := st.ActiveCVID.String()
		activeCV = &v
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO students (id, name, email, university, major, bio, skills, github_url,
		                       github_projects, portfolio_url, active_cv_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     name = excluded.name, email = excluded.email, university = excluded.university,
		     major = excluded.major, bio = excluded.bio, skills = excluded.skills,
		     github_url = excluded.github_url, github_projects = excluded.github_projects,
		     portfolio_url = excluded.portfolio_url, active_cv_id = excluded.active_cv_id`,
		st.ID.String(), st.Name, st.Email, st.University, st.Major, st.Bio, st.Skills, st.GitHubURL,
		string(projects), st.PortfolioURL, activeCV, formatTime(st.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save student: %w", err)
	}

	for _, table := range []string{"certifications", "experiences"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE student_id = ?`, st.ID.String()); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	for i := range st.Certifications {
		c := &st.Certifications[i]
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO certifications (id, student_id, name, issuer, issue_date, expiry_date, credential_url)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID.String(), st.ID.String(), c.Name, c.Issuer, formatNullTime(c.IssueDate),
			formatNullTime(c.ExpiryDate), c.CredentialURL)
		if err != nil {
			return fmt.Errorf("failed to insert certification: %w", err)
		}
	}
	for i := range st.Experiences {
		e := &st.Experiences[i]
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO experiences (id, student_id, title, company, location, start_date, end_date, current, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID.String(), st.ID.String(), e.Title, e.Company, e.Location, formatTime(e.StartDate),
			formatNullTime(e.EndDate), e.Current, e.Description)
		if err != nil {
			return fmt.Errorf("failed to insert experience: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit student: %w", err)
	}
	return nil
}

// ListActiveJobs returns the jobs open for matching, oldest first.
func (s *Store) ListActiveJobs(ctx context.Context) ([]types.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, company, description, location, required_skills, active, created_at
		 FROM jobs WHERE active = 1 ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var j types.Job
		var created string
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Description, &j.Location,
			&j.RequiredSkills, &j.Active, &created); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if j.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// SaveJob inserts or replaces a job.
func (s *Store) SaveJob(ctx context.Context, j *types.Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, title, company, description, location, required_skills, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     title = excluded.title, company = excluded.company, description = excluded.description,
		     location = excluded.location, required_skills = excluded.required_skills, active = excluded.active`,
		j.ID.String(), j.Title, j.Company, j.Description, j.Location, j.RequiredSkills, j.Active,
		formatTime(j.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// GetCV retrieves a CV by ID. Returns nil when it does not exist.
func (s *Store) GetCV(ctx context.Context, id uuid.UUID) (*types.CV, error) {
	var c types.CV
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, student_id, file_name, html_content, parsed_text, created_at FROM cvs WHERE id = ?`,
		id.String(),
	).Scan(&c.ID, &c.StudentID, &c.FileName, &c.HTMLContent, &c.ParsedText, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cv: %w", err)
	}
	if c.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCV inserts or replaces a CV.
func (s *Store) SaveCV(ctx context.Context, c *types.CV) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cvs (id, student_id, file_name, html_content, parsed_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     file_name = excluded.file_name, html_content = excluded.html_content, parsed_text = excluded.parsed_text`,
		c.ID.String(), c.StudentID.String(), c.FileName, c.HTMLContent, c.ParsedText, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save cv: %w", err)
	}
	return nil
}

const matchColumns = `id, student_id, job_id, match_score, match_details, detailed_analysis, matched_at, viewed`

// ListMatchesForStudent returns every stored match for a student, best first.
func (s *Store) ListMatchesForStudent(ctx context.Context, studentID uuid.UUID) ([]types.JobMatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM job_matches WHERE student_id = ?
		 ORDER BY match_score DESC, matched_at DESC`, studentID.String())
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

// CreateMatchIfAbsent inserts m unless the pair already has a match.
func (s *Store) CreateMatchIfAbsent(ctx context.Context, m *types.JobMatch) (bool, error) {
	analysis, err := db.EncodeEvidence(m.DetailedAnalysis)
	if err != nil {
		return false, err
	}
	var analysisText *string
	if analysis != nil {
		v := string(analysis)
		analysisText = &v
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO job_matches (`+matchColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (student_id, job_id) DO NOTHING`,
		m.ID.String(), m.StudentID.String(), m.JobID.String(), m.MatchScore,
		types.BoundNarrative(m.MatchDetails), analysisText, formatTime(m.MatchedAt), m.Viewed)
	if err != nil {
		return false, fmt.Errorf("failed to create match: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to create match: %w", err)
	}
	return n == 1, nil
}

// GetMatch retrieves a match by ID. Returns nil when it does not exist.
func (s *Store) GetMatch(ctx context.Context, id uuid.UUID) (*types.JobMatch, error) {
	m, err := scanMatch(s.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM job_matches WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// MarkMatchViewed sets the viewed flag.
func (s *Store) MarkMatchViewed(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE job_matches SET viewed = 1 WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to mark match viewed: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*types.JobMatch, error) {
	var m types.JobMatch
	var analysis sql.NullString
	var matched string
	err := row.Scan(&m.ID, &m.StudentID, &m.JobID, &m.MatchScore,
		&m.MatchDetails, &analysis, &matched, &m.Viewed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	if m.MatchedAt, err = parseTime(matched); err != nil {
		return nil, err
	}
	if analysis.Valid {
		if m.DetailedAnalysis, err = db.DecodeEvidence([]byte(analysis.String)); err != nil {
			return nil, err
		}
	}
	return &m, nil
}
