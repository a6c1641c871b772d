// Package types provides the domain records shared by the matching engine, its stores and the HTTP layer.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Student is the stored student record as loaded from the profile store.
// Skills holds the raw skill string (comma separated or a JSON-ish array).
type Student struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name" validate:"required"`
	Email          string          `json:"email,omitempty" validate:"omitempty,email"`
	University     string          `json:"university,omitempty"`
	Major          string          `json:"major,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	Skills         string          `json:"skills"`
	GitHubURL      string          `json:"github_url,omitempty" validate:"omitempty,url"`
	GitHubProjects []GitHubProject `json:"github_projects,omitempty" validate:"dive"`
	PortfolioURL   string          `json:"portfolio_url,omitempty" validate:"omitempty,url"`
	ActiveCVID     *uuid.UUID      `json:"active_cv_id,omitempty"`
	Certifications []Certification `json:"certifications,omitempty" validate:"dive"`
	Experiences    []Experience    `json:"experiences,omitempty" validate:"dive"`
	CreatedAt      time.Time       `json:"created_at"`
}

// GitHubProject is a public repository a student lists on their profile.
type GitHubProject struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Language    string   `json:"language,omitempty"`
	Topics      []string `json:"topics,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Certification is a professional certification held by a student.
type Certification struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name" validate:"required"`
	Issuer        string     `json:"issuer,omitempty"`
	IssueDate     *time.Time `json:"issue_date,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	CredentialURL string     `json:"credential_url,omitempty"`
}

// Experience is a work or internship entry. A nil EndDate with Current unset
// is treated the same as a current role.
type Experience struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title" validate:"required"`
	Company     string     `json:"company,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// StudentSkillProfile is the per-run view of a student used for scoring.
// It is rebuilt from the stored Student on every run and never cached.
type StudentSkillProfile struct {
	StudentID      uuid.UUID
	Name           string
	Skills         []string
	GitHubURL      string
	GitHubProjects []GitHubProject
	PortfolioURL   string
	Certifications []Certification
	Experiences    []Experience
	Bio            string
	Major          string
	University     string
	CVText         string
}

// Completeness reports which optional evidence sections the profile carries.
type Completeness struct {
	GitHub         bool
	Portfolio      bool
	Certifications bool
	Experiences    bool
}

// Completeness returns the profile-completeness flags used for score bonuses.
func (p *StudentSkillProfile) Completeness() Completeness {
	return Completeness{
		GitHub:         p.GitHubURL != "",
		Portfolio:      p.PortfolioURL != "",
		Certifications: len(p.Certifications) > 0,
		Experiences:    len(p.Experiences) > 0,
	}
}
