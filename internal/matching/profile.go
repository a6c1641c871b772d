package matching

import (
	"github.com/jonathan/job-matcher/internal/skills"
	"github.com/jonathan/job-matcher/internal/types"
)

// BuildProfile derives the per-run skill profile from a stored student.
func BuildProfile(s *types.Student, cvText string) *types.StudentSkillProfile {
	return &types.StudentSkillProfile{
		StudentID:      s.ID,
		Name:           s.Name,
		Skills:         skills.ParseSkillList(s.Skills),
		GitHubURL:      s.GitHubURL,
		GitHubProjects: s.GitHubProjects,
		PortfolioURL:   s.PortfolioURL,
		Certifications: s.Certifications,
		Experiences:    s.Experiences,
		Bio:            s.Bio,
		Major:          s.Major,
		University:     s.University,
		CVText:         cvText,
	}
}

// BuildRequirement derives the scoring view of a job.
func BuildRequirement(j *types.Job) *types.JobRequirement {
	return &types.JobRequirement{
		JobID:       j.ID,
		Title:       j.Title,
		Company:     j.Company,
		Description: j.Description,
		Location:    j.Location,
		Skills:      skills.ParseSkillList(j.RequiredSkills),
	}
}
