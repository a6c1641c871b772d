package evidence

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
)

// suggestionThreshold is the coverage below which the narrative suggests projects.
const suggestionThreshold = 50.0

// AnalyzeGitHub assesses the student's GitHub profile and listed projects.
func (a *Analyzer) AnalyzeGitHub(ctx context.Context, p *types.StudentSkillProfile, j *types.JobRequirement) types.FacetAnalysis {
	if strings.TrimSpace(p.GitHubURL) == "" && len(p.GitHubProjects) == 0 {
		return notProvided(types.FacetGitHub, "GitHub profile")
	}
	data := baseData(p, j)
	data["GitHubURL"] = p.GitHubURL
	data["GitHubProjects"] = projectLines(p.GitHubProjects)

	return a.run(ctx, types.FacetGitHub, promptGitHub, data, func() types.FacetAnalysis {
		return a.githubHeuristic(p, j)
	}, 100)
}

func (a *Analyzer) githubHeuristic(p *types.StudentSkillProfile, j *types.JobRequirement) types.FacetAnalysis {
	var corpus []string
	corpus = append(corpus, urlWords(p.GitHubURL))
	var languages []string
	for _, project := range p.GitHubProjects {
		corpus = append(corpus, project.Name, project.Description, strings.Join(project.Topics, " "))
		if project.Language != "" {
			languages = append(languages, project.Language)
		}
	}
	detected := unionFold(languages, a.catalog.DetectTechnologies(strings.Join(corpus, " "))...)
	pct, matches := a.scorer.Coverage(detected, j.Skills)
	covered, missing := coverageSentence(matches)

	var b strings.Builder
	if p.GitHubURL != "" {
		fmt.Fprintf(&b, "GitHub profile %s", p.GitHubURL)
	} else {
		b.WriteString("GitHub profile")
	}
	fmt.Fprintf(&b, " with %d listed project(s). Technologies detected: %s.", len(p.GitHubProjects), joinOrNone(detected))
	if len(j.Skills) == 0 {
		b.WriteString(" The job lists no required skills to compare against.")
	} else {
		fmt.Fprintf(&b, " Required skills evidenced: %s. Not evidenced in public work: %s.", joinOrNone(covered), joinOrNone(missing))
		if pct < suggestionThreshold && len(missing) > 0 {
			fmt.Fprintf(&b, " Suggestion: publish a project using %s to demonstrate them.", strings.Join(firstN(missing, 3), ", "))
		}
	}

	return types.FacetAnalysis{
		Facet:           types.FacetGitHub,
		Source:          types.SourceHeuristic,
		Narrative:       types.BoundNarrative(b.String()),
		MatchPercentage: clampPct(pct, 100),
	}
}

// urlWords turns a URL's host-less path into space separated words.
func urlWords(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(withScheme(raw))
	if err != nil {
		return ""
	}
	return strings.NewReplacer("/", " ", "-", " ", "_", " ", ".", " ").Replace(u.Path)
}

func withScheme(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

func projectLines(projects []types.GitHubProject) string {
	if len(projects) == 0 {
		return ""
	}
	lines := make([]string, 0, len(projects))
	for _, p := range projects {
		line := "- " + p.Name
		if p.Language != "" {
			line += " [" + p.Language + "]"
		}
		if p.Description != "" {
			line += ": " + p.Description
		}
		if len(p.Topics) > 0 {
			line += " (topics: " + strings.Join(p.Topics, ", ") + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// baseData holds the template values shared by every facet prompt.
func baseData(p *types.StudentSkillProfile, j *types.JobRequirement) map[string]string {
	return map[string]string{
		"JobTitle":       j.Title,
		"Company":        j.Company,
		"Location":       j.Location,
		"JobDescription": j.Description,
		"JobSkills":      strings.Join(j.Skills, ", "),
		"StudentSkills":  strings.Join(p.Skills, ", "),
	}
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
