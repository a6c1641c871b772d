package evidence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/job-matcher/internal/skills"
	"github.com/jonathan/job-matcher/internal/types"
)

// Duration qualifiers, in months
const (
	substantialMonths = 24
	moderateMonths    = 6
)

// AnalyzeExperience assesses role relevance and total duration of the
// student's experience entries. Entries without an end date run to now.
func (a *Analyzer) AnalyzeExperience(ctx context.Context, p *types.StudentSkillProfile, j *types.JobRequirement) types.FacetAnalysis {
	if len(p.Experiences) == 0 {
		return notProvided(types.FacetExperience, "Experience")
	}
	now := a.now()
	data := baseData(p, j)
	data["Experiences"] = experienceLines(p.Experiences, now)
	data["TotalMonths"] = strconv.Itoa(TotalMonths(p.Experiences, now))

	return a.run(ctx, types.FacetExperience, promptExperience, data, func() types.FacetAnalysis {
		return a.experienceHeuristic(p, j, now)
	}, 100)
}

func (a *Analyzer) experienceHeuristic(p *types.StudentSkillProfile, j *types.JobRequirement, now time.Time) types.FacetAnalysis {
	var evidence []string
	for _, e := range p.Experiences {
		text := e.Title + " " + e.Description
		evidence = unionFold(evidence, a.catalog.RoleSkills(text)...)
		folded := skills.Fold(text)
		for _, skill := range j.Skills {
			if skills.ContainsWord(folded, skills.Fold(skill)) {
				evidence = unionFold(evidence, skill)
			}
		}
	}

	pct, matches := a.scorer.Coverage(evidence, j.Skills)
	covered, missing := coverageSentence(matches)
	total := TotalMonths(p.Experiences, now)

	var b strings.Builder
	fmt.Fprintf(&b, "%d experience entr%s totalling %d months (%s duration): ",
		len(p.Experiences), plural(len(p.Experiences), "y", "ies"), total, durationQualifier(total))
	roles := make([]string, 0, len(p.Experiences))
	for _, e := range p.Experiences {
		roles = append(roles, fmt.Sprintf("%s (%d months)", roleLabel(e), monthsBetween(e.StartDate, endOf(e, now))))
	}
	b.WriteString(strings.Join(roles, "; "))
	b.WriteString(".")
	if len(j.Skills) > 0 {
		fmt.Fprintf(&b, " Relevant to: %s. Not evidenced: %s.", joinOrNone(covered), joinOrNone(missing))
	}

	return types.FacetAnalysis{
		Facet:           types.FacetExperience,
		Source:          types.SourceHeuristic,
		Narrative:       types.BoundNarrative(b.String()),
		MatchPercentage: clampPct(pct, 100),
	}
}

// TotalMonths sums the whole months of every experience entry up to now.
func TotalMonths(experiences []types.Experience, now time.Time) int {
	total := 0
	for _, e := range experiences {
		total += monthsBetween(e.StartDate, endOf(e, now))
	}
	return total
}

func endOf(e types.Experience, now time.Time) time.Time {
	if e.Current || e.EndDate == nil {
		return now
	}
	return *e.EndDate
}

// monthsBetween counts whole calendar months from start to end, never negative.
func monthsBetween(start, end time.Time) int {
	if start.IsZero() || !end.After(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func durationQualifier(months int) string {
	switch {
	case months >= substantialMonths:
		return "substantial"
	case months >= moderateMonths:
		return "moderate"
	case months > 0:
		return "limited"
	}
	return "no measurable"
}

func roleLabel(e types.Experience) string {
	if e.Company == "" {
		return e.Title
	}
	return e.Title + " at " + e.Company
}

func experienceLines(experiences []types.Experience, now time.Time) string {
	lines := make([]string, 0, len(experiences))
	for _, e := range experiences {
		end := "present"
		if !e.Current && e.EndDate != nil {
			end = e.EndDate.Format("2006-01")
		}
		line := fmt.Sprintf("- %s, %s to %s (%d months)", roleLabel(e), e.StartDate.Format("2006-01"), end,
			monthsBetween(e.StartDate, endOf(e, now)))
		if e.Description != "" {
			line += ": " + e.Description
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
