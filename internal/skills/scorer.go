package skills

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
)

const (
	// Weight constants per match tier
	WeightDirect            = 1.0
	WeightRelated           = 0.7
	WeightFrameworkLanguage = 0.5

	// CompletenessBonus is added per optional profile section present.
	CompletenessBonus = 5.0

	// stackFloor is the minimum skill percentage for a student and job that
	// both carry the full Java/Spring/React stack.
	stackFloor = 60.0
)

// legacyStack is the skill set that triggers the stack floor.
var legacyStack = []string{"java", "spring", "react"}

// MatchTier classifies how a job skill was satisfied.
type MatchTier string

// Match tiers, strongest first
const (
	TierDirect            MatchTier = "direct"
	TierRelated           MatchTier = "related"
	TierFrameworkLanguage MatchTier = "framework_language"
	TierMissing           MatchTier = "missing"
)

// Weight returns the scoring weight of a tier.
func (t MatchTier) Weight() float64 {
	switch t {
	case TierDirect:
		return WeightDirect
	case TierRelated:
		return WeightRelated
	case TierFrameworkLanguage:
		return WeightFrameworkLanguage
	default:
		return 0
	}
}

// SkillMatch records how one job skill matched.
type SkillMatch struct {
	JobSkill     string    `json:"job_skill"`
	StudentSkill string    `json:"student_skill,omitempty"`
	Tier         MatchTier `json:"tier"`
}

// Result is the outcome of a heuristic scoring pass.
type Result struct {
	Matches []SkillMatch `json:"matches"`
	// SkillPercentage is the weighted skill coverage, floor applied, before bonuses.
	SkillPercentage float64 `json:"skill_percentage"`
	Bonus           float64 `json:"bonus"`
	// Percentage is SkillPercentage plus Bonus, capped at 100.
	Percentage   float64 `json:"percentage"`
	FloorApplied bool    `json:"floor_applied,omitempty"`
}

// SkillsWithTier returns the job skills matched at the given tier, in job order.
func (r Result) SkillsWithTier(tier MatchTier) []string {
	var out []string
	for _, m := range r.Matches {
		if m.Tier == tier {
			out = append(out, m.JobSkill)
		}
	}
	return out
}

// Missing returns the job skills with no match.
func (r Result) Missing() []string {
	return r.SkillsWithTier(TierMissing)
}

// Summary renders the result as a short human-readable explanation.
func (r Result) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Skill match %.1f%%", r.SkillPercentage)
	if len(r.Matches) == 0 {
		sb.WriteString(" (job lists no required skills)")
	} else {
		fmt.Fprintf(&sb, " (direct: %s; related: %s; framework-language: %s; missing: %s)",
			listOrDash(r.SkillsWithTier(TierDirect)),
			listOrDash(r.SkillsWithTier(TierRelated)),
			listOrDash(r.SkillsWithTier(TierFrameworkLanguage)),
			listOrDash(r.Missing()))
	}
	if r.FloorApplied {
		fmt.Fprintf(&sb, ". Java/Spring/React stack floor of %.0f%% applied", stackFloor)
	}
	if r.Bonus > 0 {
		fmt.Fprintf(&sb, ". Profile completeness bonus +%.0f", r.Bonus)
	}
	fmt.Fprintf(&sb, ". Heuristic score %.1f.", r.Percentage)
	return sb.String()
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

// Scorer computes the deterministic skill-match percentage.
type Scorer struct {
	graph      *RelationshipGraph
	stackFloor bool
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithStackFloor toggles the Java/Spring/React floor (enabled by default).
func WithStackFloor(enabled bool) Option {
	return func(s *Scorer) {
		s.stackFloor = enabled
	}
}

// NewScorer creates a scorer over the given relationship graph.
func NewScorer(graph *RelationshipGraph, opts ...Option) *Scorer {
	s := &Scorer{graph: graph, stackFloor: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Graph returns the relationship graph the scorer consults.
func (s *Scorer) Graph() *RelationshipGraph {
	return s.graph
}

// Classify finds the strongest tier at which any student skill satisfies jobSkill.
func (s *Scorer) Classify(jobSkill string, studentSkills []string) SkillMatch {
	job := Fold(jobSkill)
	for _, candidate := range studentSkills {
		if job != "" && Fold(candidate) == job {
			return SkillMatch{JobSkill: jobSkill, StudentSkill: candidate, Tier: TierDirect}
		}
	}
	for _, candidate := range studentSkills {
		if relatedFolded(job, Fold(candidate)) {
			return SkillMatch{JobSkill: jobSkill, StudentSkill: candidate, Tier: TierRelated}
		}
	}
	for _, candidate := range studentSkills {
		if s.graph.Connects(jobSkill, candidate) {
			return SkillMatch{JobSkill: jobSkill, StudentSkill: candidate, Tier: TierFrameworkLanguage}
		}
	}
	return SkillMatch{JobSkill: jobSkill, Tier: TierMissing}
}

// Coverage returns the weighted percentage of jobSkills satisfied by
// studentSkills together with the per-skill matches. No floor or bonus is applied.
func (s *Scorer) Coverage(studentSkills, jobSkills []string) (float64, []SkillMatch) {
	if len(jobSkills) == 0 {
		return 0, []SkillMatch{}
	}
	matches := make([]SkillMatch, 0, len(jobSkills))
	total := 0.0
	for _, jobSkill := range jobSkills {
		m := s.Classify(jobSkill, studentSkills)
		total += m.Tier.Weight()
		matches = append(matches, m)
	}
	return total / float64(len(jobSkills)) * 100, matches
}

// Score computes the heuristic percentage for a student against a job,
// including the stack floor and the profile-completeness bonus.
func (s *Scorer) Score(studentSkills, jobSkills []string, completeness types.Completeness) Result {
	pct, matches := s.Coverage(studentSkills, jobSkills)
	result := Result{Matches: matches, SkillPercentage: pct}

	if s.stackFloor && pct < stackFloor && hasStack(studentSkills) && hasStack(jobSkills) {
		result.SkillPercentage = stackFloor
		result.FloorApplied = true
	}

	result.Bonus = completenessBonus(completeness)
	result.SkillPercentage = round2(result.SkillPercentage)
	result.Percentage = round2(math.Min(result.SkillPercentage+result.Bonus, 100))
	return result
}

// hasStack reports whether every legacy stack token occurs as a substring of some skill.
func hasStack(skills []string) bool {
	folded := make([]string, len(skills))
	for i, skill := range skills {
		folded[i] = Fold(skill)
	}
	for _, want := range legacyStack {
		found := false
		for _, skill := range folded {
			if strings.Contains(skill, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func completenessBonus(c types.Completeness) float64 {
	bonus := 0.0
	for _, present := range []bool{c.GitHub, c.Portfolio, c.Certifications, c.Experiences} {
		if present {
			bonus += CompletenessBonus
		}
	}
	return bonus
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
