package skills

import (
	"testing"

	"github.com/jonathan/job-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorer_Classify(t *testing.T) {
	s := NewScorer(testGraph())

	tests := []struct {
		name     string
		jobSkill string
		student  []string
		expected MatchTier
	}{
		{name: "direct ignores case", jobSkill: "java", student: []string{"Java"}, expected: TierDirect},
		{name: "related by containment", jobSkill: "Spring", student: []string{"Spring Boot"}, expected: TierRelated},
		{name: "related reverse containment", jobSkill: "PostgreSQL", student: []string{"SQL"}, expected: TierRelated},
		{name: "framework language", jobSkill: "React", student: []string{"JavaScript"}, expected: TierFrameworkLanguage},
		{name: "language framework", jobSkill: "Python", student: []string{"Django"}, expected: TierFrameworkLanguage},
		{name: "go is not inside django", jobSkill: "Python", student: []string{"Go"}, expected: TierMissing},
		{name: "python does not imply go", jobSkill: "Go", student: []string{"Python"}, expected: TierMissing},
		{name: "node matches node.js", jobSkill: "TypeScript", student: []string{"Node"}, expected: TierFrameworkLanguage},
		{name: "missing", jobSkill: "Docker", student: []string{"Java"}, expected: TierMissing},
		{name: "single letter never contained", jobSkill: "C", student: []string{"React"}, expected: TierMissing},
		{name: "direct wins over related", jobSkill: "Go", student: []string{"Golang", "go"}, expected: TierDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Classify(tt.jobSkill, tt.student).Tier)
		})
	}
}

func TestScorer_Score_Weights(t *testing.T) {
	s := NewScorer(testGraph())

	result := s.Score(
		[]string{"Java", "Spring Boot", "JavaScript"},
		[]string{"Java", "Spring", "React", "Docker"},
		types.Completeness{},
	)

	// 1.0 + 0.7 + 0.5 + 0 over 4 skills
	assert.InDelta(t, 55.0, result.SkillPercentage, 0.001)
	assert.Equal(t, []string{"Java"}, result.SkillsWithTier(TierDirect))
	assert.Equal(t, []string{"Spring"}, result.SkillsWithTier(TierRelated))
	assert.Equal(t, []string{"React"}, result.SkillsWithTier(TierFrameworkLanguage))
	assert.Equal(t, []string{"Docker"}, result.Missing())
	assert.False(t, result.FloorApplied)
}

func TestScorer_Score_EmptyJobSkills(t *testing.T) {
	s := NewScorer(testGraph())

	result := s.Score([]string{"Java"}, []string{}, types.Completeness{})
	assert.Equal(t, 0.0, result.SkillPercentage)
	assert.Equal(t, 0.0, result.Percentage)

	withBonus := s.Score([]string{"Java"}, nil, types.Completeness{GitHub: true})
	assert.Equal(t, 0.0, withBonus.SkillPercentage)
	assert.Equal(t, 5.0, withBonus.Percentage)
}

func TestScorer_Score_StackFloor(t *testing.T) {
	student := []string{"Java", "Spring Boot", "React"}
	job := []string{"Java", "Spring", "React", "Docker"}

	result := NewScorer(testGraph()).Score(student, job, types.Completeness{})
	assert.GreaterOrEqual(t, result.Percentage, 60.0)

	// Weak coverage still gets lifted to the floor.
	weak := NewScorer(testGraph()).Score(
		[]string{"Java", "Spring", "React"},
		[]string{"Java", "Spring", "React", "Docker", "Kafka", "AWS", "Terraform", "Redis"},
		types.Completeness{},
	)
	require.True(t, weak.FloorApplied)
	assert.Equal(t, 60.0, weak.SkillPercentage)

	disabled := NewScorer(testGraph(), WithStackFloor(false)).Score(
		[]string{"Java", "Spring", "React"},
		[]string{"Java", "Spring", "React", "Docker", "Kafka", "AWS", "Terraform", "Redis"},
		types.Completeness{},
	)
	assert.False(t, disabled.FloorApplied)
	assert.InDelta(t, 37.5, disabled.SkillPercentage, 0.001)
}

func TestScorer_Score_FloorNeedsJobStack(t *testing.T) {
	result := NewScorer(testGraph()).Score(
		[]string{"Java", "Spring", "React"},
		[]string{"Java", "Docker", "Kafka", "AWS"},
		types.Completeness{},
	)
	assert.False(t, result.FloorApplied)
	assert.InDelta(t, 25.0, result.SkillPercentage, 0.001)
}

func TestScorer_Score_BonusCapped(t *testing.T) {
	full := types.Completeness{GitHub: true, Portfolio: true, Certifications: true, Experiences: true}

	result := NewScorer(testGraph()).Score([]string{"Go"}, []string{"Go"}, full)
	assert.Equal(t, 100.0, result.SkillPercentage)
	assert.Equal(t, 20.0, result.Bonus)
	assert.Equal(t, 100.0, result.Percentage)

	partial := NewScorer(testGraph()).Score([]string{"Go"}, []string{"Go", "Rust"}, full)
	assert.Equal(t, 70.0, partial.Percentage)
}

func TestScorer_Score_FrameworkLanguageCredit(t *testing.T) {
	result := NewScorer(testGraph()).Score([]string{"JavaScript"}, []string{"React"}, types.Completeness{})

	require.Len(t, result.Matches, 1)
	assert.NotEqual(t, TierMissing, result.Matches[0].Tier)
	assert.Equal(t, 50.0, result.SkillPercentage)
}

func TestResult_Summary(t *testing.T) {
	result := NewScorer(testGraph()).Score(
		[]string{"Java"},
		[]string{"Java", "Docker"},
		types.Completeness{Experiences: true},
	)

	summary := result.Summary()
	assert.Contains(t, summary, "Skill match 50.0%")
	assert.Contains(t, summary, "direct: Java")
	assert.Contains(t, summary, "missing: Docker")
	assert.Contains(t, summary, "bonus +5")

	empty := NewScorer(testGraph()).Score(nil, nil, types.Completeness{})
	assert.Contains(t, empty.Summary(), "no required skills")
}
