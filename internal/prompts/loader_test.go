package prompts

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get(MatchingFile, "composite-score")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.HeuristicSummary}}")
	assert.Contains(t, prompt, `"score"`)
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get(MatchingFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
	assert.Equal(t, "Hello {{.Name}}", Format("Hello {{.Name}}", map[string]string{}))
}

func TestFormat_ValuesAreNotRescanned(t *testing.T) {
	template := "Skills: {{.Skills}}\nBio: {{.Bio}}"
	data := map[string]string{
		"Skills": "Go, {{.Bio}}",
		"Bio":    "I write {{.Skills}} daily",
	}

	want := "Skills: Go, {{.Bio}}\nBio: I write {{.Skills}} daily"
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, Format(template, data))
	}
}

func TestRender_EmptyValues(t *testing.T) {
	out, err := Render(MatchingFile, "portfolio-analysis", map[string]string{
		"JobTitle":      "Frontend Intern",
		"JobSkills":     "React",
		"StudentSkills": "JavaScript",
		"PortfolioURL":  "https://jane.github.io",
		"Bio":           "  ",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Bio: not provided")
	assert.Contains(t, out, "Portfolio URL: https://jane.github.io")
}

func TestMatchingPrompts_AllKeysPresent(t *testing.T) {
	keys, err := List(MatchingFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"certifications-analysis",
		"composite-score",
		"experience-analysis",
		"github-analysis",
		"portfolio-analysis",
	}, keys)
}

func TestMatchingPrompts_RequestJSON(t *testing.T) {
	placeholder := regexp.MustCompile(`\{\{\.[A-Za-z]+\}\}`)
	keys, err := List(MatchingFile)
	require.NoError(t, err)

	for _, key := range keys {
		prompt, err := Get(MatchingFile, key)
		require.NoError(t, err)
		assert.Contains(t, prompt, "Respond with JSON only", key)
		assert.True(t, placeholder.MatchString(prompt), key)
	}
}

func TestRequire(t *testing.T) {
	require.NoError(t, Require(MatchingFile, "composite-score", "github-analysis"))

	err := Require(MatchingFile, "composite-score", "salary-analysis", "culture-analysis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "salary-analysis, culture-analysis")

	assert.Error(t, Require("nonexistent.json", "composite-score"))
}
