package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Greater(t, c.Graph().Len(), 10)
	assert.GreaterOrEqual(t, len(c.TechKeywords()), 30)
	assert.Equal(t, []string{"javascript", "typescript"}, c.Graph().ImpliedLanguages("React"))
	assert.Equal(t, []string{"java", "kotlin"}, c.Graph().ImpliedLanguages("Spring Boot"))
	assert.Equal(t, []string{"dart"}, c.Graph().ImpliedLanguages("Flutter"))
}

func TestDefault_GraphNeedsWholeWords(t *testing.T) {
	g := Default().Graph()

	assert.Equal(t, []string{"javascript", "typescript"}, g.ImpliedLanguages("Node"))
	assert.Equal(t, []string{"swift", "objective-c"}, g.ImpliedLanguages("iOS"))
	assert.Empty(t, g.ImpliedLanguages("Go"))
	assert.Empty(t, g.ImpliedLanguages("Axios"))
	assert.Empty(t, g.ImpliedLanguages("Guardrails"))
	assert.False(t, g.Connects("Go", "Python"))
	assert.False(t, g.Connects("Axios", "Swift"))
}

func TestCatalog_DetectTechnologies(t *testing.T) {
	c := Default()

	found := c.DetectTechnologies("REST service in Go with PostgreSQL, deployed via Docker on AWS")
	assert.Equal(t, []string{"Go", "Docker", "AWS", "PostgreSQL"}, found)

	assert.Equal(t, []string{"JavaScript"}, c.DetectTechnologies("vanilla javascript widgets"))
	assert.Empty(t, c.DetectTechnologies(""))
}

func TestCatalog_HostingPlatform(t *testing.T) {
	c := Default()

	key, stack, ok := c.HostingPlatform("jane.github.io")
	require.True(t, ok)
	assert.Equal(t, "github.io", key)
	assert.Contains(t, stack, "JavaScript")

	key, stack, ok = c.HostingPlatform("portfolio-jane.vercel.app")
	require.True(t, ok)
	assert.Equal(t, "vercel.app", key)
	assert.Equal(t, []string{"Next.js", "React", "JavaScript"}, stack)

	_, _, ok = c.HostingPlatform("janedoe.dev")
	assert.False(t, ok)
}

func TestCatalog_CertificationDomains(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{"AWS", "Cloud", "DevOps"}, c.CertificationDomains("AWS Certified Developer"))
	assert.Contains(t, c.CertificationDomains("Certified Kubernetes Administrator (CKA)"), "Kubernetes")
	assert.Empty(t, c.CertificationDomains("First Aid"))
}

func TestCatalog_RecommendCertification(t *testing.T) {
	c := Default()

	cert, ok := c.RecommendCertification("Kubernetes")
	require.True(t, ok)
	assert.Contains(t, cert, "Kubernetes")

	cert, ok = c.RecommendCertification("AWS Lambda")
	require.True(t, ok)
	assert.Contains(t, cert, "AWS")

	_, ok = c.RecommendCertification("Figma")
	assert.False(t, ok)
}

func TestCatalog_RoleSkills(t *testing.T) {
	c := Default()

	backend := c.RoleSkills("Backend Developer Intern")
	assert.Contains(t, backend, "SQL")

	assert.Empty(t, c.RoleSkills("Barista"))
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	doc := `{
		"framework_languages": {"phoenix": ["elixir"]},
		"tech_keywords": ["Elixir"],
		"hosting_platforms": {"fly.dev": ["Elixir"]},
		"certification_domains": {"elixir": ["Elixir"]},
		"certification_recommendations": {"elixir": "Elixir Certified"},
		"role_skills": {"backend": ["Elixir"]}
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"elixir"}, c.Graph().ImpliedLanguages("Phoenix"))
	assert.Empty(t, c.Graph().ImpliedLanguages("React"))
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tech_keywords": []}`), 0o600))

	_, err := Load(path)
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Graph().Len(), c.Graph().Len())
}
