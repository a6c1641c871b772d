package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSkillList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "empty", raw: "", expected: []string{}},
		{name: "whitespace only", raw: "   ", expected: []string{}},
		{name: "json array", raw: `["Java", "Go"]`, expected: []string{"Java", "Go"}},
		{name: "comma separated", raw: "Java, Go", expected: []string{"Java", "Go"}},
		{name: "case preserved", raw: "java,GO", expected: []string{"java", "GO"}},
		{name: "empty tokens dropped", raw: "Java,, ,Go,", expected: []string{"Java", "Go"}},
		{name: "empty array", raw: "[]", expected: []string{}},
		{name: "single quotes", raw: `['Python', 'SQL']`, expected: []string{"Python", "SQL"}},
		{name: "missing closing bracket", raw: `["Java", "Go"`, expected: []string{"Java", "Go"}},
		{name: "unbalanced quote", raw: `["Java", "Go]`, expected: []string{"Java", "Go"}},
		{name: "trailing garbage after array", raw: `["React"] extra`, expected: []string{"React"}},
		{name: "unquoted array", raw: `[Docker, Kubernetes]`, expected: []string{"Docker", "Kubernetes"}},
		{name: "single skill", raw: "Rust", expected: []string{"Rust"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSkillList(tt.raw))
		})
	}
}

func TestParseSkillList_NeverNil(t *testing.T) {
	assert.NotNil(t, ParseSkillList(""))
	assert.NotNil(t, ParseSkillList("[,,]"))
}
