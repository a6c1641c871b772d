package skills

import (
	"sort"
	"strings"
)

// RelationshipGraph maps framework tokens to the languages they imply
// (react → javascript, typescript). It is built once and read-only afterwards,
// so a single instance can be shared across goroutines.
type RelationshipGraph struct {
	frameworks []string // folded, sorted for deterministic lookups
	languages  map[string][]string
}

// NewRelationshipGraph builds a graph from framework → languages entries.
// Keys and values are folded; the input map is not retained.
func NewRelationshipGraph(entries map[string][]string) *RelationshipGraph {
	g := &RelationshipGraph{languages: make(map[string][]string, len(entries))}
	for framework, langs := range entries {
		key := Fold(framework)
		if key == "" {
			continue
		}
		seen := make(map[string]bool, len(langs))
		for _, lang := range g.languages[key] {
			seen[lang] = true
		}
		for _, lang := range langs {
			l := Fold(lang)
			if l == "" || seen[l] {
				continue
			}
			seen[l] = true
			g.languages[key] = append(g.languages[key], l)
		}
		if len(g.languages[key]) == 0 {
			delete(g.languages, key)
		}
	}
	for key := range g.languages {
		g.frameworks = append(g.frameworks, key)
	}
	sort.Strings(g.frameworks)
	return g
}

// Len returns the number of framework entries.
func (g *RelationshipGraph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.frameworks)
}

// ImpliedLanguages returns the languages implied by a token. A framework key
// matches when either string contains the other as a whole word, so
// "Spring Boot" hits "spring" and "node" hits "node.js", but "go" does not
// hit "django".
func (g *RelationshipGraph) ImpliedLanguages(token string) []string {
	if g == nil {
		return nil
	}
	t := Fold(token)
	if t == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, framework := range g.frameworks {
		if !ContainsWord(t, framework) && !ContainsWord(framework, t) {
			continue
		}
		for _, lang := range g.languages[framework] {
			if !seen[lang] {
				seen[lang] = true
				out = append(out, lang)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Connects reports whether a and b are linked through the graph in either
// direction: a is a framework implying language b, or b a framework implying a.
func (g *RelationshipGraph) Connects(a, b string) bool {
	return g.implies(a, b) || g.implies(b, a)
}

func (g *RelationshipGraph) implies(framework, language string) bool {
	lang := Fold(language)
	if lang == "" {
		return false
	}
	for _, implied := range g.ImpliedLanguages(framework) {
		if implied == lang || ContainsWord(lang, implied) {
			return true
		}
	}
	return false
}

// Entries returns a copy of the graph as framework → languages.
func (g *RelationshipGraph) Entries() map[string][]string {
	out := make(map[string][]string, g.Len())
	if g == nil {
		return out
	}
	for key, langs := range g.languages {
		out[key] = append([]string(nil), langs...)
	}
	return out
}

// String renders the graph compactly for logs.
func (g *RelationshipGraph) String() string {
	if g == nil {
		return ""
	}
	var sb strings.Builder
	for i, framework := range g.frameworks {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(framework)
		sb.WriteString("→")
		sb.WriteString(strings.Join(g.languages[framework], ","))
	}
	return sb.String()
}
