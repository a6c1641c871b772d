// Package catalog holds the keyword tables behind the deterministic evidence
// heuristics: the framework/language graph, detectable technologies, hosting
// platforms, certification domains and role skills.
//
// A Catalog is loaded once at startup (embedded default or an override file)
// and is read-only afterwards.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jonathan/job-matcher/internal/schemas"
	"github.com/jonathan/job-matcher/internal/skills"
)

//go:embed default.json
var defaultCatalog []byte

// tables mirrors the catalog JSON document
type tables struct {
	FrameworkLanguages           map[string][]string `json:"framework_languages"`
	TechKeywords                 []string            `json:"tech_keywords"`
	HostingPlatforms             map[string][]string `json:"hosting_platforms"`
	CertificationDomains         map[string][]string `json:"certification_domains"`
	CertificationRecommendations map[string]string   `json:"certification_recommendations"`
	RoleSkills                   map[string][]string `json:"role_skills"`
}

// Catalog is an immutable set of keyword tables.
type Catalog struct {
	graph           *skills.RelationshipGraph
	techKeywords    []string
	platforms       []keyedList
	certDomains     []keyedList
	recommendations map[string]string
	roles           []keyedList
}

// keyedList is a folded lookup key with its values
type keyedList struct {
	key    string
	values []string
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog override file. An empty path returns the default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse validates a catalog document against its schema and builds a Catalog.
func Parse(data []byte) (*Catalog, error) {
	if err := schemas.Validate(schemas.Catalog, data); err != nil {
		return nil, err
	}

	var t tables
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	c := &Catalog{
		graph:           skills.NewRelationshipGraph(t.FrameworkLanguages),
		techKeywords:    append([]string(nil), t.TechKeywords...),
		platforms:       toKeyedLists(t.HostingPlatforms),
		certDomains:     toKeyedLists(t.CertificationDomains),
		recommendations: make(map[string]string, len(t.CertificationRecommendations)),
		roles:           toKeyedLists(t.RoleSkills),
	}
	for key, cert := range t.CertificationRecommendations {
		c.recommendations[skills.Fold(key)] = cert
	}
	return c, nil
}

// toKeyedLists folds keys and orders them longest first so that more specific
// keys ("github.io") win over shorter ones they contain.
func toKeyedLists(m map[string][]string) []keyedList {
	out := make([]keyedList, 0, len(m))
	for key, values := range m {
		out = append(out, keyedList{key: skills.Fold(key), values: append([]string(nil), values...)})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].key) != len(out[j].key) {
			return len(out[i].key) > len(out[j].key)
		}
		return out[i].key < out[j].key
	})
	return out
}

// Graph returns the framework/language relationship graph.
func (c *Catalog) Graph() *skills.RelationshipGraph {
	return c.graph
}

// TechKeywords returns the detectable technologies in catalog order.
func (c *Catalog) TechKeywords() []string {
	return append([]string(nil), c.techKeywords...)
}

// DetectTechnologies returns the known technologies mentioned in text, in catalog order.
func (c *Catalog) DetectTechnologies(text string) []string {
	folded := skills.Fold(text)
	var found []string
	for _, keyword := range c.techKeywords {
		if skills.ContainsWord(folded, skills.Fold(keyword)) {
			found = append(found, keyword)
		}
	}
	return found
}

// HostingPlatform identifies the hosting platform of a host name and the
// stack it suggests. The returned key is the matched domain fragment.
func (c *Catalog) HostingPlatform(host string) (string, []string, bool) {
	h := skills.Fold(host)
	if h == "" {
		return "", nil, false
	}
	for _, p := range c.platforms {
		if strings.Contains(h, p.key) {
			return p.key, append([]string(nil), p.values...), true
		}
	}
	return "", nil, false
}

// CertificationDomains returns the skill domains a certification name covers.
func (c *Catalog) CertificationDomains(name string) []string {
	return lookupAll(c.certDomains, skills.Fold(name))
}

// RecommendCertification suggests a certification for a missing job skill.
func (c *Catalog) RecommendCertification(skill string) (string, bool) {
	s := skills.Fold(skill)
	if cert, ok := c.recommendations[s]; ok {
		return cert, true
	}
	keys := make([]string, 0, len(c.recommendations))
	for key := range c.recommendations {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if skills.ContainsWord(s, key) {
			return c.recommendations[key], true
		}
	}
	return "", false
}

// RoleSkills returns the skills implied by role keywords found in text.
func (c *Catalog) RoleSkills(text string) []string {
	return lookupAll(c.roles, skills.Fold(text))
}

// lookupAll unions the values of every key that occurs as a word in text.
func lookupAll(lists []keyedList, text string) []string {
	if text == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, l := range lists {
		if !skills.ContainsWord(text, l.key) {
			continue
		}
		for _, v := range l.values {
			f := skills.Fold(v)
			if seen[f] {
				continue
			}
			seen[f] = true
			out = append(out, v)
		}
	}
	return out
}
