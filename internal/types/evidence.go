package types

// MaxNarrativeLength bounds every stored narrative, matchDetails included.
const MaxNarrativeLength = 2000

// ellipsis marks a narrative cut at MaxNarrativeLength.
const ellipsis = "..."

// NotProvided is the placeholder narrative for a facet the student left empty.
const NotProvided = "not provided"

// Facet names one category of supporting evidence.
type Facet string

// Evidence facets
const (
	FacetGitHub         Facet = "github"
	FacetPortfolio      Facet = "portfolio"
	FacetCertifications Facet = "certifications"
	FacetExperience     Facet = "experience"
)

// Facets lists the evidence facets in analysis order.
var Facets = []Facet{FacetGitHub, FacetPortfolio, FacetCertifications, FacetExperience}

// EvidenceSource records which path produced a facet analysis.
type EvidenceSource string

// Evidence sources
const (
	SourceAI          EvidenceSource = "ai"
	SourceHeuristic   EvidenceSource = "heuristic"
	SourceNotProvided EvidenceSource = "not_provided"
)

// FacetAnalysis is the tagged result of analyzing one evidence facet.
type FacetAnalysis struct {
	Facet           Facet          `json:"facet"`
	Source          EvidenceSource `json:"source"`
	Narrative       string         `json:"narrative"`
	MatchPercentage float64        `json:"match_percentage"`
}

// MatchEvidence is the serialized detailedAnalysis of a JobMatch.
type MatchEvidence struct {
	OverallMatch           string                   `json:"overallMatch,omitempty"`
	GitHubAnalysis         string                   `json:"githubAnalysis,omitempty"`
	PortfolioAnalysis      string                   `json:"portfolioAnalysis,omitempty"`
	CertificationsAnalysis string                   `json:"certificationsAnalysis,omitempty"`
	ExperiencesAnalysis    string                   `json:"experiencesAnalysis,omitempty"`
	Sources                map[Facet]EvidenceSource `json:"sources,omitempty"`
}

// Set stores a facet analysis under its keyed narrative.
func (e *MatchEvidence) Set(a FacetAnalysis) {
	narrative := BoundNarrative(a.Narrative)
	switch a.Facet {
	case FacetGitHub:
		e.GitHubAnalysis = narrative
	case FacetPortfolio:
		e.PortfolioAnalysis = narrative
	case FacetCertifications:
		e.CertificationsAnalysis = narrative
	case FacetExperience:
		e.ExperiencesAnalysis = narrative
	default:
		return
	}
	if e.Sources == nil {
		e.Sources = make(map[Facet]EvidenceSource)
	}
	e.Sources[a.Facet] = a.Source
}

// Narrative returns the stored narrative for a facet.
func (e *MatchEvidence) Narrative(f Facet) string {
	switch f {
	case FacetGitHub:
		return e.GitHubAnalysis
	case FacetPortfolio:
		return e.PortfolioAnalysis
	case FacetCertifications:
		return e.CertificationsAnalysis
	case FacetExperience:
		return e.ExperiencesAnalysis
	}
	return ""
}

// BoundNarrative cuts s to MaxNarrativeLength runes, ending in a visible
// ellipsis when anything was removed.
func BoundNarrative(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxNarrativeLength {
		return s
	}
	return string(runes[:MaxNarrativeLength-len(ellipsis)]) + ellipsis
}
