package evidence

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
)

// maxRecommendations bounds the certifications suggested for missing skills.
const maxRecommendations = 3

// AnalyzeCertifications assesses which required skills the student's
// certifications cover and recommends certifications for the gaps.
// Expired certifications are listed but do not count as evidence.
func (a *Analyzer) AnalyzeCertifications(ctx context.Context, p *types.StudentSkillProfile, j *types.JobRequirement) types.FacetAnalysis {
	if len(p.Certifications) == 0 {
		return notProvided(types.FacetCertifications, "Certifications")
	}
	data := baseData(p, j)
	data["Certifications"] = a.certificationLines(p.Certifications)

	return a.run(ctx, types.FacetCertifications, promptCertifications, data, func() types.FacetAnalysis {
		return a.certificationsHeuristic(p, j)
	}, 100)
}

func (a *Analyzer) certificationsHeuristic(p *types.StudentSkillProfile, j *types.JobRequirement) types.FacetAnalysis {
	var evidence, valid, expired []string
	for _, c := range p.Certifications {
		if a.expired(c) {
			expired = append(expired, c.Name)
			continue
		}
		valid = append(valid, c.Name)
		evidence = unionFold(evidence, a.catalog.CertificationDomains(c.Name+" "+c.Issuer)...)
	}
	evidence = unionFold(evidence, valid...)

	pct, matches := a.scorer.Coverage(evidence, j.Skills)
	covered, missing := coverageSentence(matches)

	var b strings.Builder
	fmt.Fprintf(&b, "%d certification(s): %s.", len(p.Certifications), joinOrNone(valid))
	if len(expired) > 0 {
		fmt.Fprintf(&b, " Expired and not counted: %s.", strings.Join(expired, ", "))
	}
	if len(j.Skills) > 0 {
		fmt.Fprintf(&b, " Required skills covered: %s. Not covered: %s.", joinOrNone(covered), joinOrNone(missing))
	}
	if recs := a.recommendations(missing); len(recs) > 0 {
		fmt.Fprintf(&b, " Recommended: %s.", strings.Join(recs, "; "))
	}

	return types.FacetAnalysis{
		Facet:           types.FacetCertifications,
		Source:          types.SourceHeuristic,
		Narrative:       types.BoundNarrative(b.String()),
		MatchPercentage: clampPct(pct, 100),
	}
}

func (a *Analyzer) recommendations(missing []string) []string {
	var recs []string
	seen := make(map[string]bool)
	for _, skill := range missing {
		cert, ok := a.catalog.RecommendCertification(skill)
		if !ok || seen[cert] {
			continue
		}
		seen[cert] = true
		recs = append(recs, cert)
		if len(recs) == maxRecommendations {
			break
		}
	}
	return recs
}

func (a *Analyzer) expired(c types.Certification) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(a.now())
}

func (a *Analyzer) certificationLines(certs []types.Certification) string {
	lines := make([]string, 0, len(certs))
	for _, c := range certs {
		line := "- " + c.Name
		if c.Issuer != "" {
			line += " (" + c.Issuer + ")"
		}
		if c.IssueDate != nil {
			line += ", issued " + c.IssueDate.Format("2006-01")
		}
		if a.expired(c) {
			line += ", expired"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
