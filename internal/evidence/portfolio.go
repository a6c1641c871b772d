package evidence

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
)

// AnalyzePortfolio assesses the student's portfolio URL. The site is never
// fetched, so the result is inferred from the URL and profile alone.
func (a *Analyzer) AnalyzePortfolio(ctx context.Context, p *types.StudentSkillProfile, j *types.JobRequirement) types.FacetAnalysis {
	if strings.TrimSpace(p.PortfolioURL) == "" {
		return notProvided(types.FacetPortfolio, "Portfolio")
	}
	data := baseData(p, j)
	data["PortfolioURL"] = p.PortfolioURL
	data["Bio"] = p.Bio

	return a.run(ctx, types.FacetPortfolio, promptPortfolio, data, func() types.FacetAnalysis {
		return a.portfolioHeuristic(p, j)
	}, PortfolioCap)
}

func (a *Analyzer) portfolioHeuristic(p *types.StudentSkillProfile, j *types.JobRequirement) types.FacetAnalysis {
	host := ""
	if u, err := url.Parse(withScheme(strings.TrimSpace(p.PortfolioURL))); err == nil {
		host = u.Hostname()
	}

	hostWords := strings.NewReplacer(".", " ", "-", " ").Replace(host)
	inferred := a.catalog.DetectTechnologies(hostWords + " " + urlWords(p.PortfolioURL))

	var b strings.Builder
	platform, stack, ok := a.catalog.HostingPlatform(host)
	if ok {
		inferred = unionFold(stack, inferred...)
		fmt.Fprintf(&b, "Portfolio hosted on %s, which suggests %s.", platform, joinOrNone(stack))
	} else if host != "" {
		fmt.Fprintf(&b, "Portfolio hosted at %s on a custom domain; the host gives no stack signal.", host)
	} else {
		b.WriteString("Portfolio URL could not be parsed.")
	}

	pct, matches := a.scorer.Coverage(inferred, j.Skills)
	covered, _ := coverageSentence(matches)
	if len(j.Skills) > 0 {
		fmt.Fprintf(&b, " Required skills it may demonstrate: %s.", joinOrNone(covered))
	}
	b.WriteString(" Inferred from the URL only; the site content was not inspected.")

	return types.FacetAnalysis{
		Facet:           types.FacetPortfolio,
		Source:          types.SourceHeuristic,
		Narrative:       types.BoundNarrative(b.String()),
		MatchPercentage: clampPct(pct, PortfolioCap),
	}
}
