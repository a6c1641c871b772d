// Package observability provides formatted console output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMatches outputs a ranked table of matches. jobs resolves titles and
// may be nil.
func (p *Printer) PrintMatches(title string, matches []types.JobMatch, jobs map[uuid.UUID]types.Job) {
	if len(matches) == 0 {
		p.printBox(title, "No matches.")
		return
	}

	var sb strings.Builder
	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := matches[i]
		flag := " "
		if !m.Viewed {
			flag = "*"
		}
		sb.WriteString(fmt.Sprintf("%s#%-3d %6.2f  %s\n", flag, i+1, m.MatchScore, jobLabel(m.JobID, jobs)))
	}
	if len(matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(matches)-maxItemsToShow))
	}
	sb.WriteString("\n* not yet viewed")

	p.printBox(title, sb.String())
}

// PrintMatch outputs one match with its facet narratives.
func (p *Printer) PrintMatch(m *types.JobMatch, job *types.Job) {
	if m == nil {
		return
	}

	var sb strings.Builder
	jobs := map[uuid.UUID]types.Job{}
	if job != nil {
		jobs[job.ID] = *job
	}
	sb.WriteString(fmt.Sprintf("Job:      %s\n", jobLabel(m.JobID, jobs)))
	sb.WriteString(fmt.Sprintf("Score:    %.2f\n", m.MatchScore))
	sb.WriteString(fmt.Sprintf("Matched:  %s\n", m.MatchedAt.UTC().Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Details:  %s\n", m.MatchDetails))

	if ev := m.DetailedAnalysis; ev != nil {
		if ev.OverallMatch != "" {
			sb.WriteString(fmt.Sprintf("\nOverall: %s\n", ev.OverallMatch))
		}
		for _, f := range types.Facets {
			sb.WriteString(fmt.Sprintf("\n%s [%s]\n  %s\n", f, ev.Sources[f], ev.Narrative(f)))
		}
	}

	p.printBox("MATCH "+m.ID.String(), strings.TrimSuffix(sb.String(), "\n"))
}

// BatchLine is one row of a batch summary.
type BatchLine struct {
	Label string
	Value int
}

// PrintSummary outputs labelled counters, e.g. a batch run summary.
func (p *Printer) PrintSummary(title string, lines []BatchLine) {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(fmt.Sprintf("%-10s %d\n", l.Label+":", l.Value))
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

func jobLabel(id uuid.UUID, jobs map[uuid.UUID]types.Job) string {
	j, ok := jobs[id]
	if !ok {
		return id.String()
	}
	if j.Company == "" {
		return j.Title
	}
	return j.Title + " @ " + j.Company
}

// truncate shortens s to limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
