// Package export writes a student's job matches to an Excel workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/types"
	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	MatchesSheet  = "Matches"
	AnalysisSheet = "Analysis"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var matchHeaders = []string{"Rank", "Job", "Company", "Score", "Matched At", "Viewed", "Details"}
var analysisHeaders = []string{"Job", "Facet", "Source", "Narrative"}

// Report is the data exported for one student.
type Report struct {
	StudentName string
	Matches     []types.JobMatch
	// Jobs resolves job ids to titles; unknown ids are shown as the raw id.
	Jobs map[uuid.UUID]types.Job
}

// Write renders the report as XLSX into w.
func Write(w io.Writer, r Report) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveFile renders the report to path, appending .xlsx when missing.
func SaveFile(path string, r Report) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(out, r); err != nil {
		_ = out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

func build(r Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", MatchesSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(AnalysisSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create analysis sheet: %w", err)
	}

	if err := writeMatches(f, r); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create matches sheet: %w", err)
	}
	if err := writeAnalysis(f, r); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create analysis sheet: %w", err)
	}
	if r.StudentName != "" {
		_ = f.SetDocProps(&excelize.DocProperties{Title: "Job matches for " + r.StudentName})
	}
	return f, nil
}

func writeMatches(f *excelize.File, r Report) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	bands, err := bandStyles(f)
	if err != nil {
		return err
	}
	if err := writeHeader(f, MatchesSheet, matchHeaders, header); err != nil {
		return err
	}

	for i, m := range r.Matches {
		row := i + 2
		job := r.jobFor(m.JobID)
		values := []any{i + 1, job.Title, job.Company, m.MatchScore,
			m.MatchedAt.UTC().Format("2006-01-02 15:04"), yesNo(m.Viewed), m.MatchDetails}
		if err := setRow(f, MatchesSheet, row, values); err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(values), row)
		if err := f.SetCellStyle(MatchesSheet, fmt.Sprintf("A%d", row), last, bands[band(m.MatchScore)]); err != nil {
			return err
		}
	}

	for col, width := range map[string]float64{"A": 6, "B": 30, "C": 20, "D": 8, "E": 17, "F": 8, "G": 80} {
		if err := f.SetColWidth(MatchesSheet, col, col, width); err != nil {
			return err
		}
	}
	if len(r.Matches) > 0 {
		if err := f.AutoFilter(MatchesSheet, fmt.Sprintf("A1:G%d", len(r.Matches)+1), nil); err != nil {
			return err
		}
	}
	return freezeHeader(f, MatchesSheet)
}

func writeAnalysis(f *excelize.File, r Report) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}
	if err := writeHeader(f, AnalysisSheet, analysisHeaders, header); err != nil {
		return err
	}

	row := 2
	for _, m := range r.Matches {
		e := m.DetailedAnalysis
		if e == nil {
			continue
		}
		title := r.jobFor(m.JobID).Title
		entries := []analysisRow{{facet: "overall", narrative: e.OverallMatch}}
		for _, facet := range types.Facets {
			entries = append(entries, analysisRow{string(facet), e.Sources[facet], e.Narrative(facet)})
		}
		for _, entry := range entries {
			if entry.narrative == "" {
				continue
			}
			if err := setRow(f, AnalysisSheet, row, []any{title, entry.facet, string(entry.source), entry.narrative}); err != nil {
				return err
			}
			if err := f.SetCellStyle(AnalysisSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), wrap); err != nil {
				return err
			}
			row++
		}
	}

	for col, width := range map[string]float64{"A": 30, "B": 16, "C": 12, "D": 100} {
		if err := f.SetColWidth(AnalysisSheet, col, col, width); err != nil {
			return err
		}
	}
	return freezeHeader(f, AnalysisSheet)
}

type analysisRow struct {
	facet     string
	source    types.EvidenceSource
	narrative string
}

func (r Report) jobFor(id uuid.UUID) types.Job {
	if j, ok := r.Jobs[id]; ok {
		return j
	}
	return types.Job{ID: id, Title: id.String()}
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := setRow(f, sheet, 1, values); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func freezeHeader(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

// Score bands, best first
const (
	bandStrong = iota
	bandGood
	bandFair
	bandWeak
)

func band(score float64) int {
	switch {
	case score >= 90:
		return bandStrong
	case score >= 70:
		return bandGood
	case score >= 50:
		return bandFair
	}
	return bandWeak
}

func bandStyles(f *excelize.File) ([]int, error) {
	colors := []string{"C6EFCE", "FFEB9C", "FFC7CE", "FF9999"}
	styles := make([]int, len(colors))
	for i, color := range colors {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Vertical: "top"},
		})
		if err != nil {
			return nil, err
		}
		styles[i] = id
	}
	return styles, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
