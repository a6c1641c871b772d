package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testReport() Report {
	known := types.Job{ID: uuid.New(), Title: "Go Developer", Company: "Acme"}
	evidence := &types.MatchEvidence{OverallMatch: "Strong fit."}
	evidence.Set(types.FacetAnalysis{Facet: types.FacetGitHub, Source: types.SourceAI, Narrative: "Two Go services."})

	return Report{
		StudentName: "Jane",
		Jobs:        map[uuid.UUID]types.Job{known.ID: known},
		Matches: []types.JobMatch{
			{ID: uuid.New(), JobID: known.ID, MatchScore: 92, MatchDetails: "Skill match 100%",
				DetailedAnalysis: evidence, MatchedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), Viewed: true},
			{ID: uuid.New(), JobID: uuid.Nil, MatchScore: 12, MatchDetails: "Skill match 0%"},
		},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{MatchesSheet, AnalysisSheet}, f.GetSheetList())

	rows, err := f.GetRows(MatchesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, matchHeaders, rows[0])
	assert.Equal(t, []string{"1", "Go Developer", "Acme", "92", "2026-03-01 09:30", "yes", "Skill match 100%"}, rows[1])
	assert.Equal(t, uuid.Nil.String(), rows[2][1])
	assert.Equal(t, "no", rows[2][5])

	analysis, err := f.GetRows(AnalysisSheet)
	require.NoError(t, err)
	require.Len(t, analysis, 3)
	assert.Equal(t, []string{"Go Developer", "overall", "", "Strong fit."}, analysis[1])
	assert.Equal(t, []string{"Go Developer", "github", "ai", "Two Go services."}, analysis[2])
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Report{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(MatchesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSaveFile(t *testing.T) {
	path, err := SaveFile(filepath.Join(t.TempDir(), "matches"), testReport())
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	value, err := f.GetCellValue(MatchesSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", value)
}

func TestBand(t *testing.T) {
	assert.Equal(t, bandStrong, band(95))
	assert.Equal(t, bandGood, band(70))
	assert.Equal(t, bandFair, band(50))
	assert.Equal(t, bandWeak, band(1))
}
