package db

import (
	"strings"
	"testing"

	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ matching.Store = (*DB)(nil)

func TestSchema_EnforcesOneMatchPerPair(t *testing.T) {
	schema := Schema()

	assert.Contains(t, schema, "UNIQUE (student_id, job_id)")
	assert.Contains(t, schema, "match_score BETWEEN 1 AND 100")
	for _, table := range []string{"students", "certifications", "experiences", "jobs", "cvs", "job_matches"} {
		assert.True(t, strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
}

func TestEvidenceEncoding(t *testing.T) {
	e := &types.MatchEvidence{OverallMatch: "Good fit."}
	e.Set(types.FacetAnalysis{Facet: types.FacetGitHub, Source: types.SourceHeuristic, Narrative: "Two Go repos."})

	data, err := EncodeEvidence(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"githubAnalysis":"Two Go repos."`)
	assert.Contains(t, string(data), `"overallMatch":"Good fit."`)
	assert.NotContains(t, string(data), "portfolioAnalysis")

	decoded, err := DecodeEvidence(data)
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestEvidenceEncoding_Nil(t *testing.T) {
	data, err := EncodeEvidence(nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	decoded, err := DecodeEvidence(nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)

	_, err = DecodeEvidence([]byte("{broken"))
	assert.Error(t, err)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	require.NotNil(t, nullIfEmpty("x"))
	assert.Equal(t, "x", derefString(nullIfEmpty("x")))
	assert.Equal(t, "", derefString(nil))
}
