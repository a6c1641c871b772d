package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CompositeScore(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "score and rationale", doc: `{"score": 82, "rationale": "strong backend fit"}`},
		{name: "fractional score", doc: `{"score": 72.5}`},
		{name: "missing score", doc: `{"rationale": "no number"}`, wantErr: true},
		{name: "score as string", doc: `{"score": "82"}`, wantErr: true},
		{name: "not an object", doc: `[82]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(CompositeScore, []byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidate_EvidenceAnalysis(t *testing.T) {
	assert.NoError(t, Validate(EvidenceAnalysis, []byte(`{"narrative": "Uses Go daily", "match_percentage": 40}`)))
	assert.Error(t, Validate(EvidenceAnalysis, []byte(`{"narrative": ""}`)))
	assert.Error(t, Validate(EvidenceAnalysis, []byte(`{"narrative": "ok", "match_percentage": 140}`)))
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(CompositeScore, []byte(`{"score": 8`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "missing.schema.json")
}

func TestValidate_CatalogRequiresTables(t *testing.T) {
	err := Validate(Catalog, []byte(`{"tech_keywords": ["go"]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "framework_languages")
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "score", Message: "is required"},
			{Field: "rationale", Message: "must be a string"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "score")
	assert.Contains(t, errorMsg, "rationale")
}
