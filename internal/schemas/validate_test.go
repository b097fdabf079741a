package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CareerReport(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{
			name: "valid report",
			document: `{
				"success": true,
				"jobs_found_count": 2,
				"user_summary": {"candidate_summary": "Strong in Go", "leetcode_level": "Intermediate"},
				"analysis": {"job_analyses": [
					{"role": "SDE", "company": "Acme", "match_percentage": "82%", "missing_skills": ["Kafka"]},
					{"role": "SRE", "company": "Beta", "match_percentage": 40}
				]}
			}`,
		},
		{
			name:     "failure envelope",
			document: `{"success": false, "error": "quota exceeded"}`,
		},
		{
			name:      "missing success",
			document:  `{"analysis": {}}`,
			wantError: true,
		},
		{
			name:      "missing skills not strings",
			document:  `{"success": true, "analysis": {"job_analyses": [{"missing_skills": [1, 2]}]}}`,
			wantError: true,
		},
		{
			name:      "negative job count",
			document:  `{"success": true, "jobs_found_count": -1}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(CareerReport, []byte(tt.document))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "got %T: %v", err, err)
			assert.Equal(t, CareerReport, validationErr.Schema)
			assert.Greater(t, len(validationErr.Errors), 0)
		})
	}
}

func TestValidate_CompanyAnalysis(t *testing.T) {
	err := Validate(CompanyAnalysis, []byte(`{"match_percentage": "64%", "advice": "Practice DP", "roadmap": [{"step": "Week 1", "action": "Arrays"}]}`))
	assert.NoError(t, err)

	err = Validate(CompanyAnalysis, []byte(`{"roadmap": [{"step": "Week 1"}]}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Error(), "company_analysis validation failed")
}

func TestValidate_Companies(t *testing.T) {
	assert.NoError(t, Validate(Companies, []byte(`[{"company": "Acme", "role": "SDE", "skills": ["Go", "SQL"]}]`)))
	assert.NoError(t, Validate(Companies, []byte(`[]`)))

	err := Validate(Companies, []byte(`[{"role": "SDE"}]`))
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate(Name("nope"), []byte(`{}`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(CareerReport, []byte(`{ invalid json }`))
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidate_EmbeddedSchemasCompile(t *testing.T) {
	for _, name := range []Name{CareerReport, CompanyAnalysis, Companies} {
		_, err := load(name)
		assert.NoError(t, err, "schema %s", name)
	}
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
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}
