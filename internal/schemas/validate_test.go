package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemas_Compile(t *testing.T) {
	for _, name := range []string{JobSchema, CandidateSchema} {
		t.Run(name, func(t *testing.T) {
			data, err := schemaFiles.ReadFile(name)
			require.NoError(t, err)
			assert.True(t, json.Valid(data))

			_, err = load(name)
			assert.NoError(t, err)
		})
	}
}

func TestValidateJob(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{
			name: "valid",
			doc: `{"id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427", "title": "Data Engineer",
				"requirements": {"required_skills": ["Go"], "min_experience_years": 3, "education_level": "bachelor"}}`,
		},
		{
			name:      "missing title",
			doc:       `{"id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427", "requirements": {}}`,
			wantField: "(root)",
		},
		{
			name:      "negative experience",
			doc:       `{"id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427", "title": "x", "requirements": {"min_experience_years": -1}}`,
			wantField: "requirements.min_experience_years",
		},
		{
			name:      "bad id",
			doc:       `{"id": "job-1", "title": "x", "requirements": {}}`,
			wantField: "id",
		},
		{
			name:      "unknown requirement",
			doc:       `{"id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427", "title": "x", "requirements": {"salary": 1}}`,
			wantField: "requirements",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJob([]byte(tt.doc))
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, JobSchema, ve.Schema)
			fields := make([]string, 0, len(ve.Errors))
			for _, fe := range ve.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateCandidate(t *testing.T) {
	valid := `{"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "name": "Ada",
		"profile": {"skills": ["Go"], "experience_years": 4.5, "education": ["MSc"], "summary": "builder"}}`
	assert.NoError(t, ValidateCandidate([]byte(valid)))

	err := ValidateCandidate([]byte(`{"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "name": "Ada", "profile": {"skills": "Go"}}`))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "profile.skills")
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := ValidateCandidate([]byte("{ invalid json }"))
	var de *DocumentError
	assert.ErrorAs(t, err, &de)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "x"}`))

	err := ValidateJSONString(schema, `{"name": 1}`)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "name", ve.Errors[0].Field)

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var se *SchemaLoadError
	assert.ErrorAs(t, err, &se)
}
