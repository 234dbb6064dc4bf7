package prompts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]string
		expected string
	}{
		{
			name:     "single placeholder",
			template: "Target Company: {company_name}",
			values:   map[string]string{"company_name": "Acme"},
			expected: "Target Company: Acme",
		},
		{
			name:     "repeated placeholder",
			template: "{applicant_name} applies; contact {applicant_name}",
			values:   map[string]string{"applicant_name": "A"},
			expected: "A applies; contact A",
		},
		{
			name:     "no placeholders",
			template: "static text",
			values:   nil,
			expected: "static text",
		},
		{
			name:     "placeholder-like text in value is not re-substituted",
			template: "Resume: {resume_content}",
			values:   map[string]string{"resume_content": "worked on {company_name} integrations"},
			expected: "Resume: worked on {company_name} integrations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.template, tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRender_MissingField(t *testing.T) {
	_, err := Render("Hello {applicant_name} at {company_name}", map[string]string{
		"applicant_name": "A",
	})
	require.Error(t, err)

	var fieldErr *TemplateFieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "company_name", fieldErr.Field)
}

func TestRender_BuiltinTemplatesRender(t *testing.T) {
	c := NewCatalog("", nil)
	values := map[string]string{
		"resume_content":       "resume text",
		"company_name":         "Acme",
		"company_description":  "We build widgets",
		"company_requirements": "2+ years Python",
		"applicant_name":       "A",
		"custom_template":      "Dear {company},",
	}

	for mode, byLang := range c.builtin {
		for lang, ps := range byLang {
			_, err := Render(ps.LetterTemplate, values)
			assert.NoError(t, err, "letter template %s/%s", mode, lang)
			_, err = Render(ps.SubjectTemplate, values)
			assert.NoError(t, err, "subject template %s/%s", mode, lang)
		}
	}
}
