package prompts

import (
	"fmt"
	"regexp"
)

// placeholderPattern matches named template placeholders like {resume_content}.
var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// TemplateFieldError reports a template placeholder with no supplied value.
type TemplateFieldError struct {
	Field string
}

func (e *TemplateFieldError) Error() string {
	return fmt.Sprintf("template references field %q with no supplied value", e.Field)
}

// Render substitutes named placeholders in template with the supplied values.
// Every placeholder is replaced in a single pass, so placeholder-like text
// inside a value is never re-substituted. A placeholder without a value
// yields a TemplateFieldError.
func Render(template string, values map[string]string) (string, error) {
	var missing string
	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		value, ok := values[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return match
		}
		return value
	})
	if missing != "" {
		return "", &TemplateFieldError{Field: missing}
	}
	return out, nil
}
