// Package sanitize provides deterministic post-processing for model output.
// Both cleaners are pure and idempotent.
package sanitize

import (
	"regexp"
	"strings"
)

// DefaultSubject is substituted when a subject line is empty after cleaning.
const DefaultSubject = "Internship Application"

// maxSubjectLen bounds the visible length of an email subject line.
const maxSubjectLen = 50

var (
	subjectLinePattern   = regexp.MustCompile(`(?i)^subject\s*:`)
	zhSubjectPattern     = regexp.MustCompile(`^主题\s*:`)
	zhMailSubjectLine    = regexp.MustCompile(`^邮件主题\s*:`)
	surroundingQuotes    = regexp.MustCompile(`^["']|["']$`)
	subjectLabelPrefix   = regexp.MustCompile(`(?i)^subject\s*:\s*`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
	subjectCharBlocklist = regexp.MustCompile(`[^\w\s\-()（）\x{4e00}-\x{9fff}]`)
)

// CleanLetter strips stray subject lines and blank-line runs from a generated
// cover-letter body. Lines whose trimmed prefix looks like "Subject:",
// "主题:" or "邮件主题:" are dropped, blank lines are dropped once content
// has started, and leading/trailing blank runs are trimmed.
func CleanLetter(raw string) string {
	if raw == "" {
		return raw
	}

	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if subjectLinePattern.MatchString(trimmed) ||
			zhSubjectPattern.MatchString(trimmed) ||
			zhMailSubjectLine.MatchString(trimmed) {
			continue
		}
		if trimmed == "" && len(cleaned) > 0 {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// CleanSubject normalizes a generated subject line: it strips surrounding
// quotes and a leading subject label, collapses whitespace runs, truncates to
// 50 characters, and removes characters outside the subject whitelist (word
// characters, whitespace, hyphens, ASCII and full-width parentheses, CJK
// ideographs). An empty result becomes DefaultSubject. The returned string
// is never longer than 50 runes.
func CleanSubject(raw string) string {
	if raw == "" {
		return DefaultSubject
	}

	subject := strings.TrimSpace(raw)
	subject = surroundingQuotes.ReplaceAllString(subject, "")
	subject = subjectLabelPrefix.ReplaceAllString(subject, "")
	subject = whitespaceRun.ReplaceAllString(subject, " ")

	if runes := []rune(subject); len(runes) > maxSubjectLen {
		subject = string(runes[:maxSubjectLen-3]) + "..."
	}

	subject = subjectCharBlocklist.ReplaceAllString(subject, "")
	subject = strings.TrimSpace(subject)

	if subject == "" {
		return DefaultSubject
	}
	return subject
}
