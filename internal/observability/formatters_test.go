package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/coverletter-agent/internal/language"
	"github.com/jonathan/coverletter-agent/internal/llm"
	"github.com/jonathan/coverletter-agent/internal/types"
)

func TestPrintGenerationResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	letter := "Dear Hiring Manager,\nI am writing to apply.\nRegards, Ada"
	p.PrintGenerationResult("Acme Corp", &types.GenerationResult{
		Letter:  &letter,
		Subject: "Internship Application - Acme Corp",
	})
	output := buf.String()

	assert.Contains(t, output, "COVER LETTER")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "Internship Application - Acme Corp")
	assert.Contains(t, output, "generated")
	assert.Contains(t, output, "Dear Hiring Manager,")
}

func TestPrintGenerationResult_Cached(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	letter := "Dear Team,"
	p.PrintGenerationResult("Acme Corp", &types.GenerationResult{
		Letter:  &letter,
		Subject: "Internship Application",
		Cached:  true,
	})

	assert.Contains(t, buf.String(), "cache")
}

func TestPrintGenerationResult_NoLetter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintGenerationResult("Acme Corp", &types.GenerationResult{
		Subject: "Internship Application – Acme Corp",
	})

	assert.Contains(t, buf.String(), "no letter produced")
}

func TestPrintGenerationResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintGenerationResult("Acme Corp", nil)

	assert.Empty(t, buf.String())
}

func TestPrintGenerationResult_LongLetterTruncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	letter := strings.Repeat("line\n", 12)
	p.PrintGenerationResult("Acme Corp", &types.GenerationResult{
		Letter:  &letter,
		Subject: "s",
	})

	assert.Contains(t, buf.String(), "more lines")
}

func TestPrintBackendState(t *testing.T) {
	tests := []struct {
		state    llm.State
		expected string
	}{
		{llm.StateRemote, "REMOTE BACKEND SELECTED"},
		{llm.StateLocal, "LOCAL BACKEND SELECTED"},
		{llm.StateFailed, "NO BACKEND AVAILABLE"},
		{llm.StateUninitialized, "BACKEND NOT INITIALIZED"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		NewPrinter(&buf).PrintBackendState(tt.state)
		assert.Contains(t, buf.String(), tt.expected)
	}
}

func TestPrintCacheList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	records := map[string]types.CacheRecord{
		"Beta Labs": {
			CompanyName: "Beta Labs",
			Mode:        types.ModeEnthusiastic,
			Language:    language.English,
			GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		"Acme Corp": {
			CompanyName: "Acme Corp",
			Mode:        types.ModeProfessional,
			Language:    language.English,
			GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	p.PrintCacheList("Ada", records)
	output := buf.String()

	assert.Contains(t, output, "COVER LETTER CACHE")
	assert.Contains(t, output, "Ada")
	assert.Contains(t, output, "Cached letters: 2")
	// Sorted by organization name.
	assert.Less(t, strings.Index(output, "Acme Corp"), strings.Index(output, "Beta Labs"))
}

func TestPrintCacheList_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCacheList("Ada", nil)

	assert.Contains(t, buf.String(), "Cached letters: 0")
}

func TestTruncate_CJKSafe(t *testing.T) {
	got := truncate(strings.Repeat("求", 80), 20)
	assert.Equal(t, strings.Repeat("求", 17)+"...", got)
}
