// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/coverletter-agent/internal/llm"
	"github.com/jonathan/coverletter-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate bounds a line by rune count so CJK content is never cut
// mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// PrintBackendState outputs which model backend serves this run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintBackendState(state llm.State) {
	label := map[llm.State]string{
		llm.StateRemote: "✅ REMOTE BACKEND SELECTED",
		llm.StateLocal:  "✅ LOCAL BACKEND SELECTED",
		llm.StateFailed: "⚠ NO BACKEND AVAILABLE",
	}[state]
	if label == "" {
		label = "BACKEND NOT INITIALIZED"
	}

	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, label)
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

// PrintGenerationResult outputs a human-readable summary of one generation.
func (p *Printer) PrintGenerationResult(organization string, result *types.GenerationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Organization: %s\n", organization))
	sb.WriteString(fmt.Sprintf("Subject:      %s\n", result.Subject))
	if result.Cached {
		sb.WriteString("Source:       cache\n")
	} else {
		sb.WriteString("Source:       generated\n")
	}
	sb.WriteString("\n")

	if result.Letter == nil {
		sb.WriteString("(no letter produced)")
	} else {
		lines := strings.Split(*result.Letter, "\n")
		count := min(len(lines), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(lines[i])
			sb.WriteString("\n")
		}
		if len(lines) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more lines", len(lines)-maxItemsToShow))
		}
	}

	p.printBox("COVER LETTER", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCacheList outputs the cached letters for one applicant, sorted by
// organization name.
func (p *Printer) PrintCacheList(applicant string, records map[string]types.CacheRecord) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Applicant: %s\n", applicant))
	sb.WriteString(fmt.Sprintf("Cached letters: %d\n", len(records)))

	if len(records) > 0 {
		sb.WriteString("\n")
		names := make([]string, 0, len(records))
		for name := range records {
			names = append(names, name)
		}
		sort.Strings(names)

		for i, name := range names {
			record := records[name]
			sb.WriteString(fmt.Sprintf("• %s\n", name))
			sb.WriteString(fmt.Sprintf("  %s | %s | %s\n",
				record.Mode, record.Language, record.GeneratedAt.Format("2006-01-02")))
			if i < len(names)-1 {
				sb.WriteString("\n")
			}
		}
	}

	p.printBox("COVER LETTER CACHE", strings.TrimSuffix(sb.String(), "\n"))
}
