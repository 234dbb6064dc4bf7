// Package extract pulls plain text out of résumé documents.
// Library used: github.com/ledongthuc/pdf.
package extract

import (
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor reads PDF résumés from the filesystem.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger falls back to slog.Default.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Text extracts the plain text of every page in order, joined by newlines.
// An unreadable file or a document with no extractable text yields "" with a
// logged warning; absence of text is the error signal callers must check.
func (e *Extractor) Text(path string) (out string) {
	// The pdf package panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("pdf extraction panicked", "path", path, "cause", r)
			out = ""
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		e.logger.Warn("failed to open pdf", "path", path, "error", err)
		return ""
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("failed to extract page text", "path", path, "page", i, "error", err)
			continue
		}
		pages = append(pages, text)
	}

	joined := strings.Join(pages, "\n")
	if strings.TrimSpace(joined) == "" {
		e.logger.Warn("no extractable text in document", "path", path)
		return ""
	}
	return joined
}
