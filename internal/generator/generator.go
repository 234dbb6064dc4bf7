// Package generator orchestrates cover-letter and subject generation:
// cache lookup, résumé extraction, prompt construction, the model backend
// call, sanitization, and the cache write-back.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/coverletter-agent/internal/cache"
	"github.com/jonathan/coverletter-agent/internal/language"
	"github.com/jonathan/coverletter-agent/internal/llm"
	"github.com/jonathan/coverletter-agent/internal/prompts"
	"github.com/jonathan/coverletter-agent/internal/sanitize"
	"github.com/jonathan/coverletter-agent/internal/types"
)

// Token budgets for the two backend calls.
const (
	letterMaxTokens        = 512
	subjectMaxTokens       = 128
	customSubjectMaxTokens = 100
)

var requestValidator = validator.New()

// TextExtractor yields the plain text of a résumé document, or "" when the
// document is unreadable.
type TextExtractor interface {
	Text(path string) string
}

// Generator is the component callers invoke. The model backend is chosen
// once at construction and shared across calls; callers needing a fresh
// backend choice construct a new Generator.
type Generator struct {
	backend   llm.Backend
	state     llm.State
	catalog   *prompts.Catalog
	store     *cache.Store
	extractor TextExtractor
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Generator around an already-selected backend.
// A nil logger falls back to slog.Default.
func New(sel llm.Selection, catalog *prompts.Catalog, store *cache.Store, extractor TextExtractor, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		backend:   sel.Backend,
		state:     sel.State,
		catalog:   catalog,
		store:     store,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
	}
}

// State reports the backend selection outcome for this instance.
func (g *Generator) State() llm.State { return g.state }

// Request carries the inputs for one generation call.
type Request struct {
	// Applicant partitions the cache and appears in generated text.
	Applicant string `validate:"required,min=1"`
	// Document is the path to the applicant's résumé PDF. It doubles as
	// the cache freshness reference: a cached letter generated from a
	// different document is stale.
	Document string `validate:"required,min=1"`
	// Organization describes the target organization.
	Organization types.OrganizationProfile `validate:"required"`
	// Mode selects the prompt set; empty means the catalog default.
	Mode types.Mode
	// CustomTemplate is required for ModeCustom and ignored otherwise.
	CustomTemplate string
	// Force bypasses the cache read (the write still happens).
	Force bool
}

// Validate checks the request. ModeCustom additionally requires a template.
func (r *Request) Validate() error {
	if err := requestValidator.Struct(r); err != nil {
		return err
	}
	if r.Mode == types.ModeCustom && r.CustomTemplate == "" {
		return errors.New("custom mode requires a template")
	}
	return nil
}

// Generate produces a cover letter and subject for one (applicant,
// organization) pair.
//
// Cached results are keyed by organization name only: a fresh cached record
// is returned regardless of the requested mode. Changing the résumé document
// invalidates the cache; changing the mode does not. Use Force to override.
//
// All recoverable failures (unreadable document, remote call errors, prompt
// problems) yield a result with a nil Letter and a usable default Subject.
// Only a total backend failure returns an error.
func (g *Generator) Generate(ctx context.Context, req Request) (*types.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generation request: %w", err)
	}
	if req.Mode == "" {
		req.Mode = types.Mode(g.catalog.DefaultMode())
	}

	logger := g.logger.With(
		"request_id", uuid.NewString(),
		"applicant", req.Applicant,
		"organization", req.Organization.Name,
		"mode", req.Mode,
	)

	if !req.Force {
		if record, ok := g.store.Get(req.Applicant, req.Organization.Name); ok {
			if record.Fresh(req.Document) {
				logger.Info("serving cached cover letter", "generated_at", record.GeneratedAt)
				return &types.GenerationResult{
					Letter:  &record.CoverLetter,
					Subject: record.Subject,
					Cached:  true,
				}, nil
			}
			logger.Info("cached record is stale, regenerating", "cached_document", record.CVFilename)
		}
	}

	resume := g.extractor.Text(req.Document)
	if resume == "" {
		logger.Warn("résumé has no extractable text")
		return &types.GenerationResult{Subject: g.defaultSubject(req)}, nil
	}

	lang := language.Detect(req.Organization.Name)
	ps := g.catalog.Resolve(lang, string(req.Mode))

	values := map[string]string{
		"resume_content":       resume,
		"company_name":         req.Organization.Name,
		"company_description":  req.Organization.Description,
		"company_requirements": req.Organization.Requirements,
		"applicant_name":       req.Applicant,
	}
	if req.Mode == types.ModeCustom {
		values["custom_template"] = req.CustomTemplate
	}

	letterPrompt, err := prompts.Render(ps.LetterTemplate, values)
	if err != nil {
		logger.Warn("letter template did not render", "error", err)
		return &types.GenerationResult{Subject: g.defaultSubject(req)}, nil
	}

	rawLetter, err := g.backend.Chat(ctx, ps.SystemPrompt, letterPrompt, letterMaxTokens)
	if err != nil {
		if errors.Is(err, llm.ErrBackendUnavailable) {
			return nil, fmt.Errorf("cover letter generation failed: %w", err)
		}
		logger.Warn("letter generation failed", "error", err)
		return &types.GenerationResult{Subject: g.defaultSubject(req)}, nil
	}
	letter := sanitize.CleanLetter(rawLetter)

	subject := g.generateSubject(ctx, logger, req, ps, values)

	if letter != "" {
		record := types.CacheRecord{
			CompanyName: req.Organization.Name,
			CoverLetter: letter,
			Subject:     subject,
			Mode:        req.Mode,
			CVFilename:  req.Document,
			GeneratedAt: g.now(),
			Language:    lang,
		}
		if err := g.store.Upsert(req.Applicant, req.Organization.Name, record); err != nil {
			logger.Warn("failed to persist cover letter", "error", err)
		}
	}

	return &types.GenerationResult{Letter: &letter, Subject: subject}, nil
}

// generateSubject runs the second backend call. Any failure degrades to the
// organization-specific default subject.
func (g *Generator) generateSubject(ctx context.Context, logger *slog.Logger, req Request, ps prompts.PromptSet, values map[string]string) string {
	subjectPrompt, err := prompts.Render(ps.SubjectTemplate, values)
	if err != nil {
		logger.Warn("subject template did not render", "error", err)
		return g.defaultSubject(req)
	}

	maxTokens := subjectMaxTokens
	if req.Mode == types.ModeCustom {
		maxTokens = customSubjectMaxTokens
	}

	rawSubject, err := g.backend.Chat(ctx, ps.SubjectSystem(), subjectPrompt, maxTokens)
	if err != nil {
		logger.Warn("subject generation failed", "error", err)
		return g.defaultSubject(req)
	}
	return sanitize.CleanSubject(rawSubject)
}

// defaultSubject is the fallback used whenever a subject cannot be
// generated. It always mentions the organization.
func (g *Generator) defaultSubject(req Request) string {
	if req.Mode == types.ModeCustom {
		return fmt.Sprintf("求职申请 - %s - %s", req.Applicant, req.Organization.Name)
	}
	return fmt.Sprintf("Internship Application – %s", req.Organization.Name)
}
