// Package types provides type definitions for structured data used throughout the coverletter-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/coverletter-agent/internal/language"
)

// Mode selects the tone of the generated letter and the prompt set used for it.
type Mode string

// Supported generation modes.
const (
	// ModeProfessional produces formal, targeted letters.
	ModeProfessional Mode = "professional"
	// ModeEnthusiastic produces upbeat letters emphasizing growth potential.
	ModeEnthusiastic Mode = "enthusiastic"
	// ModeCustom builds the letter around a caller-supplied template.
	ModeCustom Mode = "custom"
)

// OrganizationProfile describes the target organization for one request.
// It is supplied fresh per call and never persisted by this module.
type OrganizationProfile struct {
	Name         string `json:"name" validate:"required,min=1"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
}

// CacheRecord is the persisted result of one successful generation, keyed by
// organization name within a per-applicant cache file. Field names follow the
// on-disk cache format.
type CacheRecord struct {
	CompanyName string            `json:"company_name"`
	CoverLetter string            `json:"cover_letter"`
	Subject     string            `json:"subject"`
	Mode        Mode              `json:"mode"`
	CVFilename  string            `json:"cv_filename"`
	GeneratedAt time.Time         `json:"generated_at"`
	Language    language.Language `json:"language"`
}

// Fresh reports whether the record was generated from the given résumé
// document. A stale record must not be served from cache.
func (r *CacheRecord) Fresh(cvFilename string) bool {
	return r.CVFilename == cvFilename
}

// GenerationResult is what callers receive from a generate call. Letter is
// nil when extraction or the model backend irrecoverably failed; Subject
// always carries a usable value.
type GenerationResult struct {
	Letter  *string `json:"letter"`
	Subject string  `json:"subject"`
	Cached  bool    `json:"cached"`
}

// LetterText returns the letter body, or "" when generation failed.
func (g *GenerationResult) LetterText() string {
	if g.Letter == nil {
		return ""
	}
	return *g.Letter
}

// Validate validates the OrganizationProfile using the validator.
func (o *OrganizationProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(o)
}
