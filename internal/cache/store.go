// Package cache persists generation records per applicant. Each applicant
// gets one JSON file mapping organization name to the most recent record.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/coverletter-agent/internal/types"
)

// unsafeNameChars matches runes that may not appear in a cache filename.
// Word characters, whitespace, hyphens and CJK ideographs pass through.
var unsafeNameChars = regexp.MustCompile(`[^\w\s\x{4e00}-\x{9fff}-]`)

// Store reads and writes per-applicant cache files under a single directory.
// Writes replace the whole file via rename, so readers in this process never
// observe a partial mapping. Cross-process writers race last-writer-wins.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir. A nil logger falls back to
// slog.Default.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// FilePath returns the cache file path for an applicant. Runes that are not
// filesystem safe are replaced with underscores.
func (s *Store) FilePath(applicant string) string {
	safe := unsafeNameChars.ReplaceAllString(applicant, "_")
	return filepath.Join(s.dir, safe+"_cover_letters.json")
}

// Load returns every cached record for the applicant, keyed by organization
// name. A missing or unreadable file yields an empty map; corrupt storage is
// treated as empty with a logged warning, never as an error.
func (s *Store) Load(applicant string) map[string]types.CacheRecord {
	path := s.FilePath(applicant)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read cache file", "path", path, "error", err)
		}
		return map[string]types.CacheRecord{}
	}

	var records map[string]types.CacheRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("cache file is corrupt, treating as empty", "path", path, "error", err)
		return map[string]types.CacheRecord{}
	}
	if records == nil {
		records = map[string]types.CacheRecord{}
	}
	return records
}

// Get returns the cached record for an organization, if present. The
// organization name is trimmed and matched case-sensitively.
func (s *Store) Get(applicant, organization string) (types.CacheRecord, bool) {
	records := s.Load(applicant)
	record, ok := records[strings.TrimSpace(organization)]
	return record, ok
}

// Upsert replaces any prior record for the organization and persists the full
// mapping. The file is written to a temp path and renamed into place.
func (s *Store) Upsert(applicant, organization string, record types.CacheRecord) error {
	records := s.Load(applicant)
	records[strings.TrimSpace(organization)] = record
	return s.write(applicant, records)
}

// Delete removes the record for an organization. Deleting an absent key is a
// no-op.
func (s *Store) Delete(applicant, organization string) error {
	records := s.Load(applicant)
	key := strings.TrimSpace(organization)
	if _, ok := records[key]; !ok {
		return nil
	}
	delete(records, key)
	return s.write(applicant, records)
}

func (s *Store) write(applicant string, records map[string]types.CacheRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache for %s: %w", applicant, err)
	}

	path := s.FilePath(applicant)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace cache file %s: %w", path, err)
	}
	return nil
}
