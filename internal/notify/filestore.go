package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/ilocksmithindiana/lead-service/internal/submission"
	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

// FailedSubmissionRecord is the durable form of a lead that could not be
// emailed through any channel. Records are append-only; nothing in this
// service mutates or deletes them.
type FailedSubmissionRecord struct {
	Timestamp string                         `json:"timestamp"`
	Data      submission.CanonicalSubmission `json:"data"`
	Note      string                         `json:"note"`
}

// FallbackStore appends failed submissions to a per-calendar-day JSON-lines
// file. Appends hold both an in-process mutex and a file lock so concurrent
// writers, in this process or another, cannot interleave records.
type FallbackStore struct {
	dir    string
	mu     sync.Mutex
	logger *logging.Logger
	now    func() time.Time
}

// NewFallbackStore creates a store writing under dir. The directory is
// created on first append.
func NewFallbackStore(dir string, logger *logging.Logger) *FallbackStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackStore{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// Append writes one record as a single JSON line to today's file.
func (s *FallbackStore) Append(rec FailedSubmissionRecord) error {
	if s == nil {
		return fmt.Errorf("notify: fallback store not configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("notify: create fallback dir: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("failed-submissions-%s.json", s.now().Format("2006-01-02")))

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("notify: lock fallback file: %w", err)
	}
	defer lock.Unlock()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("notify: marshal fallback record: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("notify: open fallback file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("notify: append fallback record: %w", err)
	}

	s.logger.Warn("submission queued to fallback file", "path", path, "name", rec.Data.Name)
	return nil
}
