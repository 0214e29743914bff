package store

import (
	"context"
	"slices"
	"sync"

	"github.com/sciviz/figlint/pkg/audit"
	"github.com/sciviz/figlint/pkg/errors"
)

// MemoryStore keeps reports in process memory. Intended for tests and
// single-run CLI usage; contents are lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]audit.Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]audit.Report)}
}

// SaveReport stores a report, replacing any existing report with the same ID.
func (s *MemoryStore) SaveReport(_ context.Context, report audit.Report) error {
	if report.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "report has no ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report
	return nil
}

// GetReport retrieves a report by ID.
func (s *MemoryStore) GetReport(_ context.Context, id string) (audit.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return audit.Report{}, errors.New(errors.ErrCodeReportNotFound, "report %q not found", id)
	}
	return report, nil
}

// ListReports returns archived reports, newest first.
func (s *MemoryStore) ListReports(_ context.Context, opts ListOpts) ([]audit.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Report
	for _, report := range s.reports {
		if opts.Journal != "" && report.Journal != opts.Journal {
			continue
		}
		out = append(out, report)
	}

	slices.SortFunc(out, func(a, b audit.Report) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// DeleteReport removes a report. Deleting a missing report is not an error.
func (s *MemoryStore) DeleteReport(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(context.Context) error {
	return nil
}
