// Package store provides report archival backends.
//
// An audit report is cheap to recompute but reviewers often want the
// history of a figure across submission rounds, so reports can be
// archived under their IDs and listed per journal. Two backends are
// provided: an in-memory store for tests and single-run CLI usage, and
// a MongoDB store for the audit service.
package store

import (
	"context"

	"github.com/sciviz/figlint/pkg/audit"
)

// Store is the report archive interface shared by all backends.
type Store interface {
	// SaveReport stores a report, replacing any existing report with
	// the same ID.
	SaveReport(ctx context.Context, report audit.Report) error

	// GetReport retrieves a report by ID. Missing reports fail with
	// REPORT_NOT_FOUND.
	GetReport(ctx context.Context, id string) (audit.Report, error)

	// ListReports returns archived reports, newest first.
	ListReports(ctx context.Context, opts ListOpts) ([]audit.Report, error)

	// DeleteReport removes a report. Deleting a missing report is not
	// an error.
	DeleteReport(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// ListOpts filters and bounds a report listing.
type ListOpts struct {
	// Journal restricts the listing to one journal standard.
	// Empty means all journals.
	Journal string

	// Limit caps the number of returned reports. Non-positive means
	// no cap.
	Limit int
}
