// Package store persists run reports.
package store

import (
	"context"

	"github.com/cognicore/gdex/pkg/gdex/report"
)

// Store keeps reports and their selected examples.
type Store interface {
	Close() error

	// SaveReport inserts r or replaces the report with the same id.
	SaveReport(ctx context.Context, r report.Report) error
	// GetReport returns internalerr.ErrNotFound for unknown ids.
	GetReport(ctx context.Context, id string) (report.Report, error)
	// ListReports returns reports newest first. An empty lemma lists every
	// lemma; limit <= 0 means no limit.
	ListReports(ctx context.Context, lemma string, limit int) ([]report.Report, error)
	// TopExamples returns the best distinct examples stored for lemma,
	// each with its highest score.
	TopExamples(ctx context.Context, lemma string, limit int) ([]report.Example, error)
}
