package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helios-hq/triton/pkg/validator/report"
)

// ErrNotFound indicates no report exists with the requested ID.
var ErrNotFound = errors.New("report not found")

// Store persists validation reports.
type Store interface {
	// SaveReport stores one report.
	SaveReport(ctx context.Context, rep *report.ValidationReport) error

	// GetReport returns the report with the given ID, or ErrNotFound.
	GetReport(ctx context.Context, id string) (*report.ValidationReport, error)

	// ListReports returns reports matching the query, newest first.
	ListReports(ctx context.Context, q Query) ([]*report.ValidationReport, error)

	// DeleteBefore removes reports created before the cutoff and returns
	// how many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Count returns the number of stored reports.
	Count(ctx context.Context) (int64, error)

	// Close releases the backend's resources.
	Close() error
}

// Query filters ListReports results. Zero fields do not filter.
type Query struct {
	// SchemaID restricts results to one schema.
	SchemaID string

	// Target restricts results to one validated class or slot.
	Target string

	// OnlyInvalid restricts results to reports with at least one error.
	OnlyInvalid bool

	// Since and Until bound the report timestamps.
	Since time.Time
	Until time.Time

	// Limit caps the number of results; zero means no cap.
	Limit int
}

// StorageError wraps a backend failure with its backend and operation.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s storage: %s: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error { return e.Cause }
