// Package repositories defines interfaces for domain persistence.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// ErrNotFound is returned when no record matches a lookup.
var ErrNotFound = errors.New("record not found")

// ReportRepository stores validation records.
type ReportRepository interface {
	// Save persists a record. Saving the same ID again replaces it.
	Save(ctx context.Context, record *validation.Record) error

	// FindByID retrieves a record by its ID.
	FindByID(ctx context.Context, id values.ReportID) (*validation.Record, error)

	// FindByModel retrieves the most recent records for a model, newest first.
	FindByModel(ctx context.Context, modelURN string, limit int) ([]*validation.Record, error)

	// FindBetween retrieves records for a model created within [start, end].
	FindBetween(ctx context.Context, modelURN string, start, end time.Time) ([]*validation.Record, error)
}
