// Package memory provides in-memory implementations of domain repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/repositories"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// Ensure interface compliance
var _ repositories.ReportRepository = (*ReportRepository)(nil)

// ReportRepository keeps validation records for the lifetime of the process.
type ReportRepository struct {
	records map[values.ReportID]*validation.Record
	mu      sync.RWMutex
}

// NewReportRepository creates a new in-memory repository.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{
		records: make(map[values.ReportID]*validation.Record),
	}
}

// Save persists a record. Records are stored by pointer; callers must not
// modify a record after saving it.
func (r *ReportRepository) Save(_ context.Context, record *validation.Record) error {
	if record == nil || record.ID.IsZero() {
		return fmt.Errorf("cannot save record without ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record
	return nil
}

// FindByID retrieves a record by its ID.
func (r *ReportRepository) FindByID(_ context.Context, id values.ReportID) (*validation.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
	}
	return record, nil
}

// FindByModel retrieves the most recent records for a model.
func (r *ReportRepository) FindByModel(_ context.Context, modelURN string, limit int) ([]*validation.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*validation.Record
	for _, rec := range r.records {
		if rec.ModelURN() == modelURN {
			matches = append(matches, rec)
		}
	}
	newestFirst(matches)

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// FindBetween retrieves records for a model created within [start, end].
func (r *ReportRepository) FindBetween(_ context.Context, modelURN string, start, end time.Time) ([]*validation.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*validation.Record
	for _, rec := range r.records {
		if rec.ModelURN() != modelURN {
			continue
		}
		if !rec.CreatedAt.Before(start) && !rec.CreatedAt.After(end) {
			matches = append(matches, rec)
		}
	}
	newestFirst(matches)
	return matches, nil
}

func newestFirst(records []*validation.Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
