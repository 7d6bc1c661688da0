// Package validation holds the outcome of validating one instance against an
// aspect model.
package validation

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// Report aggregates every diagnostic of one validation pass. It carries no
// identity or timestamps, so validating the same pair twice yields identical
// reports; see Record for the persisted form.
type Report struct {
	ModelURN    string        `json:"model" yaml:"model"`
	Status      values.Status `json:"status" yaml:"status"`
	Diagnostics []Diagnostic  `json:"diagnostics" yaml:"diagnostics"`
	Summary     Summary       `json:"summary" yaml:"summary"`
	mu          sync.Mutex
}

// Summary provides aggregate statistics about a validation pass.
type Summary struct {
	Properties  int `json:"properties" yaml:"properties"`
	Evaluations int `json:"evaluations" yaml:"evaluations"`
	Passed      int `json:"passed" yaml:"passed"`
	Failed      int `json:"failed" yaml:"failed"`
	Errored     int `json:"errored" yaml:"errored"`
}

// NewReport creates an empty report for a model.
func NewReport(modelURN string) *Report {
	return &Report{
		ModelURN:    modelURN,
		Status:      values.StatusPass,
		Diagnostics: make([]Diagnostic, 0),
	}
}

// Add appends diagnostics. Safe for concurrent use.
func (r *Report) Add(diags ...Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Diagnostics = append(r.Diagnostics, diags...)
}

// CountProperty records that a property was visited.
func (r *Report) CountProperty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Summary.Properties++
}

// CountEvaluation records the outcome of one evaluation.
func (r *Report) CountEvaluation(status values.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Summary.Evaluations++
	switch status {
	case values.StatusPass:
		r.Summary.Passed++
	case values.StatusFail:
		r.Summary.Failed++
	case values.StatusError:
		r.Summary.Errored++
	}
}

// Finalize sorts diagnostics by declaration order and settles the status:
// Pass when there are no diagnostics, Fail otherwise.
func (r *Report) Finalize() {
	r.mu.Lock()
	defer r.mu.Unlock()

	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		return lessOrder(r.Diagnostics[i].Order, r.Diagnostics[j].Order)
	})
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Message == "" {
			r.Diagnostics[i].Message = r.Diagnostics[i].Render()
		}
	}

	r.Status = values.StatusPass
	if len(r.Diagnostics) > 0 {
		r.Status = values.StatusFail
	}
}

// Passed reports whether no Fail or Error was produced.
func (r *Report) Passed() bool {
	return r.Status == values.StatusPass
}

// Errors returns the diagnostics with Error status.
func (r *Report) Errors() []Diagnostic {
	return r.filter(values.StatusError)
}

// Failures returns the diagnostics with Fail status.
func (r *Report) Failures() []Diagnostic {
	return r.filter(values.StatusFail)
}

func (r *Report) filter(status values.Status) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out
}

// Fingerprint returns a stable hash of the report's JSON form.
func (r *Report) Fingerprint() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

// Record is a report stored together with its identity and creation time.
type Record struct {
	ID        values.ReportID `json:"id" yaml:"id"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	Duration  time.Duration   `json:"duration" yaml:"duration"`
	Report    *Report         `json:"report" yaml:"report"`
}

// NewRecord wraps a finalized report with a fresh ID.
func NewRecord(report *Report, duration time.Duration) *Record {
	return &Record{
		ID:        values.NewReportID(),
		CreatedAt: time.Now().UTC(),
		Duration:  duration,
		Report:    report,
	}
}

// ModelURN returns the URN of the validated model.
func (r *Record) ModelURN() string {
	if r.Report == nil {
		return ""
	}
	return r.Report.ModelURN
}
