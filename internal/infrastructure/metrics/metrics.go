// Package metrics records validation measurements with Prometheus collectors.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
)

const (
	namespace = "esmf"
	subsystem = "validation"
)

// Load stages reported by RecordLoadFailure.
const (
	StageModel    = "model"
	StageInstance = "instance"
	StageUnits    = "units"
)

// Recorder owns a private registry so several recorders (one per test, one
// per process) never collide.
type Recorder struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	diagnostics  *prometheus.CounterVec
	evaluations  *prometheus.CounterVec
	properties   prometheus.Counter
	loadFailures *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "runs_total",
				Help:      "Total number of validation runs by model and report status",
			},
			[]string{"model", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "duration_seconds",
				Help:      "Time taken to validate one instance",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"model"},
		),
		diagnostics: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "diagnostics_total",
				Help:      "Total number of diagnostics by code and status",
			},
			[]string{"code", "status"},
		),
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "constraint_evaluations_total",
				Help:      "Total number of constraint evaluations by outcome",
			},
			[]string{"status"},
		),
		properties: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "properties_total",
				Help:      "Total number of property values visited",
			},
		),
		loadFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "load_failures_total",
				Help:      "Total number of inputs that could not be loaded, by stage",
			},
			[]string{"stage"},
		),
	}
}

// RecordValidation records one finished session.
func (r *Recorder) RecordValidation(model string, report *validation.Report, duration time.Duration) {
	if report == nil {
		return
	}
	r.runs.WithLabelValues(model, string(report.Status)).Inc()
	r.duration.WithLabelValues(model).Observe(duration.Seconds())

	for _, d := range report.Diagnostics {
		r.diagnostics.WithLabelValues(string(d.Code), string(d.Status)).Inc()
	}

	s := report.Summary
	r.properties.Add(float64(s.Properties))
	r.evaluations.WithLabelValues("pass").Add(float64(s.Passed))
	r.evaluations.WithLabelValues("fail").Add(float64(s.Failed))
	r.evaluations.WithLabelValues("error").Add(float64(s.Errored))
}

// RecordLoadFailure counts an input that never reached a session.
func (r *Recorder) RecordLoadFailure(stage string) {
	r.loadFailures.WithLabelValues(stage).Inc()
}

// Gather returns the current metric families.
func (r *Recorder) Gather() ([]*dto.MetricFamily, error) {
	return r.registry.Gather()
}

// WriteText writes all metrics in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
