// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"
	"io"
	"time"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/services"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/system"
)

// ModelLoader builds model graphs from storage.
type ModelLoader interface {
	LoadModel(path string) (*metamodel.Graph, error)
}

// InstanceLoader reads graph-shaped instance data.
type InstanceLoader interface {
	LoadInstance(path string) (map[string]any, error)
}

// UnitCatalog resolves unit URNs to symbols.
type UnitCatalog interface {
	services.UnitResolver
}

// SystemConfigProvider loads system configuration.
type SystemConfigProvider interface {
	LoadConfig(ctx context.Context, path string) (*system.Config, error)
}

// MetricsRecorder receives validation measurements.
type MetricsRecorder interface {
	RecordValidation(model string, report *validation.Report, duration time.Duration)
	RecordLoadFailure(stage string)
}

// ReportRedactor scrubs sensitive instance values from a report in place.
type ReportRedactor interface {
	RedactReport(report *validation.Report)
}

// OutputFormatter formats validation records.
type OutputFormatter interface {
	Format(record *validation.Record) error
}

// FormatterOptions configures output formatters.
type FormatterOptions struct {
	// Indent pretty-prints JSON output.
	Indent bool
	// ModelPath is reported as the artifact location in SARIF output.
	ModelPath string
}

// OutputFormatterFactory creates formatters by name.
type OutputFormatterFactory interface {
	Create(format string, writer io.Writer, options FormatterOptions) (OutputFormatter, error)
	SupportedFormats() []string
}

// OutputWriter writes formatted output to destination.
type OutputWriter interface {
	Write(ctx context.Context, data []byte, dest string) error
}
