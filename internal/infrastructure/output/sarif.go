// Package output provides formatters for validation records.
package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/version"
)

const (
	toolName           = "esmf"
	toolInformationURI = "https://eclipse-esmf.github.io"
)

// SARIFFormatter formats validation records as SARIF 2.1.0 JSON.
// Diagnostic codes become rules and diagnostics become results located in
// the model file.
//
// Usage:
//
//	formatter := output.NewSARIFFormatter(os.Stdout, "movement.yaml")
//	if err := formatter.Format(record); err != nil {
//	    log.Fatal(err)
//	}
type SARIFFormatter struct {
	writer    io.Writer
	modelPath string
}

// NewSARIFFormatter creates a new SARIF formatter. modelPath, when set, is
// reported as the location of every result.
func NewSARIFFormatter(writer io.Writer, modelPath string) *SARIFFormatter {
	return &SARIFFormatter{
		writer:    writer,
		modelPath: modelPath,
	}
}

// Format writes the record as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(record *validation.Record) error {
	if record.Report == nil {
		return fmt.Errorf("record %s has no report", record.ID)
	}

	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(toolName, toolInformationURI)
	v := version.Get().String()
	run.Tool.Driver.Version = &v
	run.Tool.Driver.Organization = ptrString("Eclipse ESMF")

	mapper := newSARIFMapper(record, f.modelPath)
	mapper.mapToRun(run)

	report.AddRun(run)

	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

func ptrString(s string) *string {
	return &s
}
