package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// TableFormatter formats validation records as a human-readable table.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

// Format writes the record as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(record *validation.Record) error {
	report := record.Report
	if report == nil {
		return fmt.Errorf("record %s has no report", record.ID)
	}

	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))
	fmt.Fprintf(f.writer, "Model:    %s\n", f.colorize(report.ModelURN, colorBold))
	fmt.Fprintf(f.writer, "Report:   %s\n", record.ID)
	fmt.Fprintf(f.writer, "Executed: %s\n", record.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(f.writer, "Duration: %s\n", record.Duration.Round(time.Microsecond))

	symbol, color := f.getStatusInfo(report.Status)
	fmt.Fprintf(f.writer, "Status:   %s %s\n", f.colorize(symbol, color),
		f.colorize(strings.ToUpper(string(report.Status)), color))
	fmt.Fprintln(f.writer)

	if len(report.Diagnostics) == 0 {
		fmt.Fprintln(f.writer, "No violations.")
	} else {
		fmt.Fprintln(f.writer, f.colorize("Diagnostics:", colorBold))
		fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))
		for i, d := range report.Diagnostics {
			f.formatDiagnostic(d, i+1)
		}
	}

	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))
	fmt.Fprintln(f.writer)

	f.formatSummary(report.Summary)

	return nil
}

// formatDiagnostic formats a single diagnostic.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatDiagnostic(d validation.Diagnostic, index int) {
	symbol, color := f.getStatusInfo(d.Status)

	fmt.Fprintf(f.writer, "%d. %s %s %s\n", index,
		f.colorize(symbol, color),
		f.colorize(d.Path, colorCyan),
		f.colorize("["+string(d.Code)+"]", color))

	msg := d.Message
	if msg == "" {
		msg = d.Render()
	}
	fmt.Fprintf(f.writer, "   %s\n", msg)

	if d.Value != nil {
		fmt.Fprintf(f.writer, "   %s: %s\n", f.colorize("Value", colorBlue), formatValue(d.Value))
	}
	fmt.Fprintf(f.writer, "   %s: %s\n", f.colorize("Property", colorBlue), d.PropertyURN)
	if d.ConstraintURN != "" {
		fmt.Fprintf(f.writer, "   %s: %s\n", f.colorize("Constraint", colorBlue), d.ConstraintURN)
	}
	fmt.Fprintln(f.writer)
}

// formatSummary formats the summary statistics.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatSummary(summary validation.Summary) {
	fmt.Fprintln(f.writer, f.colorize("Summary:", colorBold))
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))

	fmt.Fprintf(f.writer, "Properties:  %d visited\n", summary.Properties)
	fmt.Fprintf(f.writer, "Evaluations: %d total\n", summary.Evaluations)
	fmt.Fprintf(f.writer, "  %s Passed:  %d\n", f.colorize("✓", colorGreen), summary.Passed)
	fmt.Fprintf(f.writer, "  %s Failed:  %d\n", f.colorize("✗", colorRed), summary.Failed)
	fmt.Fprintf(f.writer, "  %s Errors:  %d\n", f.colorize("⚠", colorYellow), summary.Errored)

	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))
}

// formatValue renders instance values with sorted map keys.
func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+formatValue(v[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatValue(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", value)
	}
}

// getStatusInfo returns a symbol and color for the given status.
func (f *TableFormatter) getStatusInfo(status values.Status) (string, string) {
	switch status {
	case values.StatusPass:
		return "✓", colorGreen
	case values.StatusFail:
		return "✗", colorRed
	case values.StatusError:
		return "⚠", colorYellow
	default:
		return "?", colorReset
	}
}
