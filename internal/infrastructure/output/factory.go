package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/ports"
)

// Constructor builds a report formatter writing to w.
type Constructor func(w io.Writer, options ports.FormatterOptions) ports.OutputFormatter

// FormatterFactory implements ports.OutputFormatterFactory over a registry of
// named constructors. Names are matched case-insensitively.
type FormatterFactory struct {
	constructors map[string]Constructor
	order        []string
}

// NewFormatterFactory creates a factory knowing the built-in report formats.
func NewFormatterFactory() *FormatterFactory {
	f := &FormatterFactory{constructors: make(map[string]Constructor)}
	f.Register("table", func(w io.Writer, _ ports.FormatterOptions) ports.OutputFormatter {
		return NewTableFormatter(w)
	})
	f.Register("json", func(w io.Writer, o ports.FormatterOptions) ports.OutputFormatter {
		return NewJSONFormatter(w, o.Indent)
	})
	f.Register("yaml", func(w io.Writer, _ ports.FormatterOptions) ports.OutputFormatter {
		return NewYAMLFormatter(w)
	})
	f.Register("junit", func(w io.Writer, _ ports.FormatterOptions) ports.OutputFormatter {
		return NewJUnitFormatter(w)
	})
	f.Register("sarif", func(w io.Writer, o ports.FormatterOptions) ports.OutputFormatter {
		return NewSARIFFormatter(w, o.ModelPath)
	})
	return f
}

// Register adds or replaces a format.
func (f *FormatterFactory) Register(name string, c Constructor) {
	name = strings.ToLower(name)
	if _, ok := f.constructors[name]; !ok {
		f.order = append(f.order, name)
	}
	f.constructors[name] = c
}

// Create returns a formatter for the given format name.
func (f *FormatterFactory) Create(format string, writer io.Writer, options ports.FormatterOptions) (ports.OutputFormatter, error) {
	c, ok := f.constructors[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (supported: %v)", format, f.SupportedFormats())
	}
	return c(writer, options), nil
}

// SupportedFormats returns the registered format names in registration order.
func (f *FormatterFactory) SupportedFormats() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

var formatsByExtension = map[string]string{
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".xml":   "junit",
	".sarif": "sarif",
}

// FormatForPath infers a report format from an output file name, e.g.
// "report.sarif" or "results.sarif.json". ok is false for unknown extensions.
func FormatForPath(path string) (string, bool) {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".sarif.json") {
		return "sarif", true
	}
	format, ok := formatsByExtension[filepath.Ext(name)]
	return format, ok
}
