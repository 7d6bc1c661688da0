package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
)

// YAMLFormatter formats validation records as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the record as YAML.
func (f *YAMLFormatter) Format(record *validation.Record) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(record); err != nil {
		return err
	}

	return encoder.Close()
}
