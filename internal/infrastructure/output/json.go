package output

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
)

// JSONFormatter formats validation records as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// Format writes the record as JSON followed by a newline.
func (f *JSONFormatter) Format(record *validation.Record) error {
	var data []byte
	var err error

	if f.indent {
		data, err = json.MarshalIndent(record, "", "  ")
	} else {
		data, err = json.Marshal(record)
	}
	if err != nil {
		return err
	}

	if _, err := f.writer.Write(data); err != nil {
		return err
	}
	_, err = f.writer.Write([]byte("\n"))
	return err
}
