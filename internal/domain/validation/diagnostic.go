package validation

import (
	"sort"
	"strings"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// Diagnostic is one Fail or Error produced while validating an instance. It
// carries enough context to be rendered without the model graph.
type Diagnostic struct {
	Status          values.Status     `json:"status" yaml:"status"`
	Code            Code              `json:"code" yaml:"code"`
	MessageTemplate string            `json:"message_template" yaml:"message_template"`
	Message         string            `json:"message" yaml:"message"`
	PropertyURN     string            `json:"property" yaml:"property"`
	ConstraintURN   string            `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Path            string            `json:"path" yaml:"path"`
	Value           any               `json:"value,omitempty" yaml:"value,omitempty"`
	Params          map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	// Order is the declaration position of the property and constraint that
	// produced the diagnostic.
	Order []int `json:"-" yaml:"-"`
}

// NewDiagnostic creates a diagnostic using the code's default template.
func NewDiagnostic(status values.Status, code Code, params map[string]string) Diagnostic {
	return Diagnostic{
		Status:          status,
		Code:            code,
		MessageTemplate: code.Template(),
		Params:          params,
	}
}

// Render interpolates {key} placeholders in the template with Params.
// Unknown placeholders are left untouched.
func (d Diagnostic) Render() string {
	return Interpolate(d.MessageTemplate, d.Params)
}

// Interpolate replaces {key} placeholders in template with params.
func Interpolate(template string, params map[string]string) string {
	if len(params) == 0 {
		return template
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", params[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// IsError reports whether the diagnostic reflects a malformed model or context
// rather than a data violation.
func (d Diagnostic) IsError() bool {
	return d.Status == values.StatusError
}

func lessOrder(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
