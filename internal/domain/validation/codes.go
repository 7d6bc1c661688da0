package validation

// Code identifies the kind of a diagnostic.
type Code string

// Fail codes: the data violates the model.
const (
	CodePatternMismatch         Code = "pattern-mismatch"
	CodeRangeViolation          Code = "range-violation"
	CodeLengthViolation         Code = "length-violation"
	CodeDuplicateElement        Code = "duplicate-element"
	CodeRequiredPropertyMissing Code = "required-property-missing"
	CodeEnumerationViolation    Code = "enumeration-violation"
	CodeEncodingViolation       Code = "encoding-violation"
	CodeLanguageViolation       Code = "language-violation"
	CodeLocaleViolation         Code = "locale-violation"
	CodeFixedPointViolation     Code = "fixed-point-violation"
	CodeExpressionViolation     Code = "expression-violation"
)

// Error codes: the model or the context is malformed.
const (
	CodeMalformedConstraint Code = "malformed-constraint"
	CodeTypeMismatch        Code = "type-mismatch"
	CodeUnresolvableUnit    Code = "unresolvable-unit"
	CodeUnknownConstraint   Code = "unknown-constraint"
)

var templates = map[Code]string{
	CodePatternMismatch:         "{property}: value {value} does not match pattern {pattern}",
	CodeRangeViolation:          "{property}: value {value} is outside the range {range}",
	CodeLengthViolation:         "{property}: length {length} is outside the range {range}",
	CodeDuplicateElement:        "{property}: element {value} occurs more than once",
	CodeRequiredPropertyMissing: "{property}: required value is missing",
	CodeEnumerationViolation:    "{property}: value {value} is not one of {allowed}",
	CodeEncodingViolation:       "{property}: value {value} cannot be encoded as {encoding}",
	CodeLanguageViolation:       "{property}: language {language} does not match {expected}",
	CodeLocaleViolation:         "{property}: locale {locale} does not match {expected}",
	CodeFixedPointViolation:     "{property}: value {value} exceeds {integer} integer digits or scale {scale}",
	CodeExpressionViolation:     "{property}: value {value} does not satisfy {expression}",
	CodeMalformedConstraint:     "{property}: constraint {constraint} is malformed: {reason}",
	CodeTypeMismatch:            "{property}: value {value} is not comparable as {type}",
	CodeUnresolvableUnit:        "{property}: unit {unit} is not registered",
	CodeUnknownConstraint:       "{property}: no evaluator for constraint kind {kind}",
}

// Template returns the default message template for a code.
func (c Code) Template() string {
	if t, ok := templates[c]; ok {
		return t
	}
	return "{property}: " + string(c)
}
