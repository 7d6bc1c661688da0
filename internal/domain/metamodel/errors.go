package metamodel

import (
	"fmt"
)

// InvariantError reports a defect in how a model graph was constructed.
// It is never a data-quality finding: construction must abort.
type InvariantError struct {
	Element string // URN or name of the offending element
	Rule    string // Invariant that was violated
	Detail  string
}

func (e *InvariantError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("model invariant violated for %s: %s", e.Element, e.Rule)
	}
	return fmt.Sprintf("model invariant violated for %s: %s: %s", e.Element, e.Rule, e.Detail)
}

func newInvariantError(element, rule, detail string) *InvariantError {
	return &InvariantError{Element: element, Rule: rule, Detail: detail}
}

// Invariant rule names.
const (
	RuleMissingURN            = "missing-urn"
	RuleMissingContainingType = "missing-containing-type"
	RuleDuplicateURN          = "duplicate-urn"
	RuleDuplicateName         = "duplicate-name"
	RuleForeignProperty       = "foreign-property"
	RuleInvalidDataType       = "invalid-data-type"
	RuleMissingRule           = "missing-rule"
	RuleDetachedInner         = "detached-inner-constraint"
	RuleInheritanceCycle      = "inheritance-cycle"
	RuleMissingUnit           = "missing-unit"
	RuleForeignConstraint     = "foreign-constraint"
)
