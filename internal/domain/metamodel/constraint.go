package metamodel

import (
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// TargetKind discriminates what a constraint restricts.
type TargetKind int

const (
	// TargetProperty means the constraint restricts a property's values.
	TargetProperty TargetKind = iota + 1
	// TargetConstraint means the constraint is wrapped by another constraint
	// and restricts the values that constraint hands down.
	TargetConstraint
)

func (k TargetKind) String() string {
	switch k {
	case TargetProperty:
		return "property"
	case TargetConstraint:
		return "constraint"
	default:
		return "unknown"
	}
}

// Target is the single element a constraint restricts.
type Target struct {
	Kind TargetKind
	URN  values.AspectModelURN
}

// OnProperty targets a property.
func OnProperty(urn values.AspectModelURN) Target {
	return Target{Kind: TargetProperty, URN: urn}
}

// OnConstraint targets a wrapping constraint.
func OnConstraint(urn values.AspectModelURN) Target {
	return Target{Kind: TargetConstraint, URN: urn}
}

// Constraint is a node in a recursive constraint tree: a rule plus an
// optional inner constraint that is evaluated after the rule passes.
type Constraint struct {
	MetaClass
	Described
	target Target
	rule   Rule
	inner  *Constraint
}

// NewConstraint builds a constraint node. An inner constraint must target
// the constraint being built.
func NewConstraint(meta MetaClass, target Target, rule Rule, inner *Constraint) (*Constraint, error) {
	id := meta.AspectModelURN().String()
	if target.URN.IsZero() || (target.Kind != TargetProperty && target.Kind != TargetConstraint) {
		return nil, newInvariantError(id, RuleMissingContainingType, "constraint has no target")
	}
	if rule == nil {
		return nil, newInvariantError(id, RuleMissingRule, "constraint has no rule")
	}
	if unit, ok := rule.(UnitRule); ok && unit.Unit.IsZero() {
		return nil, newInvariantError(id, RuleMissingUnit, "unit constraint declares no unit")
	}
	if inner != nil {
		if inner.target.Kind != TargetConstraint || !inner.target.URN.Equals(meta.AspectModelURN()) {
			return nil, newInvariantError(inner.AspectModelURN().String(), RuleDetachedInner,
				"inner constraint must target "+id)
		}
	}
	meta.modelClass = ModelClassConstraint
	return &Constraint{MetaClass: meta, target: target, rule: rule, inner: inner}, nil
}

// ContainingType returns the URN of the property or constraint this constraint restricts.
func (c *Constraint) ContainingType() values.AspectModelURN {
	return c.target.URN
}

// Target returns the discriminated target reference.
func (c *Constraint) Target() Target {
	return c.target
}

// PropertyType returns what kind of constraint this is. Unlike
// Property.PropertyType it answers a ConstraintKind, not a values.PropertyType;
// Kind is the same value under an unambiguous name.
func (c *Constraint) PropertyType() ConstraintKind {
	return c.rule.Kind()
}

// Kind returns the constraint kind.
func (c *Constraint) Kind() ConstraintKind {
	return c.rule.Kind()
}

// CollectionLevel reports whether the constraint applies to a collection as a
// whole. It does when any node of its chain does, so a unit wrapping a length
// constraint counts elements rather than each element's runes.
func (c *Constraint) CollectionLevel() bool {
	for n := c; n != nil; n = n.inner {
		if n.Kind().CollectionLevel() {
			return true
		}
	}
	return false
}

// Rule returns the kind-specific parameters.
func (c *Constraint) Rule() Rule {
	return c.rule
}

// Inner returns the wrapped constraint, or nil.
func (c *Constraint) Inner() *Constraint {
	return c.inner
}

// Chain returns this constraint followed by all transitively wrapped ones.
func (c *Constraint) Chain() []*Constraint {
	var chain []*Constraint
	for n := c; n != nil; n = n.inner {
		chain = append(chain, n)
	}
	return chain
}
