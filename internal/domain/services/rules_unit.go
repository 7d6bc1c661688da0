package services

import (
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
)

// checkUnit resolves the declared unit and hands it, together with the
// value, to the wrapped constraint.
func checkUnit(ev *Evaluator, c *metamodel.Constraint, value any, dc DataContext) Result {
	rule, ok := c.Rule().(metamodel.UnitRule)
	if !ok {
		return malformed(c, dc, value, "rule is not a unit")
	}
	unit, ok := dc.ResolveUnit(rule.Unit)
	if !ok {
		return Errorf(c, dc, validation.CodeUnresolvableUnit, value, map[string]string{"unit": rule.Unit.String()})
	}
	return ev.Delegate(c, value, dc.WithUnit(unit))
}
