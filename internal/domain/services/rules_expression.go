package services

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
)

// checkExpression evaluates a boolean expression. The environment exposes the
// focus value as "value", the resolved unit symbol as "unit" and the host's
// other values under "instance".
//
// Only the listed variables are reachable, and expr-lang gives programs no
// access to the filesystem or network.
func checkExpression(ev *Evaluator, c *metamodel.Constraint, value any, dc DataContext) Result {
	rule, ok := c.Rule().(metamodel.ExpressionRule)
	if !ok || rule.Expression == "" {
		return malformed(c, dc, value, "expression constraint declares no expression")
	}
	if len(rule.Expression) > ev.maxExpressionLength {
		return malformed(c, dc, value, fmt.Sprintf("expression too long (max %d chars): %d chars",
			ev.maxExpressionLength, len(rule.Expression)))
	}

	unit := ""
	if u, ok := dc.Unit(); ok {
		unit = u.Symbol
	}
	env := map[string]any{
		"value":    toNative(value),
		"unit":     unit,
		"instance": toNative(dc.Siblings()),
	}

	// Compiled without a typed environment so one cached program serves any
	// value type.
	options := []expr.Option{
		expr.AsBool(),
		expr.MaxNodes(ev.maxExpressionNodes),
	}
	program, err := ev.getOrCompileExpression(rule.Expression, options)
	if err != nil {
		return malformed(c, dc, value, fmt.Sprintf("compilation failed: %v", err))
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return Errorf(c, dc, validation.CodeTypeMismatch, value, map[string]string{
			"type":   "expression operand",
			"reason": err.Error(),
		})
	}
	held, ok := output.(bool)
	if !ok {
		return malformed(c, dc, value, fmt.Sprintf("expression did not return boolean: %v", output))
	}
	if !held {
		return Failf(c, dc, validation.CodeExpressionViolation, value, map[string]string{"expression": rule.Expression})
	}
	return Pass()
}
