package services

import (
	"fmt"
	"strings"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// checkRange compares the value with the configured bounds using the natural
// ordering of the declared data type.
func checkRange(_ *Evaluator, c *metamodel.Constraint, value any, dc DataContext) Result {
	rule, ok := c.Rule().(metamodel.RangeRule)
	if !ok {
		return malformed(c, dc, value, "rule is not a range")
	}
	if rule.Min == nil && rule.Max == nil {
		return malformed(c, dc, value, "range declares no bounds")
	}

	dt := dc.DataType()
	kind := inferKind(dt, value)
	if value == nil || !orderable(kind, dt, value) {
		return Errorf(c, dc, validation.CodeTypeMismatch, value, map[string]string{"type": typeLabel(dt, kind)})
	}

	params := map[string]string{"range": formatRange(rule)}

	if rule.Min != nil {
		cmp, err := compareAs(kind, dt, value, rule.Min.Value)
		if err != nil {
			return malformed(c, dc, value, fmt.Sprintf("lower bound %v is not a %s", rule.Min.Value, kind))
		}
		if cmp < 0 || (cmp == 0 && !rule.Min.Inclusive()) {
			return Failf(c, dc, validation.CodeRangeViolation, value, params)
		}
	}
	if rule.Max != nil {
		cmp, err := compareAs(kind, dt, value, rule.Max.Value)
		if err != nil {
			return malformed(c, dc, value, fmt.Sprintf("upper bound %v is not a %s", rule.Max.Value, kind))
		}
		if cmp > 0 || (cmp == 0 && !rule.Max.Inclusive()) {
			return Failf(c, dc, validation.CodeRangeViolation, value, params)
		}
	}
	return Pass()
}

func typeLabel(dt values.DataType, kind values.DataKind) string {
	if dt != "" {
		return string(dt)
	}
	return kind.String()
}

func formatRange(rule metamodel.RangeRule) string {
	var b strings.Builder
	if rule.Min == nil {
		b.WriteString("(-inf")
	} else {
		if rule.Min.Inclusive() {
			b.WriteByte('[')
		} else {
			b.WriteByte('(')
		}
		fmt.Fprintf(&b, "%v", rule.Min.Value)
	}
	b.WriteString(", ")
	if rule.Max == nil {
		b.WriteString("+inf)")
	} else {
		fmt.Fprintf(&b, "%v", rule.Max.Value)
		if rule.Max.Inclusive() {
			b.WriteByte(']')
		} else {
			b.WriteByte(')')
		}
	}
	return b.String()
}

// checkFixedPoint limits the number of integer digits and the scale of a decimal.
func checkFixedPoint(_ *Evaluator, c *metamodel.Constraint, value any, dc DataContext) Result {
	rule, ok := c.Rule().(metamodel.FixedPointRule)
	if !ok {
		return malformed(c, dc, value, "rule is not a fixed point")
	}
	if rule.Scale < 0 || rule.Integer < 0 {
		return malformed(c, dc, value, "scale and integer digits must not be negative")
	}
	d, ok := toDecimal(value)
	if !ok {
		return Errorf(c, dc, validation.CodeTypeMismatch, value, map[string]string{"type": string(values.DataTypeDecimal)})
	}

	text := d.Abs().String()
	intPart, fracPart, _ := strings.Cut(text, ".")
	intDigits := len(strings.TrimLeft(intPart, "0"))
	scale := len(strings.TrimRight(fracPart, "0"))

	if intDigits > int(rule.Integer) || scale > int(rule.Scale) {
		return Failf(c, dc, validation.CodeFixedPointViolation, value, map[string]string{
			"integer": fmt.Sprintf("%d", rule.Integer),
			"scale":   fmt.Sprintf("%d", rule.Scale),
		})
	}
	return Pass()
}
