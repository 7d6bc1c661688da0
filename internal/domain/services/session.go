package services

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// Checks run for each property in this order; diagnostics sort by
// (property, stage, constraint, element).
const (
	stagePresence = iota
	stageUnit
	stageType
	stageEnumeration
	stageUniqueness
	stageConstraints
	stageNested
)

// Session validates instances against a property container. It borrows the
// model graph read-only and keeps no state between calls, so one Session may
// validate many instances concurrently.
type Session struct {
	evaluator      *Evaluator
	units          UnitResolver
	maxConcurrency int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMaxConcurrency evaluates up to n top-level properties in parallel.
// n <= 1 evaluates sequentially.
func WithMaxConcurrency(n int) SessionOption {
	return func(s *Session) {
		s.maxConcurrency = n
	}
}

// NewSession creates a validation session.
func NewSession(evaluator *Evaluator, units UnitResolver, opts ...SessionOption) *Session {
	if evaluator == nil {
		evaluator = NewEvaluator()
	}
	s := &Session{evaluator: evaluator, units: units, maxConcurrency: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks instance against every property of container, including
// inherited ones. Every Fail and Error is collected; one violation never
// hides another. Diagnostics are ordered by declaration regardless of the
// order in which parallel evaluation completes.
func (s *Session) Validate(container metamodel.PropertyContainer, instance any) *validation.Report {
	report := validation.NewReport(container.AspectModelURN().String())
	dc := NewDataContext(s.units, instance).WithContainer(container)
	props := container.AllProperties()

	if s.maxConcurrency > 1 && len(props) > 1 {
		var g errgroup.Group
		g.SetLimit(s.maxConcurrency)
		for i, p := range props {
			g.Go(func() error {
				s.validateProperty(report, dc, p, "", []int{i})
				return nil // Failures are reported, never returned
			})
		}
		_ = g.Wait()
	} else {
		for i, p := range props {
			s.validateProperty(report, dc, p, "", []int{i})
		}
	}

	report.Finalize()
	return report
}

func (s *Session) validateProperty(report *validation.Report, dc DataContext, p metamodel.Property, parent string, order []int) {
	report.CountProperty()
	path := joinPath(parent, p.PayloadName())
	pdc := dc.ForProperty(p, path)

	value, ok := p.Resolve(dc.instance)
	if !ok {
		if !p.IsOptional() {
			report.Add(propertyDiagnostic(values.StatusFail, validation.CodeRequiredPropertyMissing,
				p, path, nil, nil, extend(order, stagePresence)))
		}
		return
	}

	if m, ok := p.(metamodel.Measured); ok {
		if unit, found := pdc.ResolveUnit(m.Unit()); found {
			pdc = pdc.WithUnit(unit)
		} else {
			report.Add(propertyDiagnostic(values.StatusError, validation.CodeUnresolvableUnit,
				p, path, value, map[string]string{"unit": m.Unit().String()}, extend(order, stageUnit)))
		}
	}

	if ct, ok := p.(metamodel.Contained); ok {
		s.validateCollection(report, pdc, p, ct, value, order)
		return
	}

	if !conforms(p.DataType(), value) {
		report.Add(propertyDiagnostic(values.StatusError, validation.CodeTypeMismatch,
			p, path, value, map[string]string{"type": string(p.DataType())}, extend(order, stageType)))
		return
	}
	if d, bad := checkEnumeration(p, value, path, extend(order, stageEnumeration)); bad {
		report.Add(d)
	}
	if cp, ok := p.(metamodel.Constrained); ok {
		for j, c := range cp.Constraints() {
			s.record(report, c, value, pdc, extend(order, stageConstraints, j))
		}
	}
	if ent := p.Entity(); ent != nil {
		s.validateNested(report, ent, value, path, extend(order, stageNested))
	}
}

func (s *Session) validateCollection(report *validation.Report, pdc DataContext, p metamodel.Property, ct metamodel.Contained, value any, order []int) {
	path := pdc.Path()
	elems, ok := sequence(value)
	if !ok {
		report.Add(propertyDiagnostic(values.StatusError, validation.CodeTypeMismatch,
			p, path, value, map[string]string{"type": "collection"}, extend(order, stageType)))
		return
	}

	valid := make([]bool, len(elems))
	for k, e := range elems {
		valid[k] = conforms(ct.ElementType(), e)
		if !valid[k] {
			report.Add(propertyDiagnostic(values.StatusError, validation.CodeTypeMismatch,
				p, elementPath(path, k), e, map[string]string{"type": string(ct.ElementType())},
				extend(order, stageType, k)))
			continue
		}
		if d, bad := checkEnumeration(p, e, elementPath(path, k), extend(order, stageEnumeration, k)); bad {
			report.Add(d)
		}
	}

	if ct.IsUnique() {
		if dup, k, found := firstDuplicate(elems); found {
			report.Add(propertyDiagnostic(values.StatusFail, validation.CodeDuplicateElement,
				p, elementPath(path, k), dup, nil, extend(order, stageUniqueness)))
		}
	}

	if cp, ok := p.(metamodel.Constrained); ok {
		elemDC := pdc.WithDataType(ct.ElementType())
		collDC := pdc
		if ct.IsUnique() {
			collDC = pdc.WithUniquenessChecked()
		}
		for j, c := range cp.Constraints() {
			if c.CollectionLevel() {
				s.record(report, c, value, collDC, extend(order, stageConstraints, j))
				continue
			}
			for k, e := range elems {
				if valid[k] {
					s.record(report, c, e, elemDC.WithPath(elementPath(path, k)), extend(order, stageConstraints, j, k))
				}
			}
		}
	}

	if ent := ct.ElementEntity(); ent != nil {
		for k, e := range elems {
			if valid[k] {
				s.validateNested(report, ent, e, elementPath(path, k), extend(order, stageNested, k))
			}
		}
	}
}

func (s *Session) validateNested(report *validation.Report, ent metamodel.PropertyContainer, value any, path string, order []int) {
	dc := NewDataContext(s.units, value).WithContainer(ent)
	for i, p := range ent.AllProperties() {
		s.validateProperty(report, dc, p, path, extend(order, i))
	}
}

func (s *Session) record(report *validation.Report, c *metamodel.Constraint, value any, dc DataContext, order []int) {
	res := s.evaluator.Evaluate(c, value, dc)
	report.CountEvaluation(res.Status)
	if res.Diagnostic != nil {
		d := *res.Diagnostic
		d.Order = order
		report.Add(d)
	}
}

func checkEnumeration(p metamodel.Property, value any, path string, order []int) (validation.Diagnostic, bool) {
	ch := p.Characteristic()
	if ch == nil || !ch.IsEnumerated() {
		return validation.Diagnostic{}, false
	}
	allowed := ch.AllowedValues()
	if len(allowed) == 0 {
		return validation.Diagnostic{}, false
	}

	key := string(canonicalKey(value))
	labels := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if string(canonicalKey(a)) == key {
			return validation.Diagnostic{}, false
		}
		labels = append(labels, formatValue(a))
	}
	sort.Strings(labels)
	return propertyDiagnostic(values.StatusFail, validation.CodeEnumerationViolation, p, path, value,
		map[string]string{"allowed": "[" + strings.Join(labels, ", ") + "]"}, order), true
}

func propertyDiagnostic(status values.Status, code validation.Code, p metamodel.Property, path string, value any, params map[string]string, order []int) validation.Diagnostic {
	all := map[string]string{
		"property": p.AspectModelURN().String(),
		"value":    formatValue(value),
	}
	for k, v := range params {
		all[k] = v
	}
	d := validation.NewDiagnostic(status, code, all)
	d.PropertyURN = p.AspectModelURN().String()
	d.Path = path
	d.Value = CopyValue(value)
	d.Order = order
	d.Message = d.Render()
	return d
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func elementPath(path string, index int) string {
	return fmt.Sprintf("%s[%d]", path, index)
}

func extend(order []int, more ...int) []int {
	out := make([]int, 0, len(order)+len(more))
	out = append(out, order...)
	return append(out, more...)
}
