// Package services contains the stateless domain services that evaluate
// constraints and validate instances against an aspect model.
package services

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// Result is the outcome of evaluating one constraint against one value.
// Diagnostic is nil on Pass.
type Result struct {
	Diagnostic *validation.Diagnostic
	Status     values.Status
	delegated  bool
}

// Passed reports whether the constraint held.
func (r Result) Passed() bool { return r.Status == values.StatusPass }

// CheckFunc decides a single constraint kind. Checkers must not evaluate the
// inner constraint themselves unless they return the result of Delegate.
type CheckFunc func(ev *Evaluator, c *metamodel.Constraint, value any, dc DataContext) Result

// Default expression limits.
const (
	DefaultMaxExpressionLength = 1000
	DefaultMaxExpressionNodes  = 100
)

// Evaluator decides constraints. Checkers are looked up by constraint kind,
// so new kinds are added with Register. Compiled patterns and expressions are
// cached; an Evaluator is safe for concurrent use by many sessions.
type Evaluator struct {
	checkers   map[metamodel.ConstraintKind]CheckFunc
	checkersMu sync.RWMutex

	patternCache map[string]*regexp.Regexp
	programCache map[string]*vm.Program
	cacheMu      sync.RWMutex

	maxExpressionLength int
	maxExpressionNodes  uint
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithExpressionLimits bounds expression constraints by length and AST size.
func WithExpressionLimits(maxLength int, maxNodes uint) EvaluatorOption {
	return func(e *Evaluator) {
		if maxLength > 0 {
			e.maxExpressionLength = maxLength
		}
		if maxNodes > 0 {
			e.maxExpressionNodes = maxNodes
		}
	}
}

// NewEvaluator creates an evaluator with checkers for every built-in kind.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		checkers:            make(map[metamodel.ConstraintKind]CheckFunc),
		patternCache:        make(map[string]*regexp.Regexp),
		programCache:        make(map[string]*vm.Program),
		maxExpressionLength: DefaultMaxExpressionLength,
		maxExpressionNodes:  DefaultMaxExpressionNodes,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.Register(metamodel.ConstraintPattern, checkPattern)
	e.Register(metamodel.ConstraintRange, checkRange)
	e.Register(metamodel.ConstraintLength, checkLength)
	e.Register(metamodel.ConstraintUnit, checkUnit)
	e.Register(metamodel.ConstraintEncoding, checkEncoding)
	e.Register(metamodel.ConstraintLanguage, checkLanguage)
	e.Register(metamodel.ConstraintLocale, checkLocale)
	e.Register(metamodel.ConstraintFixedPoint, checkFixedPoint)
	e.Register(metamodel.ConstraintExpression, checkExpression)
	return e
}

// Register installs or replaces the checker for a constraint kind.
func (e *Evaluator) Register(kind metamodel.ConstraintKind, fn CheckFunc) {
	e.checkersMu.Lock()
	defer e.checkersMu.Unlock()
	e.checkers[kind] = fn
}

// Kinds returns the registered constraint kinds, sorted.
func (e *Evaluator) Kinds() []metamodel.ConstraintKind {
	e.checkersMu.RLock()
	defer e.checkersMu.RUnlock()
	kinds := make([]metamodel.ConstraintKind, 0, len(e.checkers))
	for k := range e.checkers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Evaluate decides c against value. When the constraint's own rule holds,
// its inner constraint (if any) is evaluated against the same value.
// Evaluate has no side effects other than warming the compile caches.
func (e *Evaluator) Evaluate(c *metamodel.Constraint, value any, dc DataContext) Result {
	e.checkersMu.RLock()
	fn, ok := e.checkers[c.PropertyType()]
	e.checkersMu.RUnlock()

	if !ok {
		return Errorf(c, dc, validation.CodeUnknownConstraint, value, map[string]string{
			"kind": string(c.PropertyType()),
		})
	}

	res := fn(e, c, value, dc)
	if res.Passed() && !res.delegated {
		return e.Delegate(c, value, dc)
	}
	return res
}

// Delegate evaluates the inner constraint of c, or passes when there is none.
func (e *Evaluator) Delegate(c *metamodel.Constraint, value any, dc DataContext) Result {
	res := Result{Status: values.StatusPass}
	if inner := c.Inner(); inner != nil {
		res = e.Evaluate(inner, value, dc)
	}
	res.delegated = true
	return res
}

// Pass is the result of a constraint that holds.
func Pass() Result {
	return Result{Status: values.StatusPass}
}

// Failf builds a Fail result: the data violates c.
func Failf(c *metamodel.Constraint, dc DataContext, code validation.Code, value any, params map[string]string) Result {
	return newResult(values.StatusFail, c, dc, code, value, params)
}

// Errorf builds an Error result: c or the context is malformed.
func Errorf(c *metamodel.Constraint, dc DataContext, code validation.Code, value any, params map[string]string) Result {
	return newResult(values.StatusError, c, dc, code, value, params)
}

func newResult(status values.Status, c *metamodel.Constraint, dc DataContext, code validation.Code, value any, params map[string]string) Result {
	all := map[string]string{
		"value":      formatValue(value),
		"constraint": c.AspectModelURN().String(),
	}
	for k, v := range params {
		all[k] = v
	}

	d := validation.NewDiagnostic(status, code, all)
	d.ConstraintURN = c.AspectModelURN().String()
	d.Path = dc.Path()
	d.Value = CopyValue(value)
	if p := dc.Property(); p != nil {
		d.PropertyURN = p.AspectModelURN().String()
	} else {
		d.PropertyURN = c.ContainingType().String()
	}
	if _, ok := all["property"]; !ok {
		all["property"] = d.PropertyURN
	}
	d.Message = d.Render()

	return Result{Status: status, Diagnostic: &d}
}

func formatValue(v any) string {
	if v == nil {
		return "<absent>"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

// getOrCompilePattern retrieves a cached regexp or compiles and caches a new one.
func (e *Evaluator) getOrCompilePattern(pattern string) (*regexp.Regexp, error) {
	e.cacheMu.RLock()
	re, found := e.patternCache[pattern]
	e.cacheMu.RUnlock()
	if found {
		return re, nil
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if re, found := e.patternCache[pattern]; found {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	e.patternCache[pattern] = re
	return re, nil
}

// getOrCompileExpression retrieves a cached program or compiles and caches a new one.
func (e *Evaluator) getOrCompileExpression(expression string, options []expr.Option) (*vm.Program, error) {
	e.cacheMu.RLock()
	program, found := e.programCache[expression]
	e.cacheMu.RUnlock()
	if found {
		return program, nil
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	// Another goroutine may have compiled it while we waited.
	if program, found := e.programCache[expression]; found {
		return program, nil
	}
	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	e.programCache[expression] = program
	return program, nil
}
