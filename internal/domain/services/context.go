package services

import (
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// UnitResolver maps unit URNs to canonical symbols.
type UnitResolver interface {
	Symbol(unit values.AspectModelURN) (string, bool)
}

// StaticUnits is a UnitResolver backed by a map keyed by unit URN or by the
// unit's local name.
type StaticUnits map[string]string

// Symbol implements UnitResolver.
func (s StaticUnits) Symbol(unit values.AspectModelURN) (string, bool) {
	if sym, ok := s[unit.String()]; ok {
		return sym, true
	}
	sym, ok := s[unit.Name()]
	return sym, ok
}

// ResolvedUnit is a unit whose symbol has been looked up.
type ResolvedUnit struct {
	URN    values.AspectModelURN
	Symbol string
}

// DataContext gives rule checkers access to facts beyond the focus value:
// the unit side table, the host instance and the property being checked.
// It is a value type; the With* methods return modified copies.
type DataContext struct {
	units     UnitResolver
	instance  any
	container metamodel.PropertyContainer
	property  metamodel.Property
	dataType  values.DataType
	path      string
	unit      *ResolvedUnit
	// uniqueChecked marks collections whose container flag already reported
	// duplicates.
	uniqueChecked bool
}

// NewDataContext creates a context for one host instance.
func NewDataContext(units UnitResolver, instance any) DataContext {
	return DataContext{units: units, instance: instance}
}

// WithContainer sets the element describing the host instance.
func (dc DataContext) WithContainer(c metamodel.PropertyContainer) DataContext {
	dc.container = c
	return dc
}

// ForProperty focuses the context on p at the given payload path.
func (dc DataContext) ForProperty(p metamodel.Property, path string) DataContext {
	dc.property = p
	dc.dataType = p.DataType()
	dc.path = path
	dc.unit = nil
	dc.uniqueChecked = false
	return dc
}

// WithDataType overrides the declared type, e.g. for collection elements.
func (dc DataContext) WithDataType(dt values.DataType) DataContext {
	dc.dataType = dt
	return dc
}

// WithPath overrides the payload path.
func (dc DataContext) WithPath(path string) DataContext {
	dc.path = path
	return dc
}

// WithUnit attaches a resolved unit for wrapped constraints.
func (dc DataContext) WithUnit(u ResolvedUnit) DataContext {
	dc.unit = &u
	return dc
}

// WithUniquenessChecked marks the focus collection as already checked for
// duplicate elements.
func (dc DataContext) WithUniquenessChecked() DataContext {
	dc.uniqueChecked = true
	return dc
}

// UniquenessChecked reports whether duplicates were already reported for
// the focus collection.
func (dc DataContext) UniquenessChecked() bool { return dc.uniqueChecked }

// Property returns the property under evaluation, or nil.
func (dc DataContext) Property() metamodel.Property { return dc.property }

// DataType returns the declared type of the focus value.
func (dc DataContext) DataType() values.DataType { return dc.dataType }

// Path returns the payload path of the focus value.
func (dc DataContext) Path() string { return dc.path }

// Unit returns the unit resolved by an enclosing unit constraint or declared
// by the property.
func (dc DataContext) Unit() (ResolvedUnit, bool) {
	if dc.unit == nil {
		return ResolvedUnit{}, false
	}
	return *dc.unit, true
}

// ResolveUnit looks up a unit symbol in the side table.
func (dc DataContext) ResolveUnit(urn values.AspectModelURN) (ResolvedUnit, bool) {
	if dc.units == nil {
		return ResolvedUnit{}, false
	}
	sym, ok := dc.units.Symbol(urn)
	if !ok {
		return ResolvedUnit{}, false
	}
	return ResolvedUnit{URN: urn, Symbol: sym}, true
}

// Sibling resolves another property of the host instance by payload name.
func (dc DataContext) Sibling(name string) (any, bool) {
	if dc.container != nil {
		for _, p := range dc.container.AllProperties() {
			if p.PayloadName() == name {
				return p.Resolve(dc.instance)
			}
		}
		return nil, false
	}
	switch host := dc.instance.(type) {
	case map[string]any:
		v, ok := host[name]
		return v, ok && v != nil
	case metamodel.Record:
		return host.Get(name)
	}
	return nil, false
}

// Siblings returns every resolvable value of the host instance keyed by
// payload name.
func (dc DataContext) Siblings() map[string]any {
	out := make(map[string]any)
	if dc.container != nil {
		for _, p := range dc.container.AllProperties() {
			if v, ok := p.Resolve(dc.instance); ok {
				out[p.PayloadName()] = v
			}
		}
		return out
	}
	if host, ok := dc.instance.(map[string]any); ok {
		for k, v := range host {
			out[k] = v
		}
	}
	return out
}
