package metamodel

import (
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// BaseProperty is a plain property of host type C with values of type T.
type BaseProperty[C, T any] struct {
	propertyCore
	getter func(C) (T, bool)
}

// NewProperty builds a plain property. getter may be nil when the property
// is only resolved from graph-shaped data.
func NewProperty[C, T any](spec PropertySpec, getter func(C) (T, bool)) (*BaseProperty[C, T], error) {
	core, err := newPropertyCore(spec)
	if err != nil {
		return nil, err
	}
	return &BaseProperty[C, T]{propertyCore: core, getter: getter}, nil
}

// PropertyType implements Property.
func (p *BaseProperty[C, T]) PropertyType() values.PropertyType {
	return values.PropertyTypePlain
}

// Value reads the property from a typed host.
func (p *BaseProperty[C, T]) Value(host C) (T, bool) {
	if p.getter == nil {
		var zero T
		return zero, false
	}
	return p.getter(host)
}

// Resolve implements Property.
func (p *BaseProperty[C, T]) Resolve(instance any) (any, bool) {
	if host, ok := instance.(C); ok && p.getter != nil {
		v, ok := p.getter(host)
		if !ok {
			return nil, false
		}
		return v, true
	}
	return lookupPayload(instance, p.payloadName)
}

// ContainerProperty is a property whose values are collections of E.
type ContainerProperty[C, T, E any] struct {
	BaseProperty[C, T]
	containerBundle
}

// NewContainerProperty builds a collection property. The shape is fixed for the
// lifetime of the property.
func NewContainerProperty[C, T, E any](spec PropertySpec, shape ContainerSpec, getter func(C) (T, bool)) (*ContainerProperty[C, T, E], error) {
	base, err := NewProperty[C, T](spec, getter)
	if err != nil {
		return nil, err
	}
	bundle, err := newContainerBundle(base.AspectModelURN(), shape)
	if err != nil {
		return nil, err
	}
	return &ContainerProperty[C, T, E]{BaseProperty: *base, containerBundle: bundle}, nil
}

// PropertyType implements Property.
func (p *ContainerProperty[C, T, E]) PropertyType() values.PropertyType {
	return values.PropertyTypeContainer
}

// Elements reads the collection from a typed host.
func (p *ContainerProperty[C, T, E]) Elements(host C) ([]E, bool) {
	return elementsOf[C, T, E](&p.BaseProperty, host)
}

// ConstraintProperty is a property restricted by constraints.
type ConstraintProperty[C, T any] struct {
	BaseProperty[C, T]
	constraintBundle
}

// NewConstraintProperty builds a constrained property. Every constraint must
// target the property.
func NewConstraintProperty[C, T any](spec PropertySpec, constraints []*Constraint, getter func(C) (T, bool)) (*ConstraintProperty[C, T], error) {
	base, err := NewProperty[C, T](spec, getter)
	if err != nil {
		return nil, err
	}
	bundle, err := newConstraintBundle(base.AspectModelURN(), constraints)
	if err != nil {
		return nil, err
	}
	return &ConstraintProperty[C, T]{BaseProperty: *base, constraintBundle: bundle}, nil
}

// PropertyType implements Property.
func (p *ConstraintProperty[C, T]) PropertyType() values.PropertyType {
	return values.PropertyTypeConstraint
}

// UnitProperty is a measured property.
type UnitProperty[C, T any] struct {
	BaseProperty[C, T]
	unitBundle
}

// NewUnitProperty builds a property expressed in unit.
func NewUnitProperty[C, T any](spec PropertySpec, unit values.AspectModelURN, getter func(C) (T, bool)) (*UnitProperty[C, T], error) {
	base, err := NewProperty[C, T](spec, getter)
	if err != nil {
		return nil, err
	}
	bundle, err := newUnitBundle(base.AspectModelURN(), unit)
	if err != nil {
		return nil, err
	}
	return &UnitProperty[C, T]{BaseProperty: *base, unitBundle: bundle}, nil
}

// PropertyType implements Property.
func (p *UnitProperty[C, T]) PropertyType() values.PropertyType {
	return values.PropertyTypeUnit
}

// ConstraintUnitProperty is a measured property restricted by constraints.
type ConstraintUnitProperty[C, T any] struct {
	BaseProperty[C, T]
	constraintBundle
	unitBundle
}

// NewConstraintUnitProperty builds a measured, constrained property.
func NewConstraintUnitProperty[C, T any](spec PropertySpec, unit values.AspectModelURN, constraints []*Constraint, getter func(C) (T, bool)) (*ConstraintUnitProperty[C, T], error) {
	base, err := NewProperty[C, T](spec, getter)
	if err != nil {
		return nil, err
	}
	units, err := newUnitBundle(base.AspectModelURN(), unit)
	if err != nil {
		return nil, err
	}
	bundle, err := newConstraintBundle(base.AspectModelURN(), constraints)
	if err != nil {
		return nil, err
	}
	return &ConstraintUnitProperty[C, T]{BaseProperty: *base, constraintBundle: bundle, unitBundle: units}, nil
}

// PropertyType implements Property.
func (p *ConstraintUnitProperty[C, T]) PropertyType() values.PropertyType {
	return values.PropertyTypeConstraintUnit
}

// ConstraintContainerProperty is a collection property restricted by constraints.
type ConstraintContainerProperty[C, T, E any] struct {
	BaseProperty[C, T]
	constraintBundle
	containerBundle
}

// NewConstraintContainerProperty builds a constrained collection property.
func NewConstraintContainerProperty[C, T, E any](spec PropertySpec, shape ContainerSpec, constraints []*Constraint, getter func(C) (T, bool)) (*ConstraintContainerProperty[C, T, E], error) {
	base, err := NewProperty[C, T](spec, getter)
	if err != nil {
		return nil, err
	}
	container, err := newContainerBundle(base.AspectModelURN(), shape)
	if err != nil {
		return nil, err
	}
	bundle, err := newConstraintBundle(base.AspectModelURN(), constraints)
	if err != nil {
		return nil, err
	}
	return &ConstraintContainerProperty[C, T, E]{BaseProperty: *base, constraintBundle: bundle, containerBundle: container}, nil
}

// PropertyType implements Property.
func (p *ConstraintContainerProperty[C, T, E]) PropertyType() values.PropertyType {
	return values.PropertyTypeConstraintContainer
}

// Elements reads the collection from a typed host.
func (p *ConstraintContainerProperty[C, T, E]) Elements(host C) ([]E, bool) {
	return elementsOf[C, T, E](&p.BaseProperty, host)
}

func elementsOf[C, T, E any](p *BaseProperty[C, T], host C) ([]E, bool) {
	v, ok := p.Value(host)
	if !ok {
		return nil, false
	}
	elems, ok := any(v).([]E)
	return elems, ok
}

// Compile-time checks of the capability bundles each variant exposes.
var (
	_ Property    = (*BaseProperty[any, any])(nil)
	_ Property    = (*ContainerProperty[any, any, any])(nil)
	_ Contained   = (*ContainerProperty[any, any, any])(nil)
	_ Property    = (*ConstraintProperty[any, any])(nil)
	_ Constrained = (*ConstraintProperty[any, any])(nil)
	_ Property    = (*UnitProperty[any, any])(nil)
	_ Measured    = (*UnitProperty[any, any])(nil)
	_ Constrained = (*ConstraintUnitProperty[any, any])(nil)
	_ Measured    = (*ConstraintUnitProperty[any, any])(nil)
	_ Constrained = (*ConstraintContainerProperty[any, any, any])(nil)
	_ Contained   = (*ConstraintContainerProperty[any, any, any])(nil)
)
