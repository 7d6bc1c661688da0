package metamodel

import (
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// Property is the non-generic view of every property variant. Variants differ
// only in PropertyType and in which capability interfaces they implement
// (Constrained, Measured, Contained).
type Property interface {
	Element
	DescribedElement
	PropertyType() values.PropertyType
	ContainingType() values.AspectModelURN
	DataType() values.DataType
	Characteristic() *Characteristic
	Entity() PropertyContainer
	IsOptional() bool
	PayloadName() string
	// Resolve extracts this property's value from a host instance: a native
	// host of the property's host type, a map[string]any or a Record.
	Resolve(instance any) (any, bool)
}

// Record is graph-shaped instance data addressable by payload name.
type Record interface {
	Get(name string) (any, bool)
}

// Constrained is implemented by properties carrying constraints.
type Constrained interface {
	Constraints() []*Constraint
}

// Measured is implemented by properties declaring a measurement unit.
type Measured interface {
	Unit() values.AspectModelURN
}

// Contained is implemented by properties holding a collection.
type Contained interface {
	ElementType() values.DataType
	ElementEntity() PropertyContainer
	IsOrdered() bool
	IsUnique() bool
}

// PropertySpec holds the attributes common to all property variants.
type PropertySpec struct {
	Meta           MetaClass
	ContainingType values.AspectModelURN
	DataType       values.DataType
	Characteristic *Characteristic
	// Entity describes the structure of entity-typed values.
	Entity      PropertyContainer
	Optional    bool
	PayloadName string
}

// ContainerSpec holds the immutable shape of a collection property.
type ContainerSpec struct {
	ElementType   values.DataType
	ElementEntity PropertyContainer
	Ordered       bool
	Unique        bool
}

type propertyCore struct {
	MetaClass
	Described
	containing     values.AspectModelURN
	dataType       values.DataType
	characteristic *Characteristic
	entity         PropertyContainer
	optional       bool
	payloadName    string
}

func newPropertyCore(spec PropertySpec) (propertyCore, error) {
	id := spec.Meta.AspectModelURN().String()
	if spec.ContainingType.IsZero() {
		return propertyCore{}, newInvariantError(id, RuleMissingContainingType, "property has no containing element")
	}
	if spec.DataType.Kind() == values.KindUnknown {
		return propertyCore{}, newInvariantError(id, RuleInvalidDataType, string(spec.DataType))
	}
	if spec.DataType == values.DataTypeEntity && spec.Entity == nil {
		return propertyCore{}, newInvariantError(id, RuleInvalidDataType, "entity-typed property without entity")
	}

	meta := spec.Meta
	meta.modelClass = ModelClassProperty
	payload := spec.PayloadName
	if payload == "" {
		payload = meta.Name()
	}

	return propertyCore{
		MetaClass:      meta,
		containing:     spec.ContainingType,
		dataType:       spec.DataType,
		characteristic: spec.Characteristic,
		entity:         spec.Entity,
		optional:       spec.Optional,
		payloadName:    payload,
	}, nil
}

// ContainingType returns the URN of the owning element. Never zero.
func (p *propertyCore) ContainingType() values.AspectModelURN { return p.containing }

// DataType returns the declared value type.
func (p *propertyCore) DataType() values.DataType { return p.dataType }

// Characteristic returns the classification, or nil.
func (p *propertyCore) Characteristic() *Characteristic { return p.characteristic }

// Entity returns the structure of entity-typed values, or nil.
func (p *propertyCore) Entity() PropertyContainer { return p.entity }

// IsOptional reports whether the value may be absent.
func (p *propertyCore) IsOptional() bool { return p.optional }

// PayloadName returns the key used in instance data.
func (p *propertyCore) PayloadName() string { return p.payloadName }

func lookupPayload(instance any, name string) (any, bool) {
	var (
		v  any
		ok bool
	)
	switch host := instance.(type) {
	case map[string]any:
		v, ok = host[name]
	case Record:
		v, ok = host.Get(name)
	}
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

type constraintBundle struct {
	constraints []*Constraint
}

// Constraints returns the directly attached constraints in declaration order.
func (b constraintBundle) Constraints() []*Constraint {
	out := make([]*Constraint, len(b.constraints))
	copy(out, b.constraints)
	return out
}

func newConstraintBundle(owner values.AspectModelURN, constraints []*Constraint) (constraintBundle, error) {
	for _, c := range constraints {
		if c == nil {
			return constraintBundle{}, newInvariantError(owner.String(), RuleMissingRule, "nil constraint")
		}
		if c.Target().Kind != TargetProperty || !c.ContainingType().Equals(owner) {
			return constraintBundle{}, newInvariantError(c.AspectModelURN().String(), RuleForeignConstraint,
				"constraint does not target "+owner.String())
		}
	}
	out := make([]*Constraint, len(constraints))
	copy(out, constraints)
	return constraintBundle{constraints: out}, nil
}

type unitBundle struct {
	unit values.AspectModelURN
}

// Unit returns the declared measurement unit.
func (b unitBundle) Unit() values.AspectModelURN { return b.unit }

func newUnitBundle(owner values.AspectModelURN, unit values.AspectModelURN) (unitBundle, error) {
	if unit.IsZero() {
		return unitBundle{}, newInvariantError(owner.String(), RuleMissingUnit, "unit property declares no unit")
	}
	return unitBundle{unit: unit}, nil
}

type containerBundle struct {
	shape ContainerSpec
}

// ElementType returns the declared type of the collection's elements.
func (b containerBundle) ElementType() values.DataType { return b.shape.ElementType }

// ElementEntity returns the structure of entity elements, or nil.
func (b containerBundle) ElementEntity() PropertyContainer { return b.shape.ElementEntity }

// IsOrdered reports whether element order is significant.
func (b containerBundle) IsOrdered() bool { return b.shape.Ordered }

// IsUnique reports whether duplicates are forbidden.
func (b containerBundle) IsUnique() bool { return b.shape.Unique }

func newContainerBundle(owner values.AspectModelURN, shape ContainerSpec) (containerBundle, error) {
	if shape.ElementType.Kind() == values.KindUnknown {
		return containerBundle{}, newInvariantError(owner.String(), RuleInvalidDataType, "element type "+string(shape.ElementType))
	}
	if shape.ElementType == values.DataTypeEntity && shape.ElementEntity == nil {
		return containerBundle{}, newInvariantError(owner.String(), RuleInvalidDataType, "entity elements without entity")
	}
	return containerBundle{shape: shape}, nil
}
