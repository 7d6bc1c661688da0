package metamodel

import (
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// PropertyContainer is an element owning properties (Aspect or Entity).
type PropertyContainer interface {
	Element
	DescribedElement
	// Properties returns only the directly declared properties.
	Properties() []Property
	// AllProperties returns inherited properties first (base-most first),
	// followed by the directly declared ones.
	AllProperties() []Property
	// Extends returns the container this one inherits from, or nil.
	Extends() PropertyContainer
}

// Entity is a structured value type. Aspects are entities tagged with
// ModelClassAspect that cannot extend anything.
type Entity struct {
	MetaClass
	Described
	properties []Property
	extends    *Entity
}

// NewEntity builds an entity that optionally extends base. Properties must be
// owned by the entity, and payload names must stay unique across the whole
// inheritance chain.
func NewEntity(meta MetaClass, base *Entity, properties ...Property) (*Entity, error) {
	meta.modelClass = ModelClassEntity
	return newEntity(meta, base, properties)
}

// NewAspect builds the root element of a model.
func NewAspect(meta MetaClass, properties ...Property) (*Entity, error) {
	meta.modelClass = ModelClassAspect
	return newEntity(meta, nil, properties)
}

func newEntity(meta MetaClass, base *Entity, properties []Property) (*Entity, error) {
	urn := meta.AspectModelURN()
	id := urn.String()

	for b := base; b != nil; b = b.extends {
		if b.AspectModelURN().Equals(urn) {
			return nil, newInvariantError(id, RuleInheritanceCycle, "entity extends itself")
		}
	}

	e := &Entity{MetaClass: meta, extends: base}
	seen := make(map[string]struct{})
	if base != nil {
		for _, p := range base.AllProperties() {
			seen[p.PayloadName()] = struct{}{}
		}
	}
	for _, p := range properties {
		if p == nil {
			return nil, newInvariantError(id, RuleForeignProperty, "nil property")
		}
		if !p.ContainingType().Equals(urn) {
			return nil, newInvariantError(p.AspectModelURN().String(), RuleForeignProperty,
				"property belongs to "+p.ContainingType().String())
		}
		if _, dup := seen[p.PayloadName()]; dup {
			return nil, newInvariantError(p.AspectModelURN().String(), RuleDuplicateName,
				"name "+p.PayloadName()+" already declared in "+id)
		}
		seen[p.PayloadName()] = struct{}{}
		e.properties = append(e.properties, p)
	}
	return e, nil
}

// Properties implements PropertyContainer.
func (e *Entity) Properties() []Property {
	out := make([]Property, len(e.properties))
	copy(out, e.properties)
	return out
}

// AllProperties implements PropertyContainer.
func (e *Entity) AllProperties() []Property {
	var chain []*Entity
	for cur := e; cur != nil; cur = cur.extends {
		chain = append(chain, cur)
	}
	var out []Property
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].properties...)
	}
	return out
}

// Extends implements PropertyContainer.
func (e *Entity) Extends() PropertyContainer {
	if e.extends == nil {
		return nil
	}
	return e.extends
}

// IsAspect reports whether e is the root element of a model.
func (e *Entity) IsAspect() bool {
	return e.ModelClass() == ModelClassAspect
}

// Property looks up a property (declared or inherited) by payload name.
func (e *Entity) Property(name string) (Property, bool) {
	for _, p := range e.AllProperties() {
		if p.PayloadName() == name {
			return p, true
		}
	}
	return nil, false
}

// PropertyByURN looks up a property (declared or inherited) by URN.
func (e *Entity) PropertyByURN(urn values.AspectModelURN) (Property, bool) {
	for _, p := range e.AllProperties() {
		if p.AspectModelURN().Equals(urn) {
			return p, true
		}
	}
	return nil, false
}
