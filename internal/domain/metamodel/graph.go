package metamodel

import (
	"sort"
	"sync"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// Graph indexes every element of a loaded model by URN. It is safe for
// concurrent use; once loading is done it is only read.
type Graph struct {
	mu       sync.RWMutex
	elements map[string]Element
	order    []string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{elements: make(map[string]Element)}
}

// Register adds an element. Registering the same element twice is a no-op;
// a different element with an already registered URN is an invariant violation.
func (g *Graph) Register(el Element) error {
	key := el.AspectModelURN().String()

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.elements[key]; ok {
		if existing == el {
			return nil
		}
		return newInvariantError(key, RuleDuplicateURN, "URN already registered as "+string(existing.ModelClass()))
	}
	g.elements[key] = el
	g.order = append(g.order, key)
	return nil
}

// RegisterContainer registers c and everything reachable from it: base
// containers, properties, characteristics, constraint chains and nested
// entities.
func (g *Graph) RegisterContainer(c PropertyContainer) error {
	if err := g.Register(c); err != nil {
		return err
	}
	if base := c.Extends(); base != nil {
		if err := g.RegisterContainer(base); err != nil {
			return err
		}
	}
	for _, p := range c.Properties() {
		if err := g.registerProperty(p); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) registerProperty(p Property) error {
	if err := g.Register(p); err != nil {
		return err
	}
	if ch := p.Characteristic(); ch != nil {
		if err := g.Register(ch); err != nil {
			return err
		}
	}
	if cp, ok := p.(Constrained); ok {
		for _, c := range cp.Constraints() {
			for _, link := range c.Chain() {
				if err := g.Register(link); err != nil {
					return err
				}
			}
		}
	}
	if ent := p.Entity(); ent != nil {
		if err := g.RegisterContainer(ent); err != nil {
			return err
		}
	}
	if ct, ok := p.(Contained); ok && ct.ElementEntity() != nil {
		if err := g.RegisterContainer(ct.ElementEntity()); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the element registered under urn.
func (g *Graph) Lookup(urn values.AspectModelURN) (Element, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	el, ok := g.elements[urn.String()]
	return el, ok
}

// Len returns the number of registered elements.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.elements)
}

// Elements returns all elements in registration order.
func (g *Graph) Elements() []Element {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Element, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.elements[key])
	}
	return out
}

// Aspects returns the registered aspects sorted by URN.
func (g *Graph) Aspects() []*Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*Entity
	for _, el := range g.elements {
		if e, ok := el.(*Entity); ok && e.IsAspect() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AspectModelURN().String() < out[j].AspectModelURN().String()
	})
	return out
}

// Counts returns the number of registered elements per model class.
func (g *Graph) Counts() map[ModelClass]int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[ModelClass]int)
	for _, el := range g.elements {
		out[el.ModelClass()]++
	}
	return out
}
