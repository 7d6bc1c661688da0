// Package units provides the unit catalog that resolves unit URNs to symbols.
package units

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

//go:embed units.yaml
var embeddedCatalog []byte

// Unit is one catalog entry.
type Unit struct {
	Name          string   `yaml:"name"`
	Symbol        string   `yaml:"symbol"`
	QuantityKinds []string `yaml:"quantityKinds"`
}

type catalogFile struct {
	Units []Unit `yaml:"units"`
}

// Catalog maps unit names and URNs to symbols. Lookups by full URN win
// over lookups by local name. Safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	byName map[string]Unit
	byURN  map[string]Unit
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]Unit), byURN: make(map[string]Unit)}
}

// Embedded returns a catalog holding the built-in units.
func Embedded() (*Catalog, error) {
	c := NewCatalog()
	if err := c.LoadFromReader(bytes.NewReader(embeddedCatalog)); err != nil {
		return nil, fmt.Errorf("failed to load embedded unit catalog: %w", err)
	}
	return c, nil
}

// Load reads a catalog file. An empty path yields the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Embedded()
	}

	// Security: Use os.OpenRoot to prevent path traversal attacks
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open unit catalog directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open unit catalog: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	c := NewCatalog()
	if err := c.LoadFromReader(file); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFromReader adds every unit of a YAML catalog.
func (c *Catalog) LoadFromReader(r io.Reader) error {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return fmt.Errorf("failed to decode unit catalog YAML: %w", err)
	}
	for _, u := range f.Units {
		if err := c.Add(u); err != nil {
			return err
		}
	}
	return nil
}

// Add registers or replaces a unit. A name starting with "urn:" is stored as
// a full URN, anything else as a local name.
func (c *Catalog) Add(u Unit) error {
	if u.Name == "" {
		return fmt.Errorf("unit without name")
	}
	if u.Symbol == "" {
		return fmt.Errorf("unit %s has no symbol", u.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if urn, err := values.ParseAspectModelURN(u.Name); err == nil {
		c.byURN[urn.String()] = u
		return nil
	}
	c.byName[u.Name] = u
	return nil
}

// Override replaces or adds symbols, keyed by unit name or URN.
func (c *Catalog) Override(symbols map[string]string) error {
	for name, symbol := range symbols {
		u, _ := c.lookupName(name)
		u.Name = name
		u.Symbol = symbol
		if err := c.Add(u); err != nil {
			return err
		}
	}
	return nil
}

// Symbol implements services.UnitResolver.
func (c *Catalog) Symbol(unit values.AspectModelURN) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if u, ok := c.byURN[unit.String()]; ok {
		return u.Symbol, true
	}
	if unit.ElementType() != "" && unit.ElementType() != values.URNTypeUnit {
		return "", false
	}
	u, ok := c.byName[unit.Name()]
	return u.Symbol, ok
}

// Units lists all entries sorted by name.
func (c *Catalog) Units() []Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Unit, 0, len(c.byName)+len(c.byURN))
	for _, u := range c.byName {
		out = append(out, u)
	}
	for _, u := range c.byURN {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byName) + len(c.byURN)
}

func (c *Catalog) lookupName(name string) (Unit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if u, ok := c.byURN[name]; ok {
		return u, true
	}
	u, ok := c.byName[name]
	return u, ok
}
