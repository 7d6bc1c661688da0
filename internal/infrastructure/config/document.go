// Package config reads aspect model documents and instance data from disk.
// Model documents are YAML, checked against an embedded JSON Schema and then
// built into a metamodel.Graph.
package config

// ModelDocument is the YAML form of one aspect model namespace.
type ModelDocument struct {
	Namespace        string              `yaml:"namespace"`
	MetaModelVersion string              `yaml:"metaModelVersion"`
	Characteristics  []CharacteristicDoc `yaml:"characteristics"`
	Entities         []EntityDoc         `yaml:"entities"`
	Aspect           AspectDoc           `yaml:"aspect"`
}

// DescribedDoc carries the localized description facet of any element.
type DescribedDoc struct {
	PreferredName map[string]string `yaml:"preferredName"`
	Description   map[string]string `yaml:"description"`
	See           []string          `yaml:"see"`
}

// CharacteristicDoc declares a reusable characteristic.
type CharacteristicDoc struct {
	DescribedDoc `yaml:",inline"`
	Name         string `yaml:"name"`
	Kind         string `yaml:"kind"`
	DataType     string `yaml:"dataType"`
	Values       []any  `yaml:"values"`
}

// EntityDoc declares an entity and its properties.
type EntityDoc struct {
	DescribedDoc `yaml:",inline"`
	Name         string        `yaml:"name"`
	Extends      string        `yaml:"extends"`
	Properties   []PropertyDoc `yaml:"properties"`
}

// AspectDoc declares the root element.
type AspectDoc struct {
	DescribedDoc `yaml:",inline"`
	Name         string        `yaml:"name"`
	Properties   []PropertyDoc `yaml:"properties"`
}

// PropertyDoc declares a property. The combination of Collection, Unit and
// Constraints decides which property variant is built.
type PropertyDoc struct {
	DescribedDoc   `yaml:",inline"`
	Name           string          `yaml:"name"`
	DataType       string          `yaml:"dataType"`
	Characteristic string          `yaml:"characteristic"`
	Entity         string          `yaml:"entity"`
	Optional       bool            `yaml:"optional"`
	PayloadName    string          `yaml:"payloadName"`
	Unit           string          `yaml:"unit"`
	Collection     *CollectionDoc  `yaml:"collection"`
	Constraints    []ConstraintDoc `yaml:"constraints"`
}

// CollectionDoc is the shape of a collection-valued property.
type CollectionDoc struct {
	ElementType   string `yaml:"elementType"`
	ElementEntity string `yaml:"elementEntity"`
	Ordered       bool   `yaml:"ordered"`
	Unique        bool   `yaml:"unique"`
}

// BoundDoc is one side of a range constraint.
type BoundDoc struct {
	Value      any    `yaml:"value"`
	Definition string `yaml:"definition"`
}

// ConstraintDoc declares a constraint. Only the fields of its kind are read.
type ConstraintDoc struct {
	DescribedDoc `yaml:",inline"`
	Name         string         `yaml:"name"`
	Kind         string         `yaml:"kind"`
	Pattern      string         `yaml:"pattern"`
	Min          *BoundDoc      `yaml:"min"`
	Max          *BoundDoc      `yaml:"max"`
	MinLength    *uint64        `yaml:"minLength"`
	MaxLength    *uint64        `yaml:"maxLength"`
	Unique       bool           `yaml:"unique"`
	Unit         string         `yaml:"unit"`
	Encoding     string         `yaml:"encoding"`
	Language     string         `yaml:"language"`
	Locale       string         `yaml:"locale"`
	Scale        int32          `yaml:"scale"`
	Integer      int32          `yaml:"integer"`
	Expression   string         `yaml:"expression"`
	Inner        *ConstraintDoc `yaml:"inner"`
}
