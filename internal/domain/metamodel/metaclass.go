package metamodel

import (
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// ModelClass tags which meta-model class an element instantiates.
type ModelClass string

const (
	ModelClassAspect         ModelClass = "Aspect"
	ModelClassEntity         ModelClass = "Entity"
	ModelClassProperty       ModelClass = "Property"
	ModelClassCharacteristic ModelClass = "Characteristic"
	ModelClassConstraint     ModelClass = "Constraint"
	ModelClassUnit           ModelClass = "Unit"
)

// Element is the identity contract shared by every model element.
type Element interface {
	ModelClass() ModelClass
	AspectModelURN() values.AspectModelURN
	MetaModelVersion() values.MetaModelVersion
	Name() string
}

// MetaClass is the read-only identity of a model element.
type MetaClass struct {
	modelClass ModelClass
	urn        values.AspectModelURN
	version    values.MetaModelVersion
	name       string
}

// NewMetaClass builds a descriptor. The name defaults to the URN's local name.
func NewMetaClass(modelClass ModelClass, urn values.AspectModelURN, version values.MetaModelVersion, name string) (MetaClass, error) {
	if urn.IsZero() {
		return MetaClass{}, newInvariantError(name, RuleMissingURN, "every element needs a URN")
	}
	if name == "" {
		name = urn.Name()
	}
	if version.IsZero() {
		version = values.MustNewMetaModelVersion(values.DefaultMetaModelVersion)
	}
	return MetaClass{modelClass: modelClass, urn: urn, version: version, name: name}, nil
}

// MustNewMetaClass builds a descriptor from a URN string or panics (tests, static models).
func MustNewMetaClass(modelClass ModelClass, urn string) MetaClass {
	mc, err := NewMetaClass(modelClass, values.MustParseAspectModelURN(urn), values.MetaModelVersion{}, "")
	if err != nil {
		panic(err)
	}
	return mc
}

// ModelClass returns the meta-model class tag.
func (m MetaClass) ModelClass() ModelClass { return m.modelClass }

// AspectModelURN returns the element's global identifier.
func (m MetaClass) AspectModelURN() values.AspectModelURN { return m.urn }

// MetaModelVersion returns the meta-model schema version.
func (m MetaClass) MetaModelVersion() values.MetaModelVersion { return m.version }

// Name returns the display name.
func (m MetaClass) Name() string { return m.name }
