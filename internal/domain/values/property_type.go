package values

import "fmt"

// PropertyType classifies the shape of a property. It is the single
// discriminator new property kinds have to provide.
type PropertyType string

const (
	PropertyTypePlain               PropertyType = "plain"
	PropertyTypeContainer           PropertyType = "container"
	PropertyTypeConstraint          PropertyType = "constraint"
	PropertyTypeUnit                PropertyType = "unit"
	PropertyTypeConstraintUnit      PropertyType = "constraint-unit"
	PropertyTypeConstraintContainer PropertyType = "constraint-container"
)

// Validate returns an error if the property type is unknown
func (p PropertyType) Validate() error {
	switch p {
	case PropertyTypePlain, PropertyTypeContainer, PropertyTypeConstraint,
		PropertyTypeUnit, PropertyTypeConstraintUnit, PropertyTypeConstraintContainer:
		return nil
	default:
		return fmt.Errorf("invalid property type: %q", string(p))
	}
}

// HasConstraints reports whether properties of this type carry constraints.
func (p PropertyType) HasConstraints() bool {
	return p == PropertyTypeConstraint || p == PropertyTypeConstraintUnit || p == PropertyTypeConstraintContainer
}

// IsContainer reports whether properties of this type hold a collection.
func (p PropertyType) IsContainer() bool {
	return p == PropertyTypeContainer || p == PropertyTypeConstraintContainer
}

// HasUnit reports whether properties of this type declare a measurement unit.
func (p PropertyType) HasUnit() bool {
	return p == PropertyTypeUnit || p == PropertyTypeConstraintUnit
}
