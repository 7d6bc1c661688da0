package values

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// DefaultMetaModelVersion is the meta-model version assumed when a model
// document does not declare one.
const DefaultMetaModelVersion = "2.1.0"

// MetaModelVersion is the version of the meta-model schema an element was
// declared against.
type MetaModelVersion struct {
	value *semver.Version
}

// NewMetaModelVersion parses a strict semantic version (X.Y.Z).
func NewMetaModelVersion(s string) (MetaModelVersion, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return MetaModelVersion{}, fmt.Errorf("invalid meta-model version %q: %w", s, err)
	}
	return MetaModelVersion{value: v}, nil
}

// MustNewMetaModelVersion parses a version or panics
func MustNewMetaModelVersion(s string) MetaModelVersion {
	v, err := NewMetaModelVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the string representation
func (v MetaModelVersion) String() string {
	if v.value == nil {
		return ""
	}
	return v.value.String()
}

// IsZero returns true if no version was set
func (v MetaModelVersion) IsZero() bool {
	return v.value == nil
}

// Equals checks if two versions are equal
func (v MetaModelVersion) Equals(other MetaModelVersion) bool {
	if v.value == nil || other.value == nil {
		return v.value == other.value
	}
	return v.value.Equal(other.value)
}

// Satisfies reports whether the version matches a semver constraint such as ">= 2.0.0".
func (v MetaModelVersion) Satisfies(constraint string) (bool, error) {
	if v.value == nil {
		return false, fmt.Errorf("meta-model version is not set")
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	return c.Check(v.value), nil
}

// MarshalText implements encoding.TextMarshaler
func (v MetaModelVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *MetaModelVersion) UnmarshalText(data []byte) error {
	parsed, err := NewMetaModelVersion(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
