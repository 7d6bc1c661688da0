package metamodel

import (
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// CharacteristicKind is the semantic classification of a property's values.
type CharacteristicKind string

const (
	CharacteristicPlain             CharacteristicKind = "Characteristic"
	CharacteristicTrait             CharacteristicKind = "Trait"
	CharacteristicMeasurement       CharacteristicKind = "Measurement"
	CharacteristicQuantifiable      CharacteristicKind = "Quantifiable"
	CharacteristicDuration          CharacteristicKind = "Duration"
	CharacteristicEnumeration       CharacteristicKind = "Enumeration"
	CharacteristicState             CharacteristicKind = "State"
	CharacteristicCollection        CharacteristicKind = "Collection"
	CharacteristicList              CharacteristicKind = "List"
	CharacteristicSet               CharacteristicKind = "Set"
	CharacteristicSortedSet         CharacteristicKind = "SortedSet"
	CharacteristicTimeSeries        CharacteristicKind = "TimeSeries"
	CharacteristicSingleEntity      CharacteristicKind = "SingleEntity"
	CharacteristicText              CharacteristicKind = "Text"
	CharacteristicMultiLanguageText CharacteristicKind = "MultiLanguageText"
	CharacteristicBoolean           CharacteristicKind = "Boolean"
	CharacteristicTimestamp         CharacteristicKind = "Timestamp"
	CharacteristicCode              CharacteristicKind = "Code"
)

// Characteristic classifies a property's values independently of the raw data type.
type Characteristic struct {
	MetaClass
	Described
	kind     CharacteristicKind
	dataType values.DataType
	allowed  []any
}

// NewCharacteristic builds a characteristic. Allowed values only apply to
// enumerations and states.
func NewCharacteristic(meta MetaClass, kind CharacteristicKind, dataType values.DataType, allowed ...any) (*Characteristic, error) {
	if dataType.Kind() == values.KindUnknown {
		return nil, newInvariantError(meta.AspectModelURN().String(), RuleInvalidDataType, string(dataType))
	}
	meta.modelClass = ModelClassCharacteristic
	return &Characteristic{MetaClass: meta, kind: kind, dataType: dataType, allowed: allowed}, nil
}

// Kind returns the characteristic class.
func (c *Characteristic) Kind() CharacteristicKind { return c.kind }

// DataType returns the data type the characteristic describes.
func (c *Characteristic) DataType() values.DataType { return c.dataType }

// IsEnumerated reports whether values are restricted to a fixed set.
func (c *Characteristic) IsEnumerated() bool {
	return c.kind == CharacteristicEnumeration || c.kind == CharacteristicState
}

// AllowedValues returns a copy of the enumeration values.
func (c *Characteristic) AllowedValues() []any {
	out := make([]any, len(c.allowed))
	copy(out, c.allowed)
	return out
}
