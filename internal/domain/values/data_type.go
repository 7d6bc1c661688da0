package values

import (
	"fmt"
	"strings"
)

// DataType is the declared value type of a property (an XSD/RDF datatype
// or an entity reference).
type DataType string

// Supported data types.
const (
	DataTypeString             DataType = "string"
	DataTypeBoolean            DataType = "boolean"
	DataTypeDecimal            DataType = "decimal"
	DataTypeInteger            DataType = "integer"
	DataTypeDouble             DataType = "double"
	DataTypeFloat              DataType = "float"
	DataTypeLong               DataType = "long"
	DataTypeInt                DataType = "int"
	DataTypeShort              DataType = "short"
	DataTypeByte               DataType = "byte"
	DataTypeUnsignedLong       DataType = "unsignedLong"
	DataTypeUnsignedInt        DataType = "unsignedInt"
	DataTypeUnsignedShort      DataType = "unsignedShort"
	DataTypeUnsignedByte       DataType = "unsignedByte"
	DataTypeNonNegativeInteger DataType = "nonNegativeInteger"
	DataTypePositiveInteger    DataType = "positiveInteger"
	DataTypeDate               DataType = "date"
	DataTypeTime               DataType = "time"
	DataTypeDateTime           DataType = "dateTime"
	DataTypeDateTimeStamp      DataType = "dateTimeStamp"
	DataTypeAnyURI             DataType = "anyURI"
	DataTypeCurie              DataType = "curie"
	DataTypeHexBinary          DataType = "hexBinary"
	DataTypeBase64Binary       DataType = "base64Binary"
	DataTypeLangString         DataType = "langString"
	DataTypeEntity             DataType = "entity"
)

// DataKind groups data types by their natural ordering.
type DataKind int

const (
	KindUnknown DataKind = iota
	KindText
	KindNumeric
	KindBoolean
	KindTemporal
	KindLangString
	KindEntity
)

func (k DataKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	case KindBoolean:
		return "boolean"
	case KindTemporal:
		return "temporal"
	case KindLangString:
		return "langString"
	case KindEntity:
		return "entity"
	default:
		return "unknown"
	}
}

var dataKinds = map[DataType]DataKind{
	DataTypeString:             KindText,
	DataTypeAnyURI:             KindText,
	DataTypeCurie:              KindText,
	DataTypeHexBinary:          KindText,
	DataTypeBase64Binary:       KindText,
	DataTypeBoolean:            KindBoolean,
	DataTypeDecimal:            KindNumeric,
	DataTypeInteger:            KindNumeric,
	DataTypeDouble:             KindNumeric,
	DataTypeFloat:              KindNumeric,
	DataTypeLong:               KindNumeric,
	DataTypeInt:                KindNumeric,
	DataTypeShort:              KindNumeric,
	DataTypeByte:               KindNumeric,
	DataTypeUnsignedLong:       KindNumeric,
	DataTypeUnsignedInt:        KindNumeric,
	DataTypeUnsignedShort:      KindNumeric,
	DataTypeUnsignedByte:       KindNumeric,
	DataTypeNonNegativeInteger: KindNumeric,
	DataTypePositiveInteger:    KindNumeric,
	DataTypeDate:               KindTemporal,
	DataTypeTime:               KindTemporal,
	DataTypeDateTime:           KindTemporal,
	DataTypeDateTimeStamp:      KindTemporal,
	DataTypeLangString:         KindLangString,
	DataTypeEntity:             KindEntity,
}

// ParseDataType accepts a bare name ("int") or a prefixed one ("xsd:int", "rdf:langString").
func ParseDataType(s string) (DataType, error) {
	s = strings.TrimSpace(s)
	if _, local, found := strings.Cut(s, ":"); found {
		s = local
	}
	dt := DataType(s)
	if _, ok := dataKinds[dt]; !ok {
		return "", fmt.Errorf("unsupported data type: %q", s)
	}
	return dt, nil
}

// Kind returns the ordering family of the data type.
func (d DataType) Kind() DataKind {
	return dataKinds[d]
}

// IsIntegral reports whether values must be whole numbers.
func (d DataType) IsIntegral() bool {
	switch d {
	case DataTypeInteger, DataTypeLong, DataTypeInt, DataTypeShort, DataTypeByte,
		DataTypeUnsignedLong, DataTypeUnsignedInt, DataTypeUnsignedShort, DataTypeUnsignedByte,
		DataTypeNonNegativeInteger, DataTypePositiveInteger:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether negative values are outside the value space.
func (d DataType) IsUnsigned() bool {
	switch d {
	case DataTypeUnsignedLong, DataTypeUnsignedInt, DataTypeUnsignedShort, DataTypeUnsignedByte,
		DataTypeNonNegativeInteger, DataTypePositiveInteger:
		return true
	default:
		return false
	}
}
