package services

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

var errNotComparable = errors.New("values are not comparable")

// jsonNumber matches number literals kept verbatim by JSON decoders.
type jsonNumber interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// toDecimal converts any Go numeric (or JSON number literal) to a decimal.
// Strings are not numbers.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromUint64(uint64(n)), true
	case uint8:
		return decimal.NewFromUint64(uint64(n)), true
	case uint16:
		return decimal.NewFromUint64(uint64(n)), true
	case uint32:
		return decimal.NewFromUint64(uint64(n)), true
	case uint64:
		return decimal.NewFromUint64(n), true
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case jsonNumber:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

// toNative turns JSON number literals into int64 or float64 so expression
// programs can do arithmetic on them.
func toNative(v any) any {
	switch n := v.(type) {
	case jsonNumber:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case decimal.Decimal:
		f, _ := n.Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[k] = toNative(e)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = toNative(e)
		}
		return out
	}
	return v
}

var temporalLayouts = map[values.DataType][]string{
	values.DataTypeDate:          {"2006-01-02", "2006-01-02Z07:00"},
	values.DataTypeTime:          {"15:04:05.999999999", "15:04:05.999999999Z07:00"},
	values.DataTypeDateTime:      {time.RFC3339Nano, "2006-01-02T15:04:05.999999999"},
	values.DataTypeDateTimeStamp: {time.RFC3339Nano},
}

// toTime parses a temporal value using the layouts of its declared type.
func toTime(v any, dt values.DataType) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		layouts, ok := temporalLayouts[dt]
		if !ok {
			layouts = temporalLayouts[values.DataTypeDateTime]
		}
		for _, layout := range layouts {
			if parsed, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// inferKind picks an ordering for a value when the declared type does not.
func inferKind(dt values.DataType, v any) values.DataKind {
	if k := dt.Kind(); k != values.KindUnknown {
		return k
	}
	if _, ok := toDecimal(v); ok {
		return values.KindNumeric
	}
	switch v.(type) {
	case string:
		return values.KindText
	case time.Time:
		return values.KindTemporal
	case bool:
		return values.KindBoolean
	}
	return values.KindUnknown
}

// orderable reports whether v can be ordered as kind.
func orderable(kind values.DataKind, dt values.DataType, v any) bool {
	switch kind {
	case values.KindNumeric:
		_, ok := toDecimal(v)
		return ok
	case values.KindText:
		_, ok := v.(string)
		return ok
	case values.KindTemporal:
		_, ok := toTime(v, dt)
		return ok
	}
	return false
}

// compareAs orders a and b using the natural ordering of kind. There is no
// coercion across kinds: a string never compares with a number.
func compareAs(kind values.DataKind, dt values.DataType, a, b any) (int, error) {
	switch kind {
	case values.KindNumeric:
		da, okA := toDecimal(a)
		db, okB := toDecimal(b)
		if !okA || !okB {
			return 0, errNotComparable
		}
		return da.Cmp(db), nil
	case values.KindText:
		sa, okA := a.(string)
		sb, okB := b.(string)
		if !okA || !okB {
			return 0, errNotComparable
		}
		return strings.Compare(sa, sb), nil
	case values.KindTemporal:
		ta, okA := toTime(a, dt)
		tb, okB := toTime(b, dt)
		if !okA || !okB {
			return 0, errNotComparable
		}
		return ta.Compare(tb), nil
	}
	return 0, fmt.Errorf("%w: no ordering for %s", errNotComparable, kind)
}

// sequence returns the elements of a slice or array value.
func sequence(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		// []byte is a binary scalar, not a collection.
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// langStrings returns the locale-keyed texts of a langString value
// ({"en": "text"}).
func langStrings(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case map[string]string:
		return m, len(m) > 0
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, e := range m {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, len(out) > 0
	}
	return nil, false
}

type integralRange struct {
	min       decimal.Decimal
	max       decimal.Decimal
	unbounded bool
}

var integralRanges = map[values.DataType]integralRange{
	values.DataTypeByte:               {min: decimal.NewFromInt(math.MinInt8), max: decimal.NewFromInt(math.MaxInt8)},
	values.DataTypeShort:              {min: decimal.NewFromInt(math.MinInt16), max: decimal.NewFromInt(math.MaxInt16)},
	values.DataTypeInt:                {min: decimal.NewFromInt(math.MinInt32), max: decimal.NewFromInt(math.MaxInt32)},
	values.DataTypeLong:               {min: decimal.NewFromInt(math.MinInt64), max: decimal.NewFromInt(math.MaxInt64)},
	values.DataTypeUnsignedByte:       {min: decimal.Zero, max: decimal.NewFromInt(math.MaxUint8)},
	values.DataTypeUnsignedShort:      {min: decimal.Zero, max: decimal.NewFromInt(math.MaxUint16)},
	values.DataTypeUnsignedInt:        {min: decimal.Zero, max: decimal.NewFromInt(math.MaxUint32)},
	values.DataTypeUnsignedLong:       {min: decimal.Zero, max: decimal.NewFromUint64(math.MaxUint64)},
	values.DataTypeNonNegativeInteger: {min: decimal.Zero, unbounded: true},
	values.DataTypePositiveInteger:    {min: decimal.NewFromInt(1), unbounded: true},
}

// conforms reports whether v is a legal value of dt.
func conforms(dt values.DataType, v any) bool {
	switch dt.Kind() {
	case values.KindText:
		_, ok := v.(string)
		return ok
	case values.KindBoolean:
		_, ok := v.(bool)
		return ok
	case values.KindNumeric:
		d, ok := toDecimal(v)
		if !ok {
			return false
		}
		if !dt.IsIntegral() {
			return true
		}
		if !d.IsInteger() {
			return false
		}
		if r, ok := integralRanges[dt]; ok {
			if d.LessThan(r.min) {
				return false
			}
			if !r.unbounded && d.GreaterThan(r.max) {
				return false
			}
		}
		return true
	case values.KindTemporal:
		_, ok := toTime(v, dt)
		return ok
	case values.KindLangString:
		_, ok := langStrings(v)
		return ok
	case values.KindEntity:
		return v != nil
	}
	return false
}
