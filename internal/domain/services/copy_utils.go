package services

import (
	"reflect"

	"github.com/tiendc/go-deepcopy"
)

// CopyValue returns a deep copy of an instance value so that reports never
// share references with the data they were produced from. Scalars are
// immutable and returned as-is, as are values that cannot be copied.
func CopyValue(v any) any {
	switch src := v.(type) {
	case nil, string, bool:
		return v
	case map[string]any:
		dst := make(map[string]any, len(src))
		for k, e := range src {
			dst[k] = CopyValue(e)
		}
		return dst
	case []any:
		dst := make([]any, len(src))
		for i, e := range src {
			dst[i] = CopyValue(e)
		}
		return dst
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		dst := reflect.New(rv.Type())
		if err := deepcopy.Copy(dst.Interface(), v); err != nil {
			return v
		}
		return dst.Elem().Interface()
	}
	return v
}
