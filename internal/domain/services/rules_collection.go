package services

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
)

// measure returns the length of a value: runes for text, elements for
// collections and entries for langStrings.
func measure(value any) (uint64, bool) {
	if s, ok := value.(string); ok {
		return uint64(utf8.RuneCountInString(s)), true
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return uint64(rv.Len()), true
	}
	return 0, false
}

// checkLength counts elements against min/max and, when uniqueness is
// required, fails on the first duplicate by value.
func checkLength(_ *Evaluator, c *metamodel.Constraint, value any, dc DataContext) Result {
	rule, ok := c.Rule().(metamodel.LengthRule)
	if !ok {
		return malformed(c, dc, value, "rule is not a length")
	}
	if rule.Min != nil && rule.Max != nil && *rule.Min > *rule.Max {
		return malformed(c, dc, value, "minimum exceeds maximum")
	}

	n, ok := measure(value)
	if !ok {
		return Errorf(c, dc, validation.CodeTypeMismatch, value, map[string]string{"type": "collection"})
	}
	params := map[string]string{
		"length": fmt.Sprintf("%d", n),
		"range":  formatLength(rule),
	}
	if rule.Min != nil && n < *rule.Min {
		return Failf(c, dc, validation.CodeLengthViolation, value, params)
	}
	if rule.Max != nil && n > *rule.Max {
		return Failf(c, dc, validation.CodeLengthViolation, value, params)
	}

	if rule.Unique && !dc.UniquenessChecked() {
		if elems, ok := sequence(value); ok {
			if dup, _, found := firstDuplicate(elems); found {
				return Failf(c, dc, validation.CodeDuplicateElement, dup, nil)
			}
		}
	}
	return Pass()
}

func formatLength(rule metamodel.LengthRule) string {
	lo, hi := "0", "*"
	if rule.Min != nil {
		lo = fmt.Sprintf("%d", *rule.Min)
	}
	if rule.Max != nil {
		hi = fmt.Sprintf("%d", *rule.Max)
	}
	return "[" + lo + ", " + hi + "]"
}

// canonicalKey renders a value so that equal values get equal keys:
// numbers compare by magnitude (1 == 1.0), everything else by its JSON form.
func canonicalKey(v any) []byte {
	if d, ok := toDecimal(v); ok {
		return []byte("n:" + d.String())
	}
	if s, ok := v.(string); ok {
		return []byte("s:" + s)
	}
	data, err := json.Marshal(toNative(v))
	if err != nil {
		return []byte(fmt.Sprintf("g:%#v", v))
	}
	return append([]byte("j:"), data...)
}

// firstDuplicate returns the first element equal to an earlier one and its index.
func firstDuplicate(elems []any) (any, int, bool) {
	buckets := make(map[uint64][][]byte, len(elems))
	for i, e := range elems {
		key := canonicalKey(e)
		h := xxhash.Sum64(key)
		for _, seen := range buckets[h] {
			if string(seen) == string(key) {
				return e, i, true
			}
		}
		buckets[h] = append(buckets[h], key)
	}
	return nil, -1, false
}
