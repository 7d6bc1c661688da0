package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

func malformed(c *metamodel.Constraint, dc DataContext, value any, reason string) Result {
	return Errorf(c, dc, validation.CodeMalformedConstraint, value, map[string]string{"reason": reason})
}

// checkPattern matches textual values against a regular expression. A
// non-textual value fails; only a malformed pattern is an error.
func checkPattern(ev *Evaluator, c *metamodel.Constraint, value any, dc DataContext) Result {
	rule, ok := c.Rule().(metamodel.PatternRule)
	if !ok {
		return malformed(c, dc, value, "rule is not a pattern")
	}
	re, err := ev.getOrCompilePattern(rule.Pattern)
	if err != nil {
		return malformed(c, dc, value, err.Error())
	}

	params := map[string]string{"pattern": rule.Pattern}
	text, ok := value.(string)
	if !ok {
		return Failf(c, dc, validation.CodePatternMismatch, value, params)
	}
	if !re.MatchString(text) {
		return Failf(c, dc, validation.CodePatternMismatch, value, params)
	}
	return Pass()
}

// encoderFor returns an encoder that rejects runes outside the character set.
// US-ASCII and UTF-8 are handled without an encoder.
func encoderFor(name string) (*encoding.Encoder, bool) {
	switch strings.ToUpper(name) {
	case metamodel.EncodingISO88591:
		return charmap.ISO8859_1.NewEncoder(), true
	case metamodel.EncodingUTF16:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder(), true
	case metamodel.EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder(), true
	case metamodel.EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder(), true
	}
	return nil, false
}

// checkEncoding fails text that cannot be represented in the declared charset.
func checkEncoding(_ *Evaluator, c *metamodel.Constraint, value any, dc DataContext) Result {
	rule, ok := c.Rule().(metamodel.EncodingRule)
	if !ok {
		return malformed(c, dc, value, "rule is not an encoding")
	}
	text, ok := value.(string)
	if !ok {
		return Errorf(c, dc, validation.CodeTypeMismatch, value, map[string]string{"type": "string"})
	}

	params := map[string]string{"encoding": rule.Encoding}
	var representable bool
	switch strings.ToUpper(rule.Encoding) {
	case metamodel.EncodingUSASCII:
		representable = isASCII(text)
	case metamodel.EncodingUTF8:
		representable = utf8.ValidString(text)
	default:
		enc, known := encoderFor(rule.Encoding)
		if !known {
			return malformed(c, dc, value, "unknown encoding "+rule.Encoding)
		}
		_, err := enc.String(text)
		representable = err == nil && utf8.ValidString(text)
	}

	if !representable {
		return Failf(c, dc, validation.CodeEncodingViolation, value, params)
	}
	return Pass()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// taggedLocales returns the locale tags carried by a value: the keys of a
// langString, or the value itself when it is a tag string.
func taggedLocales(value any) ([]values.Locale, bool) {
	if texts, ok := langStrings(value); ok {
		keys := make([]string, 0, len(texts))
		for k := range texts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make([]values.Locale, 0, len(keys))
		for _, k := range keys {
			l, err := values.NewLocale(k)
			if err != nil {
				return nil, false
			}
			out = append(out, l)
		}
		return out, true
	}
	if s, ok := value.(string); ok {
		l, err := values.NewLocale(s)
		if err != nil {
			return nil, false
		}
		return []values.Locale{l}, true
	}
	return nil, false
}

// checkLanguage requires every tag of the value to share the declared base language.
func checkLanguage(_ *Evaluator, c *metamodel.Constraint, value any, dc DataContext) Result {
	rule, ok := c.Rule().(metamodel.LanguageRule)
	if !ok || rule.Language.IsZero() {
		return malformed(c, dc, value, "language constraint declares no language")
	}
	locales, ok := taggedLocales(value)
	if !ok {
		return Errorf(c, dc, validation.CodeTypeMismatch, value, map[string]string{"type": string(values.DataTypeLangString)})
	}
	for _, l := range locales {
		if l.Language() != rule.Language.Language() {
			return Failf(c, dc, validation.CodeLanguageViolation, value, map[string]string{
				"language": l.String(),
				"expected": rule.Language.String(),
			})
		}
	}
	return Pass()
}

// checkLocale requires every tag of the value to equal the declared locale.
func checkLocale(_ *Evaluator, c *metamodel.Constraint, value any, dc DataContext) Result {
	rule, ok := c.Rule().(metamodel.LocaleRule)
	if !ok || rule.Locale.IsZero() {
		return malformed(c, dc, value, "locale constraint declares no locale")
	}
	locales, ok := taggedLocales(value)
	if !ok {
		return Errorf(c, dc, validation.CodeTypeMismatch, value, map[string]string{"type": string(values.DataTypeLangString)})
	}
	for _, l := range locales {
		if l.String() != rule.Locale.String() {
			return Failf(c, dc, validation.CodeLocaleViolation, value, map[string]string{
				"locale":   l.String(),
				"expected": rule.Locale.String(),
			})
		}
	}
	return Pass()
}
