package values

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a canonical BCP 47 language tag used to key localized text.
type Locale struct {
	tag string
}

// NewLocale parses and canonicalizes a language tag ("en", "de-DE", "EN_us").
func NewLocale(s string) (Locale, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" {
		return Locale{}, fmt.Errorf("locale cannot be empty")
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Locale{}, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return Locale{tag: tag.String()}, nil
}

// MustNewLocale parses a locale or panics
func MustNewLocale(s string) Locale {
	l, err := NewLocale(s)
	if err != nil {
		panic(err)
	}
	return l
}

// String returns the canonical tag
func (l Locale) String() string {
	return l.tag
}

// IsZero returns true if this is the zero value
func (l Locale) IsZero() bool {
	return l.tag == ""
}

// Tag returns the parsed language tag.
func (l Locale) Tag() language.Tag {
	return language.Make(l.tag)
}

// Language returns the base language subtag ("de" for "de-CH").
func (l Locale) Language() string {
	base, _ := l.Tag().Base()
	return base.String()
}

// MarshalText implements encoding.TextMarshaler
func (l Locale) MarshalText() ([]byte, error) {
	return []byte(l.tag), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Locale) UnmarshalText(data []byte) error {
	parsed, err := NewLocale(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
