package metamodel

import (
	"sort"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// LangMap maps a locale to a localized string.
type LangMap map[values.Locale]string

// UpsertOrRemove stores value for locale, or removes the entry when value is nil.
func (m LangMap) UpsertOrRemove(locale values.Locale, value *string) {
	if value == nil {
		delete(m, locale)
		return
	}
	m[locale] = *value
}

// Get returns the exact entry for locale. There is no fallback to other locales.
func (m LangMap) Get(locale values.Locale) (string, bool) {
	v, ok := m[locale]
	return v, ok
}

// Locales returns the stored locales in canonical tag order.
func (m LangMap) Locales() []values.Locale {
	locales := make([]values.Locale, 0, len(m))
	for l := range m {
		locales = append(locales, l)
	}
	sort.Slice(locales, func(i, j int) bool {
		return locales[i].String() < locales[j].String()
	})
	return locales
}

// Described carries the human-facing metadata of a model element.
// The zero value is ready to use.
type Described struct {
	preferredNames LangMap
	descriptions   LangMap
	see            []string
}

// AddPreferredName sets the preferred name for locale; a nil name deletes it.
func (d *Described) AddPreferredName(locale values.Locale, name *string) {
	if d.preferredNames == nil {
		d.preferredNames = make(LangMap)
	}
	d.preferredNames.UpsertOrRemove(locale, name)
}

// AddDescription sets the description for locale; a nil description deletes it.
func (d *Described) AddDescription(locale values.Locale, description *string) {
	if d.descriptions == nil {
		d.descriptions = make(LangMap)
	}
	d.descriptions.UpsertOrRemove(locale, description)
}

// AddSeeReference appends a cross-reference. Duplicates are kept in insertion order.
func (d *Described) AddSeeReference(ref string) {
	d.see = append(d.see, ref)
}

// PreferredName returns the preferred name stored for exactly this locale.
func (d *Described) PreferredName(locale values.Locale) (string, bool) {
	return d.preferredNames.Get(locale)
}

// Description returns the description stored for exactly this locale.
func (d *Described) Description(locale values.Locale) (string, bool) {
	return d.descriptions.Get(locale)
}

// PreferredNames returns a copy of all preferred names.
func (d *Described) PreferredNames() LangMap {
	return copyLangMap(d.preferredNames)
}

// Descriptions returns a copy of all descriptions.
func (d *Described) Descriptions() LangMap {
	return copyLangMap(d.descriptions)
}

// See returns a copy of the cross-references in insertion order.
func (d *Described) See() []string {
	out := make([]string, len(d.see))
	copy(out, d.see)
	return out
}

func copyLangMap(m LangMap) LangMap {
	out := make(LangMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DescribedElement is implemented by every element embedding Described.
type DescribedElement interface {
	PreferredName(locale values.Locale) (string, bool)
	Description(locale values.Locale) (string, bool)
	PreferredNames() LangMap
	Descriptions() LangMap
	See() []string
}
