package metamodel

import (
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// ConstraintKind names what a constraint restricts.
type ConstraintKind string

const (
	ConstraintPattern    ConstraintKind = "pattern"
	ConstraintRange      ConstraintKind = "range"
	ConstraintLength     ConstraintKind = "length"
	ConstraintUnit       ConstraintKind = "unit"
	ConstraintEncoding   ConstraintKind = "encoding"
	ConstraintLanguage   ConstraintKind = "language"
	ConstraintLocale     ConstraintKind = "locale"
	ConstraintFixedPoint ConstraintKind = "fixed-point"
	ConstraintExpression ConstraintKind = "expression"
)

// CollectionLevel reports whether a constraint of this kind applies to a
// collection as a whole rather than to each of its elements.
func (k ConstraintKind) CollectionLevel() bool {
	return k == ConstraintLength
}

// Rule holds the kind-specific parameters of a constraint.
// New constraint kinds only need a Rule and a registered checker.
type Rule interface {
	Kind() ConstraintKind
}

// PatternRule restricts text values to a regular expression.
type PatternRule struct {
	Pattern string
}

func (PatternRule) Kind() ConstraintKind { return ConstraintPattern }

// BoundDefinition states whether a range bound is inclusive.
type BoundDefinition string

const (
	BoundAtLeast     BoundDefinition = "AT_LEAST"
	BoundGreaterThan BoundDefinition = "GREATER_THAN"
	BoundAtMost      BoundDefinition = "AT_MOST"
	BoundLessThan    BoundDefinition = "LESS_THAN"
)

// Bound is one side of a RangeRule.
type Bound struct {
	Value      any
	Definition BoundDefinition
}

// Inclusive reports whether the bound value itself is allowed.
func (b Bound) Inclusive() bool {
	return b.Definition == BoundAtLeast || b.Definition == BoundAtMost || b.Definition == ""
}

// RangeRule restricts values to an interval. Either side may be open.
type RangeRule struct {
	Min *Bound
	Max *Bound
}

func (RangeRule) Kind() ConstraintKind { return ConstraintRange }

// LengthRule restricts the element count of a collection (or rune count of text)
// and optionally requires unique elements.
type LengthRule struct {
	Min    *uint64
	Max    *uint64
	Unique bool
}

func (LengthRule) Kind() ConstraintKind { return ConstraintLength }

// UnitRule declares the unit a numeric value is expressed in.
type UnitRule struct {
	Unit values.AspectModelURN
}

func (UnitRule) Kind() ConstraintKind { return ConstraintUnit }

// EncodingRule restricts text to a character encoding.
type EncodingRule struct {
	Encoding string
}

func (EncodingRule) Kind() ConstraintKind { return ConstraintEncoding }

// Supported encodings.
const (
	EncodingUSASCII  = "US-ASCII"
	EncodingISO88591 = "ISO-8859-1"
	EncodingUTF8     = "UTF-8"
	EncodingUTF16    = "UTF-16"
	EncodingUTF16BE  = "UTF-16BE"
	EncodingUTF16LE  = "UTF-16LE"
)

// LanguageRule restricts a langString to a language.
type LanguageRule struct {
	Language values.Locale
}

func (LanguageRule) Kind() ConstraintKind { return ConstraintLanguage }

// LocaleRule restricts a value to a locale.
type LocaleRule struct {
	Locale values.Locale
}

func (LocaleRule) Kind() ConstraintKind { return ConstraintLocale }

// FixedPointRule restricts decimals to a number of integer and fraction digits.
type FixedPointRule struct {
	Scale   int32
	Integer int32
}

func (FixedPointRule) Kind() ConstraintKind { return ConstraintFixedPoint }

// ExpressionRule is a boolean expression over the focus value ("value"),
// the resolved unit ("unit") and sibling values ("instance").
type ExpressionRule struct {
	Expression string
}

func (ExpressionRule) Kind() ConstraintKind { return ConstraintExpression }
