// Package term provides the typed value representation for everything
// that can appear in compiled query text.
//
// Term is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and
// enables exhaustive type switches in the grammar's serializer. A value
// of an unknown dynamic type reaching Format is a programming error and
// aborts compilation.
//
// Term kinds:
//   - IRI: a resource identifier, prefixed or absolute
//   - Text: a plain string literal
//   - Literal: a string literal carrying a language tag or a datatype
//   - Param: a placeholder variable (rendered as ?name)
//   - Class: a record-type name resolved against the prefix table
//   - Raw: verbatim query text, never escaped
//
// Terms are constructed once and never mutated.
package term

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Term is the sealed interface over all term kinds.
type Term interface {
	term() // Marker method - seals interface to this package
}

// IRI identifies a resource. The value may be a prefixed name
// ("foaf:Person"), an absolute IRI, or a blank-node label ("_:b0").
type IRI string

func (IRI) term() {}

// Text is a plain string literal with no language tag or datatype.
type Text string

func (Text) term() {}

// Param is a placeholder variable name, without the leading "?".
type Param string

func (Param) term() {}

// Var returns the variable's rendered form ("?name").
func (p Param) Var() string { return "?" + string(p) }

// Raw is emitted verbatim into query text. It is never escaped;
// callers are responsible for its safety.
type Raw string

func (Raw) term() {}

// Class names a record type. It resolves against the prefix table the
// same way an IRI does and exists as a distinct kind so callers can
// tell type constraints apart from ordinary resources.
type Class string

func (Class) term() {}

// Literal is a string literal carrying at most one of a language tag
// or a datatype IRI. Use NewLiteral, NewLangLiteral, or
// NewTypedLiteral; constructing a Literal with both fields set is
// rejected at serialization time.
type Literal struct {
	Value    string
	Lang     string
	Datatype string
}

func (Literal) term() {}

// NewLiteral creates an untyped, untagged literal.
func NewLiteral(value string) Literal {
	return Literal{Value: value}
}

// NewLangLiteral creates a language-tagged literal. The tag is
// validated and canonicalized per BCP 47 ("EN-gb" becomes "en-GB").
func NewLangLiteral(value, lang string) (Literal, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return Literal{}, fmt.Errorf("invalid language tag %q: %w", lang, err)
	}
	return Literal{Value: value, Lang: tag.String()}, nil
}

// NewTypedLiteral creates a datatype-tagged literal. The datatype may
// be a prefixed name ("xsd:integer") or an absolute IRI.
func NewTypedLiteral(value, datatype string) Literal {
	return Literal{Value: value, Datatype: datatype}
}

// NewResource mints a fresh urn:uuid IRI for a new resource.
func NewResource() IRI {
	return IRI("urn:uuid:" + uuid.NewString())
}

// Common xsd datatypes used by FromValue.
const (
	XSDInteger  = "xsd:integer"
	XSDDecimal  = "xsd:decimal"
	XSDDouble   = "xsd:double"
	XSDBoolean  = "xsd:boolean"
	XSDDateTime = "xsd:dateTime"
)

// FromValue converts a Go value to a Term. Terms pass through
// unchanged; strings become Text; numeric, boolean, and time values
// become typed literals with the matching xsd datatype.
func FromValue(v any) (Term, error) {
	switch val := v.(type) {
	case Term:
		return val, nil
	case string:
		return Text(val), nil
	case int:
		return NewTypedLiteral(fmt.Sprintf("%d", val), XSDInteger), nil
	case int64:
		return NewTypedLiteral(fmt.Sprintf("%d", val), XSDInteger), nil
	case float64:
		return NewTypedLiteral(strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), "."), XSDDecimal), nil
	case bool:
		return NewTypedLiteral(fmt.Sprintf("%t", val), XSDBoolean), nil
	case time.Time:
		return NewTypedLiteral(val.UTC().Format(time.RFC3339), XSDDateTime), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to a query term", v)
	}
}

// normalize puts literal lexical forms into NFC so that equal-looking
// values serialize identically.
func normalize(s string) string {
	return norm.NFC.String(s)
}
