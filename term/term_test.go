package term

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparq/prefix"
)

func TestFormatIRI(t *testing.T) {
	table := prefix.Default()

	testCases := []struct {
		name     string
		input    Term
		expected string
	}{
		{"prefixed name expands", IRI("foaf:Person"), "<http://xmlns.com/foaf/0.1/Person>"},
		{"absolute iri wrapped unchanged", IRI("http://example.org/thing"), "<http://example.org/thing>"},
		{"urn wrapped unchanged", IRI("urn:uuid:abc"), "<urn:uuid:abc>"},
		{"blank node passes through", IRI("_:b0"), "_:b0"},
		{"unregistered prefix wrapped as-is", IRI("ex:thing"), "<ex:thing>"},
		{"class expands like iri", Class("foaf:Person"), "<http://xmlns.com/foaf/0.1/Person>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Format(tc.input, table)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestFormatLiterals(t *testing.T) {
	table := prefix.Default()

	lang, err := NewLangLiteral("hello", "EN-gb")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		input    Term
		expected string
	}{
		{"plain text", Text("Alice"), `"Alice"`},
		{"untyped literal", NewLiteral("Alice"), `"Alice"`},
		{"language tag canonicalized", lang, `"hello"@en-GB`},
		{"typed literal", NewTypedLiteral("2020-01-01", "xsd:date"), `"2020-01-01"^^<http://www.w3.org/2001/XMLSchema#date>`},
		{"integer renders bare", NewTypedLiteral("18", XSDInteger), "18"},
		{"boolean renders bare", NewTypedLiteral("true", XSDBoolean), "true"},
		{"escapes quotes and newlines", Text("a\"b\nc"), `"a\"b\nc"`},
		{"escapes control chars", Text("a\x01b"), `"a\u0001b"`},
		{"param", Param("v1"), "?v1"},
		{"raw verbatim", Raw(`?s ?p ?o`), `?s ?p ?o`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Format(tc.input, table)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestFormatRejectsConflictingLiteral(t *testing.T) {
	_, err := Format(Literal{Value: "x", Lang: "en", Datatype: "xsd:string"}, nil)
	assert.Error(t, err)
}

func TestFormatUnknownTermType(t *testing.T) {
	_, err := Format(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown term type")
}

func TestNewLangLiteralRejectsGarbage(t *testing.T) {
	_, err := NewLangLiteral("x", "not a tag!!")
	assert.Error(t, err)
}

func TestFromValue(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected Term
	}{
		{"string", "Alice", Text("Alice")},
		{"int", 18, NewTypedLiteral("18", XSDInteger)},
		{"int64", int64(18), NewTypedLiteral("18", XSDInteger)},
		{"bool", true, NewTypedLiteral("true", XSDBoolean)},
		{"float", 1.5, NewTypedLiteral("1.5", XSDDecimal)},
		{"term passthrough", IRI("foaf:knows"), IRI("foaf:knows")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := FromValue(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}

	ts := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	out, err := FromValue(ts)
	require.NoError(t, err)
	assert.Equal(t, NewTypedLiteral("2020-06-01T12:00:00Z", XSDDateTime), out)

	_, err = FromValue(struct{}{})
	assert.Error(t, err)
}

func TestNewResource(t *testing.T) {
	a := NewResource()
	b := NewResource()
	assert.True(t, strings.HasPrefix(string(a), "urn:uuid:"))
	assert.NotEqual(t, a, b)
}

func TestBindable(t *testing.T) {
	assert.True(t, Bindable(Text("v")))
	assert.True(t, Bindable(NewLiteral("v")))
	assert.False(t, Bindable(IRI("foaf:name")))
	assert.False(t, Bindable(Raw("?x")))
	assert.False(t, Bindable(Param("v1")))
	assert.False(t, Bindable(Class("foaf:Person")))
}
