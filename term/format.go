package term

import (
	"fmt"
	"strings"

	"github.com/roach88/sparq/prefix"
)

// Datatypes whose literals render as bare tokens ("18", "true") rather
// than quoted form, matching the shorthand the query language defines
// for them.
var bareDatatypes = map[string]bool{
	XSDInteger: true,
	XSDDecimal: true,
	XSDDouble:  true,
	XSDBoolean: true,

	prefix.XSD + "integer": true,
	prefix.XSD + "decimal": true,
	prefix.XSD + "double":  true,
	prefix.XSD + "boolean": true,
}

// Format serializes a term into its exact query-text form.
//
// IRIs expand prefixed names through the table and are wrapped in
// angle brackets, except blank-node labels which pass through
// unchanged. Raw and Param terms are emitted verbatim. An unknown
// dynamic type is a programming error, not user error, and yields an
// error that aborts compilation.
func Format(t Term, table *prefix.Table) (string, error) {
	if table == nil {
		table = prefix.Default()
	}

	switch v := t.(type) {
	case IRI:
		return formatIRI(string(v), table), nil
	case Class:
		return formatIRI(string(v), table), nil
	case Param:
		return v.Var(), nil
	case Raw:
		return string(v), nil
	case Text:
		return quote(string(v)), nil
	case Literal:
		return formatLiteral(v, table)
	default:
		return "", fmt.Errorf("unknown term type: %T", t)
	}
}

func formatIRI(name string, table *prefix.Table) string {
	if strings.HasPrefix(name, "_:") {
		return name // blank-node label, never wrapped
	}
	if expanded, ok := table.Expand(name); ok {
		return "<" + expanded + ">"
	}
	return "<" + name + ">"
}

func formatLiteral(l Literal, table *prefix.Table) (string, error) {
	if l.Lang != "" && l.Datatype != "" {
		return "", fmt.Errorf("literal %q carries both language tag and datatype", l.Value)
	}
	if l.Lang != "" {
		return quote(l.Value) + "@" + l.Lang, nil
	}
	if l.Datatype != "" {
		if bareDatatypes[l.Datatype] {
			return normalize(l.Value), nil
		}
		return quote(l.Value) + "^^" + formatIRI(l.Datatype, table), nil
	}
	return quote(l.Value), nil
}

// quote escapes control characters and quoting metacharacters, then
// wraps the value in double quotes. The escaping is exact: parsing the
// output recovers the original lexical form.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range normalize(s) {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(fmt.Sprintf(`\u%04X`, r))
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Bindable reports whether a term carries a caller-supplied value that
// should be registered as an external binding. Resource references
// (IRI, Class), verbatim fragments (Raw), and variables (Param) are
// not values.
func Bindable(t Term) bool {
	switch t.(type) {
	case Text, Literal:
		return true
	default:
		return false
	}
}
