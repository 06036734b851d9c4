package builder

import (
	"strings"

	"github.com/roach88/sparq/term"
)

// operators is the closed set of filter operators the grammar has
// handlers for. Unknown names are rejected when the constraint is
// added, not at compile time.
var operators = map[string]bool{
	"=":           true,
	"!=":          true,
	"<":           true,
	"<=":          true,
	">":           true,
	">=":          true,
	"regex":       true,
	"contains":    true,
	"strstarts":   true,
	"strends":     true,
	"langmatches": true,
}

func comparisonOperator(op string) bool {
	switch op {
	case "=", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}

// Where adds an equality constraint: a triple pattern matching the
// predicate against the value.
func (b *Builder) Where(predicate string, value any) *Builder {
	return b.where(predicate, value, And)
}

// OrWhere is Where joined to the previous record as a union branch.
func (b *Builder) OrWhere(predicate string, value any) *Builder {
	return b.where(predicate, value, Or)
}

func (b *Builder) where(predicate string, value any, conn Connective) *Builder {
	obj, err := term.FromValue(value)
	if err != nil {
		return b.fail("where %s: %v", predicate, err)
	}
	b.add(Constraint{Kind: Basic, Connective: conn, Predicate: b.iri(predicate), Object: obj})
	return b
}

// WhereOp adds a comparison constraint. Equality compiles to a plain
// triple pattern; every other operator pushes the attribute and adds a
// scalar filter over its placeholder variable.
func (b *Builder) WhereOp(predicate, op string, value any) *Builder {
	return b.whereOp(predicate, op, value, And)
}

// OrWhereOp is WhereOp joined to the previous record as a union branch.
func (b *Builder) OrWhereOp(predicate, op string, value any) *Builder {
	return b.whereOp(predicate, op, value, Or)
}

func (b *Builder) whereOp(predicate, op string, value any, conn Connective) *Builder {
	op = strings.ToLower(strings.TrimSpace(op))
	if op == "=" {
		return b.where(predicate, value, conn)
	}
	if !operators[op] {
		return b.fail("unsupported operator: %q", op)
	}
	obj, err := term.FromValue(value)
	if err != nil {
		return b.fail("where %s: %v", predicate, err)
	}

	// An or-joined comparison needs its own binding pattern carrying
	// the Or connective, so the pattern and its filter land together
	// in the union branch. Reusing a memoized triple would leave the
	// filter attached to the and-joined group.
	var target term.Param
	if conn == Or {
		target = b.nextParam()
		b.Constraints = append(b.Constraints, Constraint{
			Kind:       Basic,
			Connective: Or,
			Predicate:  b.iri(predicate),
			Object:     target,
		})
	} else {
		target = b.PushAttribute(predicate)
	}
	b.add(Constraint{
		Kind:      Basic,
		IsFilter:  true,
		Predicate: target,
		Operator:  op,
		Object:    obj,
	})
	return b
}

// WhereIn constrains an attribute to a value list.
func (b *Builder) WhereIn(predicate string, values ...any) *Builder {
	return b.whereList(InList, predicate, values)
}

// WhereNotIn excludes an attribute's values from a list.
func (b *Builder) WhereNotIn(predicate string, values ...any) *Builder {
	return b.whereList(NotInList, predicate, values)
}

func (b *Builder) whereList(kind ConstraintKind, predicate string, values []any) *Builder {
	terms := make([]term.Term, 0, len(values))
	for _, v := range values {
		t, err := term.FromValue(v)
		if err != nil {
			return b.fail("where %s: %v", predicate, err)
		}
		terms = append(terms, t)
	}
	target := b.PushAttribute(predicate)
	b.add(Constraint{Kind: kind, IsFilter: true, Predicate: target, Objects: terms})
	return b
}

// WhereBetween constrains an attribute to an inclusive range.
func (b *Builder) WhereBetween(predicate string, low, high any) *Builder {
	return b.whereRange(Between, predicate, low, high)
}

// WhereNotBetween excludes an inclusive range.
func (b *Builder) WhereNotBetween(predicate string, low, high any) *Builder {
	return b.whereRange(NotBetween, predicate, low, high)
}

func (b *Builder) whereRange(kind ConstraintKind, predicate string, low, high any) *Builder {
	lo, err := term.FromValue(low)
	if err != nil {
		return b.fail("where %s: %v", predicate, err)
	}
	hi, err := term.FromValue(high)
	if err != nil {
		return b.fail("where %s: %v", predicate, err)
	}
	target := b.PushAttribute(predicate)
	b.add(Constraint{Kind: kind, IsFilter: true, Predicate: target, Objects: []term.Term{lo, hi}})
	return b
}

// WhereNull requires the subject to have no edge for the predicate.
func (b *Builder) WhereNull(predicate string) *Builder {
	b.add(Constraint{Kind: Null, Predicate: b.iri(predicate), Object: b.nextParam()})
	return b
}

// WhereNotNull requires the subject to have at least one edge for the
// predicate.
func (b *Builder) WhereNotNull(predicate string) *Builder {
	b.add(Constraint{Kind: NotNull, Predicate: b.iri(predicate), Object: b.nextParam()})
	return b
}

// WhereColumn compares two attributes' placeholder variables.
func (b *Builder) WhereColumn(first, op, second string) *Builder {
	op = strings.ToLower(strings.TrimSpace(op))
	if !comparisonOperator(op) {
		return b.fail("unsupported operator: %q", op)
	}
	left := b.PushAttribute(first)
	right := b.PushAttribute(second)
	b.add(Constraint{Kind: Column, IsFilter: true, Predicate: left, Operator: op, Object: right})
	return b
}

// WhereRaw appends a verbatim graph-pattern fragment. The text is
// never escaped; the caller is responsible for its safety.
func (b *Builder) WhereRaw(text string) *Builder {
	b.add(Constraint{Kind: RawPattern, Text: text})
	return b
}

// OrWhereRaw is WhereRaw joined as a union branch.
func (b *Builder) OrWhereRaw(text string) *Builder {
	b.add(Constraint{Kind: RawPattern, Connective: Or, Text: text})
	return b
}

// WherePath matches a property-path expression between the subject and
// the value. Prefixed names inside the path are expanded at compile
// time; absolute IRIs must already be wrapped in angle brackets, since
// the path scanner would otherwise split them on the "/" operator.
func (b *Builder) WherePath(path string, value any) *Builder {
	if pathHasBareAbsolute(path) {
		return b.fail("property path %q: absolute IRIs must be wrapped in angle brackets", path)
	}
	obj, err := term.FromValue(value)
	if err != nil {
		return b.fail("where path %s: %v", path, err)
	}
	b.add(Constraint{Kind: PropertyPath, Predicate: term.Raw(path), Object: obj})
	return b
}

// pathHasBareAbsolute reports whether the path contains an IRI scheme
// marker outside an angle-bracketed segment.
func pathHasBareAbsolute(path string) bool {
	inBrackets := false
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '<':
			inBrackets = true
		case '>':
			inBrackets = false
		case ':':
			if !inBrackets && strings.HasPrefix(path[i:], "://") {
				return true
			}
		}
	}
	return false
}

// WhereReversed matches an incoming edge: the value is the subject of
// the triple and the builder's subject variable is the object.
func (b *Builder) WhereReversed(predicate string, value any) *Builder {
	obj, err := term.FromValue(value)
	if err != nil {
		return b.fail("where reversed %s: %v", predicate, err)
	}
	b.add(Constraint{Kind: Reversed, Predicate: b.iri(predicate), Object: obj})
	return b
}

// Group nests constraints built by fn inside a braced group.
func (b *Builder) Group(fn func(*Builder)) *Builder {
	return b.subBuilder(Nested, And, fn)
}

// OrGroup nests constraints as a union branch.
func (b *Builder) OrGroup(fn func(*Builder)) *Builder {
	return b.subBuilder(Nested, Or, fn)
}

// SubSelect embeds a sub-select built by fn. Give the child columns or
// an aggregate; otherwise it compiles as a plain group.
func (b *Builder) SubSelect(fn func(*Builder)) *Builder {
	return b.subBuilder(Nested, And, fn)
}

// Optional wraps the constraints built by fn in an optional block.
// An empty block is a no-op and is never emitted.
func (b *Builder) Optional(fn func(*Builder)) *Builder {
	return b.subBuilder(Optional, And, fn)
}

// MinusGroup excludes solutions matching the constraints built by fn.
func (b *Builder) MinusGroup(fn func(*Builder)) *Builder {
	return b.subBuilder(Minus, And, fn)
}

// WhereExists requires the pattern built by fn to have a match.
func (b *Builder) WhereExists(fn func(*Builder)) *Builder {
	return b.subBuilder(Exists, And, fn)
}

// WhereNotExists requires the pattern built by fn to have no match.
func (b *Builder) WhereNotExists(fn func(*Builder)) *Builder {
	return b.subBuilder(NotExists, And, fn)
}

// Service delegates the constraints built by fn to a federated
// endpoint.
func (b *Builder) Service(endpoint string, fn func(*Builder)) *Builder {
	return b.service(endpoint, false, fn)
}

// ServiceSilent is Service with failures ignored by the store.
func (b *Builder) ServiceSilent(endpoint string, fn func(*Builder)) *Builder {
	return b.service(endpoint, true, fn)
}

func (b *Builder) service(endpoint string, silent bool, fn func(*Builder)) *Builder {
	sub := b.child()
	fn(sub)
	if sub.err != nil {
		return b.fail("%v", sub.err)
	}
	if len(sub.Constraints) == 0 {
		return b
	}
	b.Bindings = append(b.Bindings, sub.Bindings...)
	b.Constraints = append(b.Constraints, Constraint{
		Kind:   Service,
		Text:   endpoint,
		Silent: silent,
		Sub:    sub,
	})
	return b
}

// Values restricts a variable to an inline value list.
func (b *Builder) Values(variable string, values ...any) *Builder {
	terms := make([]term.Term, 0, len(values))
	for _, v := range values {
		t, err := term.FromValue(v)
		if err != nil {
			return b.fail("values %s: %v", variable, err)
		}
		terms = append(terms, t)
	}
	b.add(Constraint{Kind: ValuesBlock, Var: variable, Objects: terms})
	return b
}

// ValuesRows restricts a variable tuple to inline value rows.
func (b *Builder) ValuesRows(variables []string, rows ...[]any) *Builder {
	converted := make([][]term.Term, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(variables) {
			return b.fail("values row has %d items, want %d", len(row), len(variables))
		}
		terms := make([]term.Term, 0, len(row))
		for _, v := range row {
			t, err := term.FromValue(v)
			if err != nil {
				return b.fail("values row: %v", err)
			}
			terms = append(terms, t)
		}
		converted = append(converted, terms)
	}
	b.add(Constraint{Kind: RowValues, Vars: variables, Rows: converted})
	return b
}

// Bind assigns an expression to a fresh variable.
func (b *Builder) Bind(expr, variable string) *Builder {
	b.add(Constraint{Kind: BindExpr, Text: expr, Var: variable})
	return b
}
