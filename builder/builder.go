package builder

import (
	"fmt"
	"strings"

	"github.com/roach88/sparq/term"
)

// Kind identifies the read form a builder compiles to.
type Kind int

const (
	// KindSelect compiles to a record-selection query.
	KindSelect Kind = iota
	// KindConstruct compiles to a graph-construction query.
	KindConstruct
	// KindAsk compiles to an existence check.
	KindAsk
	// KindDescribe compiles to a resource description.
	KindDescribe
)

// Connective joins a constraint record with the one before it. The
// first record's connective is discarded at compile time.
type Connective int

const (
	// And joins records by pattern juxtaposition.
	And Connective = iota
	// Or joins records as union branches.
	Or
)

// ConstraintKind tags a constraint record. The set is closed; the
// grammar rejects kinds it has no handler for.
type ConstraintKind int

const (
	Basic ConstraintKind = iota
	InList
	NotInList
	Between
	NotBetween
	Null
	NotNull
	RawPattern
	Nested
	Optional
	Minus
	Service
	ValuesBlock
	BindExpr
	PropertyPath
	Exists
	NotExists
	Column
	RowValues
	Reversed
)

// Variable names used by wildcard (select "*") queries.
const (
	WildcardPropVar  = "prop"
	WildcardValueVar = "value"
)

// Constraint is one tagged record in the accumulator's ordered
// constraint list. Which fields are meaningful depends on Kind.
type Constraint struct {
	Kind       ConstraintKind
	Connective Connective

	// IsFilter marks a scalar filter over a bound placeholder, as
	// opposed to a pattern-establishing record. For filters, Predicate
	// holds the target Param.
	IsFilter bool

	Predicate term.Term
	Object    term.Term
	Objects   []term.Term
	Operator  string

	// Text carries raw pattern fragments and bind expressions.
	Text string

	// Var and Vars name the targets of values and bind blocks.
	Var  string
	Vars []string
	Rows [][]term.Term

	Silent bool
	Sub    *Builder

	// Filters holds the scalar filters the router attached to this
	// record. Populated at compile time only.
	Filters []Constraint
}

// Order is one order-by key.
type Order struct {
	Key  term.Term
	Desc bool
}

// Having is one having condition over an aggregated placeholder.
type Having struct {
	Target   term.Param
	Operator string
	Operand  term.Term
}

// Aggregate describes a head aggregate function call.
type Aggregate struct {
	Fn       string
	Distinct bool
	Arg      term.Term
}

// Union is one union branch: a complete sub-query plus the all flag.
type Union struct {
	Query *Builder
	All   bool
}

// sequence mints placeholder numbers. The root builder owns one
// sequence and shares it with every child, keeping variable names
// unique across the whole compiled text.
type sequence struct {
	n int
}

func (s *sequence) next() int {
	s.n++
	return s.n
}

// Builder is the constraint accumulator. Construct with New; the zero
// value is not usable.
type Builder struct {
	Kind        Kind
	Subject     term.Param
	IsDistinct  bool
	Wildcard    bool
	Columns     []term.Term
	SelectExprs []string
	Agg         *Aggregate
	Constraints []Constraint
	Groups      []term.Term
	Havings     []Having
	Orders      []Order
	LimitCount  int
	OffsetCount int
	Unions      []Union
	GraphIRI    string
	NS          string
	FromClass   string
	Describes   []term.Term

	// Bindings collects operand values in positional order for
	// parameterized execution by the transport layer.
	Bindings []term.Term

	// Op is the update payload; when set, the grammar compiles an
	// update operation instead of a read form.
	Op *UpdateOp

	seq    *sequence
	silent bool
	err    error
}

// New creates an empty accumulator for a record-selection query.
func New() *Builder {
	return &Builder{
		Kind:        KindSelect,
		Subject:     term.Param("s"),
		LimitCount:  -1,
		OffsetCount: -1,
		seq:         &sequence{},
	}
}

// child creates a builder for a nested construct. It shares the
// parent's variable sequence and inherits the subject variable and
// namespace context.
func (b *Builder) child() *Builder {
	return &Builder{
		Kind:        KindSelect,
		Subject:     b.Subject,
		NS:          b.NS,
		LimitCount:  -1,
		OffsetCount: -1,
		seq:         b.seq,
	}
}

// FreshSubject gives the builder its own subject variable, minted from
// the shared sequence. Useful for sub-selects that should not join on
// the parent's subject.
func (b *Builder) FreshSubject() *Builder {
	b.Subject = term.Param(fmt.Sprintf("s%d", b.seq.next()))
	return b
}

// Err returns the first error recorded by a fluent call, if any.
// Compilation refuses builders with a recorded error.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
	return b
}

// Construct switches the builder to a graph-construction query.
func (b *Builder) Construct() *Builder {
	b.Kind = KindConstruct
	return b
}

// Ask switches the builder to an existence check.
func (b *Builder) Ask() *Builder {
	b.Kind = KindAsk
	return b
}

// Describe switches the builder to a resource description of the given
// resources. With no resources the description targets the subject
// variable.
func (b *Builder) Describe(resources ...string) *Builder {
	b.Kind = KindDescribe
	for _, r := range resources {
		b.Describes = append(b.Describes, b.iri(r))
	}
	return b
}

// Graph scopes the query to a named graph.
func (b *Builder) Graph(iri string) *Builder {
	b.GraphIRI = iri
	return b
}

// Namespace sets the default namespace prefix applied to bare
// predicate and class names ("name" becomes "foaf:name").
func (b *Builder) Namespace(ns string) *Builder {
	b.NS = ns
	return b
}

// From constrains the subject to a record type. The grammar injects
// the type-match pattern into the where section; no FROM clause is
// emitted.
func (b *Builder) From(class string) *Builder {
	b.FromClass = class
	return b
}

// Distinct requests duplicate elimination.
func (b *Builder) Distinct() *Builder {
	b.IsDistinct = true
	return b
}

// Limit caps the number of results.
func (b *Builder) Limit(n int) *Builder {
	b.LimitCount = n
	return b
}

// Offset skips the first n results.
func (b *Builder) Offset(n int) *Builder {
	b.OffsetCount = n
	return b
}

// Select pushes attribute columns. "*" selects all properties of the
// subject via a wildcard prop/value pattern.
func (b *Builder) Select(columns ...string) *Builder {
	for _, col := range columns {
		if col == "*" {
			b.selectAll()
			continue
		}
		b.Columns = append(b.Columns, b.PushAttribute(col))
	}
	return b
}

// SelectRaw appends a verbatim select expression.
func (b *Builder) SelectRaw(expr string) *Builder {
	b.SelectExprs = append(b.SelectExprs, expr)
	return b
}

func (b *Builder) selectAll() {
	if b.Wildcard {
		return
	}
	b.Wildcard = true
	b.Constraints = append(b.Constraints, Constraint{
		Kind:      Basic,
		Predicate: term.Param(WildcardPropVar),
		Object:    term.Param(WildcardValueVar),
	})
}

// PushAttribute resolves a predicate to its placeholder variable.
// When the predicate was already pushed, the existing placeholder is
// returned; otherwise a fresh one is minted and a basic triple pattern
// binding it is appended. This is what keeps a predicate referenced
// from select, groupBy, and orderBy down to a single triple pattern.
func (b *Builder) PushAttribute(name string) term.Param {
	pred := b.iri(name)
	for _, c := range b.Constraints {
		if c.Kind != Basic || c.IsFilter || c.Predicate != pred {
			continue
		}
		if v, ok := c.Object.(term.Param); ok {
			return v
		}
	}
	v := b.nextParam()
	b.Constraints = append(b.Constraints, Constraint{
		Kind:      Basic,
		Predicate: pred,
		Object:    v,
	})
	return v
}

// PredicateForVar reverse-looks-up the predicate name a placeholder
// variable was pushed under. Used by the result folder to recover
// human-facing property names.
func (b *Builder) PredicateForVar(name string) (string, bool) {
	v := term.Param(name)
	for _, c := range b.Constraints {
		if c.IsFilter || c.Object != term.Term(v) {
			continue
		}
		switch c.Kind {
		case Basic, Reversed, PropertyPath:
			if iri, ok := c.Predicate.(term.IRI); ok {
				return string(iri), true
			}
			if raw, ok := c.Predicate.(term.Raw); ok {
				return string(raw), true
			}
		}
	}
	for _, c := range b.Constraints {
		if c.Sub == nil {
			continue
		}
		if pred, ok := c.Sub.PredicateForVar(name); ok {
			return pred, true
		}
	}
	return "", false
}

// nextParam mints a fresh placeholder from the shared sequence.
func (b *Builder) nextParam() term.Param {
	return term.Param(fmt.Sprintf("v%d", b.seq.next()))
}

// iri resolves a predicate or class name against the namespace
// context: bare names pick up the default namespace prefix.
func (b *Builder) iri(name string) term.IRI {
	if b.NS != "" && !strings.Contains(name, ":") {
		return term.IRI(b.NS + ":" + name)
	}
	return term.IRI(name)
}

// add appends a constraint record and registers its bindable operands
// in positional order.
func (b *Builder) add(c Constraint) {
	b.bind(c.Object)
	for _, o := range c.Objects {
		b.bind(o)
	}
	for _, row := range c.Rows {
		for _, o := range row {
			b.bind(o)
		}
	}
	b.Constraints = append(b.Constraints, c)
}

func (b *Builder) bind(t term.Term) {
	if t != nil && term.Bindable(t) {
		b.Bindings = append(b.Bindings, t)
	}
}

// subBuilder runs fn against a fresh child and appends a construct
// record wrapping it. A child that accumulated no constraints is a
// no-op: nothing is appended and the child is discarded.
func (b *Builder) subBuilder(kind ConstraintKind, conn Connective, fn func(*Builder)) *Builder {
	sub := b.child()
	fn(sub)
	if sub.err != nil {
		return b.fail("%v", sub.err)
	}
	if len(sub.Constraints) == 0 && sub.Agg == nil && len(sub.SelectExprs) == 0 {
		return b
	}
	b.Bindings = append(b.Bindings, sub.Bindings...)
	b.Constraints = append(b.Constraints, Constraint{Kind: kind, Connective: conn, Sub: sub})
	return b
}

// Union appends a union branch compiled after the main query body.
func (b *Builder) Union(other *Builder) *Builder {
	return b.union(other, false)
}

// UnionAll appends a union branch that keeps duplicate solutions.
func (b *Builder) UnionAll(other *Builder) *Builder {
	return b.union(other, true)
}

func (b *Builder) union(other *Builder, all bool) *Builder {
	if other == nil {
		return b
	}
	if other.err != nil {
		return b.fail("%v", other.err)
	}
	b.Bindings = append(b.Bindings, other.Bindings...)
	b.Unions = append(b.Unions, Union{Query: other, All: all})
	return b
}

// Aggregate heads. The grammar always renders these parenthesized with
// an "as ?aggregate" alias.

// Count aggregates with count. An empty column counts subjects.
func (b *Builder) Count(column string) *Builder { return b.aggregate("count", false, column) }

// CountDistinct aggregates with count over distinct values.
func (b *Builder) CountDistinct(column string) *Builder { return b.aggregate("count", true, column) }

// Sum aggregates with sum.
func (b *Builder) Sum(column string) *Builder { return b.aggregate("sum", false, column) }

// Avg aggregates with avg.
func (b *Builder) Avg(column string) *Builder { return b.aggregate("avg", false, column) }

// Min aggregates with min.
func (b *Builder) Min(column string) *Builder { return b.aggregate("min", false, column) }

// Max aggregates with max.
func (b *Builder) Max(column string) *Builder { return b.aggregate("max", false, column) }

func (b *Builder) aggregate(fn string, distinct bool, column string) *Builder {
	arg := term.Term(b.Subject)
	if column != "" {
		arg = b.PushAttribute(column)
	}
	b.Agg = &Aggregate{Fn: fn, Distinct: distinct, Arg: arg}
	return b
}

// GroupBy pushes attributes as grouping keys.
func (b *Builder) GroupBy(columns ...string) *Builder {
	for _, col := range columns {
		b.Groups = append(b.Groups, b.PushAttribute(col))
	}
	return b
}

// Having adds a having condition on an attribute.
func (b *Builder) Having(column, op string, value any) *Builder {
	if !comparisonOperator(op) {
		return b.fail("unsupported having operator: %q", op)
	}
	operand, err := term.FromValue(value)
	if err != nil {
		return b.fail("having %s: %v", column, err)
	}
	target := b.PushAttribute(column)
	b.bind(operand)
	b.Havings = append(b.Havings, Having{Target: target, Operator: op, Operand: operand})
	return b
}

// OrderBy pushes an attribute as an ascending order key.
func (b *Builder) OrderBy(column string) *Builder {
	b.Orders = append(b.Orders, Order{Key: b.PushAttribute(column)})
	return b
}

// OrderByDesc pushes an attribute as a descending order key.
func (b *Builder) OrderByDesc(column string) *Builder {
	b.Orders = append(b.Orders, Order{Key: b.PushAttribute(column), Desc: true})
	return b
}
