// Package grammar compiles constraint accumulators into query text.
//
// The grammar is stateless and pure: Compile reads a builder, never
// mutates it, and returns the final text plus the positional bindings
// the transport layer substitutes at execution time. All errors are
// compile-time errors carrying a CompileError code; nothing is
// retried or repaired.
//
// Rendering conventions are deliberate and stable, because callers
// assert on exact output:
//
//   - the read-form keyword is lowercase ("select", "ask"), inner
//     keywords are uppercase ("WHERE", "OPTIONAL", "FILTER")
//   - pattern records are joined with " . "
//   - the where section is braced only when it holds more than one
//     record; a lone pattern follows WHERE bare
//   - or-connected records compile to UNION branches, each braced
package grammar

import (
	"strconv"
	"strings"

	"github.com/roach88/sparq/builder"
	"github.com/roach88/sparq/prefix"
	"github.com/roach88/sparq/term"
)

// Grammar renders builders into query text using one prefix table for
// every name expansion.
type Grammar struct {
	table *prefix.Table
}

// New creates a grammar over the given prefix table. A nil table means
// the built-in defaults.
func New(table *prefix.Table) *Grammar {
	if table == nil {
		table = prefix.Default()
	}
	return &Grammar{table: table}
}

// Compile renders the builder into final query text and returns the
// positional bindings accumulated during construction. A builder with
// a recorded fluent-call error refuses to compile.
func (g *Grammar) Compile(b *builder.Builder) (string, []term.Term, error) {
	if b == nil {
		return "", nil, unsupportedf("nil builder")
	}
	if err := b.Err(); err != nil {
		return "", nil, &CompileError{Code: ErrCodeUnsupportedOperation, Message: err.Error(), Err: err}
	}

	var text string
	var err error
	switch {
	case b.Op != nil:
		text, err = g.compileUpdate(b)
	case b.Kind == builder.KindSelect:
		text, err = g.compileSelect(b)
	case b.Kind == builder.KindConstruct:
		text, err = g.compileConstruct(b)
	case b.Kind == builder.KindAsk:
		text, err = g.compileAsk(b)
	case b.Kind == builder.KindDescribe:
		text, err = g.compileDescribe(b)
	default:
		err = unsupportedf("unknown query kind %d", b.Kind)
	}
	if err != nil {
		return "", nil, err
	}

	bindings := make([]term.Term, len(b.Bindings))
	copy(bindings, b.Bindings)
	return text, bindings, nil
}

// format serializes one term, tagging failures as serialization
// errors.
func (g *Grammar) format(t term.Term) (string, error) {
	s, err := term.Format(t, g.table)
	if err != nil {
		return "", serialization(err)
	}
	return s, nil
}

func (g *Grammar) compileSelect(b *builder.Builder) (string, error) {
	var sb strings.Builder
	sb.WriteString("select")
	if b.IsDistinct {
		sb.WriteString(" distinct")
	}

	head, err := g.selectHead(b)
	if err != nil {
		return "", err
	}
	sb.WriteString(head)

	if err := g.writeBody(&sb, b); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Grammar) compileConstruct(b *builder.Builder) (string, error) {
	patterns, err := g.route(b)
	if err != nil {
		return "", err
	}

	var template []string
	for _, c := range patterns {
		switch c.Kind {
		case builder.Basic, builder.Reversed, builder.PropertyPath:
			c.Filters = nil
			t, err := g.compilePattern(b, c)
			if err != nil {
				return "", err
			}
			template = append(template, t)
		}
	}

	var sb strings.Builder
	if len(template) == 0 {
		sb.WriteString("construct { }")
	} else {
		sb.WriteString("construct { ")
		sb.WriteString(strings.Join(template, " . "))
		sb.WriteString(" }")
	}
	if err := g.writeBody(&sb, b); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Grammar) compileAsk(b *builder.Builder) (string, error) {
	var sb strings.Builder
	sb.WriteString("ask")
	if err := g.writeBody(&sb, b); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Grammar) compileDescribe(b *builder.Builder) (string, error) {
	var sb strings.Builder
	sb.WriteString("describe")
	if len(b.Describes) == 0 {
		sb.WriteString(" " + b.Subject.Var())
	}
	for _, r := range b.Describes {
		t, err := g.format(r)
		if err != nil {
			return "", err
		}
		sb.WriteString(" " + t)
	}
	if err := g.writeBody(&sb, b); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// writeBody appends the dataset clause, where section, and solution
// modifiers shared by every read form.
func (g *Grammar) writeBody(sb *strings.Builder, b *builder.Builder) error {
	if b.GraphIRI != "" {
		iri, err := g.format(term.IRI(b.GraphIRI))
		if err != nil {
			return err
		}
		sb.WriteString(" FROM " + iri)
	}

	where, err := g.whereClause(b)
	if err != nil {
		return err
	}
	sb.WriteString(where)

	tail, err := g.tailClauses(b)
	if err != nil {
		return err
	}
	sb.WriteString(tail)
	return nil
}

// selectHead renders the projection: the aggregate alias form, or the
// subject variable followed by column placeholders and raw
// expressions.
func (g *Grammar) selectHead(b *builder.Builder) (string, error) {
	if b.Agg != nil {
		arg, err := g.format(b.Agg.Arg)
		if err != nil {
			return "", err
		}
		if b.Agg.Distinct {
			arg = "distinct " + arg
		}
		return " (" + b.Agg.Fn + "(" + arg + ") as ?aggregate)", nil
	}

	var sb strings.Builder
	sb.WriteString(" " + b.Subject.Var())
	if b.Wildcard {
		sb.WriteString(" ?" + builder.WildcardPropVar)
		sb.WriteString(" ?" + builder.WildcardValueVar)
	}
	for _, col := range b.Columns {
		t, err := g.format(col)
		if err != nil {
			return "", err
		}
		sb.WriteString(" " + t)
	}
	for _, expr := range b.SelectExprs {
		sb.WriteString(" " + expr)
	}
	return sb.String(), nil
}

// whereClause renders the full where section including the leading
// " WHERE ", or an empty string when there is nothing to match.
func (g *Grammar) whereClause(b *builder.Builder) (string, error) {
	content, multi, err := g.whereContent(b)
	if err != nil {
		return "", err
	}

	if len(b.Unions) > 0 {
		branches := []string{braced(content)}
		for _, u := range b.Unions {
			bc, _, err := g.whereContent(u.Query)
			if err != nil {
				return "", err
			}
			branches = append(branches, braced(bc))
		}
		return " WHERE { " + strings.Join(branches, " UNION ") + " }", nil
	}

	if content == "" {
		return "", nil
	}
	if multi {
		return " WHERE { " + content + " }", nil
	}
	return " WHERE " + content, nil
}

// whereContent compiles a builder's routed patterns into joined text.
// The bool reports whether the content spans more than one record and
// therefore needs braces around it.
func (g *Grammar) whereContent(b *builder.Builder) (string, bool, error) {
	patterns, err := g.route(b)
	if err != nil {
		return "", false, err
	}

	type segment struct {
		text string
		or   bool
	}
	segs := make([]segment, 0, len(patterns))
	for _, c := range patterns {
		text, err := g.compilePattern(b, c)
		if err != nil {
			return "", false, err
		}
		if text == "" {
			continue
		}
		segs = append(segs, segment{text: text, or: c.Connective == builder.Or})
	}
	if len(segs) == 0 {
		return "", false, nil
	}

	var groups []string
	var run []string
	for i, s := range segs {
		if i > 0 && s.or {
			groups = append(groups, strings.Join(run, " . "))
			run = nil
		}
		run = append(run, s.text)
	}
	groups = append(groups, strings.Join(run, " . "))

	if len(groups) == 1 {
		return groups[0], len(segs) > 1, nil
	}
	for i := range groups {
		groups[i] = braced(groups[i])
	}
	return strings.Join(groups, " UNION "), true, nil
}

func braced(content string) string {
	if content == "" {
		return "{ }"
	}
	return "{ " + content + " }"
}

// tailClauses renders grouping, having, ordering, and paging.
func (g *Grammar) tailClauses(b *builder.Builder) (string, error) {
	var sb strings.Builder

	if len(b.Groups) > 0 {
		sb.WriteString(" GROUP BY")
		for _, key := range b.Groups {
			t, err := g.format(key)
			if err != nil {
				return "", err
			}
			sb.WriteString(" " + t)
		}
	}

	if len(b.Havings) > 0 {
		conds := make([]string, 0, len(b.Havings))
		for _, h := range b.Havings {
			operand, err := g.format(h.Operand)
			if err != nil {
				return "", err
			}
			conds = append(conds, h.Target.Var()+" "+h.Operator+" "+operand)
		}
		sb.WriteString(" HAVING ( " + strings.Join(conds, " && ") + " )")
	}

	if len(b.Orders) > 0 {
		sb.WriteString(" ORDER BY")
		for _, o := range b.Orders {
			t, err := g.format(o.Key)
			if err != nil {
				return "", err
			}
			if o.Desc {
				sb.WriteString(" DESC(" + t + ")")
			} else {
				sb.WriteString(" " + t)
			}
		}
	}

	if b.LimitCount >= 0 {
		sb.WriteString(" LIMIT " + strconv.Itoa(b.LimitCount))
	}
	if b.OffsetCount > 0 {
		sb.WriteString(" OFFSET " + strconv.Itoa(b.OffsetCount))
	}
	return sb.String(), nil
}
