package grammar

import (
	"strings"

	"github.com/roach88/sparq/builder"
	"github.com/roach88/sparq/term"
)

// compilePattern renders one pattern-establishing record, including
// any scalar filters the router attached to it.
func (g *Grammar) compilePattern(b *builder.Builder, c builder.Constraint) (string, error) {
	var text string
	var err error

	switch c.Kind {
	case builder.Basic:
		text, err = g.triple(b.Subject, c.Predicate, c.Object)

	case builder.Reversed:
		var s, p string
		if s, err = g.format(c.Object); err == nil {
			if p, err = g.format(c.Predicate); err == nil {
				text = s + " " + p + " " + b.Subject.Var()
			}
		}

	case builder.PropertyPath:
		var o string
		if o, err = g.format(c.Object); err == nil {
			text = b.Subject.Var() + " " + g.expandPath(pathText(c.Predicate)) + " " + o
		}

	case builder.Null:
		var inner string
		if inner, err = g.triple(b.Subject, c.Predicate, c.Object); err == nil {
			text = "FILTER NOT EXISTS { " + inner + " }"
		}

	case builder.NotNull:
		var inner string
		if inner, err = g.triple(b.Subject, c.Predicate, c.Object); err == nil {
			text = "FILTER EXISTS { " + inner + " }"
		}

	case builder.RawPattern:
		text = c.Text

	case builder.Nested:
		text, err = g.nestedGroup(c.Sub)

	case builder.Optional:
		text, err = g.blockPattern("OPTIONAL", c.Sub)

	case builder.Minus:
		text, err = g.blockPattern("MINUS", c.Sub)

	case builder.Exists:
		text, err = g.blockPattern("FILTER EXISTS", c.Sub)

	case builder.NotExists:
		text, err = g.blockPattern("FILTER NOT EXISTS", c.Sub)

	case builder.Service:
		var iri, inner string
		if iri, err = g.format(term.IRI(c.Text)); err == nil {
			if inner, _, err = g.whereContent(c.Sub); err == nil {
				kw := "SERVICE "
				if c.Silent {
					kw = "SERVICE SILENT "
				}
				text = kw + iri + " " + braced(inner)
			}
		}

	case builder.ValuesBlock:
		var vals []string
		vals, err = g.formatAll(c.Objects)
		if err == nil {
			text = "VALUES ?" + c.Var + " { " + strings.Join(vals, " ") + " }"
		}

	case builder.RowValues:
		text, err = g.rowValues(c)

	case builder.BindExpr:
		text = "BIND(" + c.Text + " AS ?" + c.Var + ")"

	default:
		return "", unsupportedf("no handler for constraint kind %d", c.Kind)
	}
	if err != nil {
		return "", err
	}

	if len(c.Filters) > 0 {
		f, err := g.filterList(c.Filters)
		if err != nil {
			return "", err
		}
		text += " . FILTER ( " + f + " )"
	}
	return text, nil
}

func (g *Grammar) triple(subject term.Param, pred, obj term.Term) (string, error) {
	p, err := g.format(pred)
	if err != nil {
		return "", err
	}
	o, err := g.format(obj)
	if err != nil {
		return "", err
	}
	return subject.Var() + " " + p + " " + o, nil
}

// nestedGroup renders a child builder as a braced group, or as an
// embedded sub-select when the child carries its own projection.
func (g *Grammar) nestedGroup(sub *builder.Builder) (string, error) {
	if sub.Agg != nil || len(sub.Columns) > 0 || len(sub.SelectExprs) > 0 {
		inner, err := g.compileSelect(sub)
		if err != nil {
			return "", err
		}
		return braced(inner), nil
	}
	inner, _, err := g.whereContent(sub)
	if err != nil {
		return "", err
	}
	return braced(inner), nil
}

func (g *Grammar) blockPattern(keyword string, sub *builder.Builder) (string, error) {
	inner, _, err := g.whereContent(sub)
	if err != nil {
		return "", err
	}
	return keyword + " " + braced(inner), nil
}

func (g *Grammar) rowValues(c builder.Constraint) (string, error) {
	vars := make([]string, len(c.Vars))
	for i, v := range c.Vars {
		vars[i] = "?" + v
	}
	rows := make([]string, 0, len(c.Rows))
	for _, row := range c.Rows {
		vals, err := g.formatAll(row)
		if err != nil {
			return "", err
		}
		rows = append(rows, "("+strings.Join(vals, " ")+")")
	}
	return "VALUES (" + strings.Join(vars, " ") + ") { " + strings.Join(rows, " ") + " }", nil
}

func (g *Grammar) formatAll(terms []term.Term) ([]string, error) {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		s, err := g.format(t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// filterList joins attached filters into one condition, honoring each
// filter's connective.
func (g *Grammar) filterList(filters []builder.Constraint) (string, error) {
	var sb strings.Builder
	for i, f := range filters {
		expr, err := g.filterExpr(f)
		if err != nil {
			return "", err
		}
		if i > 0 {
			if f.Connective == builder.Or {
				sb.WriteString(" || ")
			} else {
				sb.WriteString(" && ")
			}
		}
		sb.WriteString(expr)
	}
	return sb.String(), nil
}

func (g *Grammar) filterExpr(f builder.Constraint) (string, error) {
	target, ok := f.Predicate.(term.Param)
	if !ok {
		return "", unsupportedf("filter without variable target")
	}
	v := target.Var()

	switch f.Kind {
	case builder.Basic:
		obj, err := g.format(f.Object)
		if err != nil {
			return "", err
		}
		switch f.Operator {
		case "regex":
			return "regex(" + v + ", " + obj + ")", nil
		case "contains":
			return "contains(str(" + v + "), " + obj + ")", nil
		case "strstarts":
			return "strstarts(str(" + v + "), " + obj + ")", nil
		case "strends":
			return "strends(str(" + v + "), " + obj + ")", nil
		case "langmatches":
			return "langmatches(lang(" + v + "), " + obj + ")", nil
		case "!=", "<", "<=", ">", ">=", "=":
			return v + " " + f.Operator + " " + obj, nil
		}
		return "", unsupportedf("unsupported filter operator %q", f.Operator)

	case builder.Column:
		other, ok := f.Object.(term.Param)
		if !ok {
			return "", unsupportedf("column filter without variable operand")
		}
		return v + " " + f.Operator + " " + other.Var(), nil

	case builder.InList, builder.NotInList:
		vals, err := g.formatAll(f.Objects)
		if err != nil {
			return "", err
		}
		op := " IN ("
		if f.Kind == builder.NotInList {
			op = " NOT IN ("
		}
		return v + op + strings.Join(vals, ", ") + ")", nil

	case builder.Between, builder.NotBetween:
		if len(f.Objects) != 2 {
			return "", unsupportedf("range filter needs two operands, has %d", len(f.Objects))
		}
		lo, err := g.format(f.Objects[0])
		if err != nil {
			return "", err
		}
		hi, err := g.format(f.Objects[1])
		if err != nil {
			return "", err
		}
		if f.Kind == builder.NotBetween {
			return "(" + v + " < " + lo + " || " + v + " > " + hi + ")", nil
		}
		return v + " >= " + lo + " && " + v + " <= " + hi, nil
	}
	return "", unsupportedf("no filter handler for constraint kind %d", f.Kind)
}

func pathText(t term.Term) string {
	switch v := t.(type) {
	case term.Raw:
		return string(v)
	case term.IRI:
		return string(v)
	}
	return ""
}
