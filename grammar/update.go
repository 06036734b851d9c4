package grammar

import (
	"strings"

	"github.com/roach88/sparq/builder"
	"github.com/roach88/sparq/term"
)

// compileUpdate renders the builder's update payload. Update keywords
// are uppercase throughout, matching the store's canonical form.
func (g *Grammar) compileUpdate(b *builder.Builder) (string, error) {
	op := b.Op
	switch op.Kind {
	case builder.InsertData:
		return g.dataUpdate("INSERT DATA", b, op.Triples)
	case builder.DeleteData:
		return g.dataUpdate("DELETE DATA", b, op.Triples)
	case builder.InsertWhere, builder.DeleteWhere, builder.DeleteInsert:
		return g.patternUpdate(b)
	case builder.Load:
		return g.loadUpdate(op)
	case builder.Clear:
		return g.refUpdate("CLEAR", op.Silent, op.Target)
	case builder.Drop:
		return g.refUpdate("DROP", op.Silent, op.Target)
	case builder.Create:
		return g.refUpdate("CREATE", op.Silent, op.Target)
	case builder.Copy:
		return g.moveLikeUpdate("COPY", op)
	case builder.Move:
		return g.moveLikeUpdate("MOVE", op)
	case builder.Add:
		return g.moveLikeUpdate("ADD", op)
	}
	return "", unsupportedf("unknown update kind %d", op.Kind)
}

// dataUpdate renders INSERT DATA and DELETE DATA. The builder's named
// graph, when set, wraps the triple block.
func (g *Grammar) dataUpdate(keyword string, b *builder.Builder, triples []builder.Triple) (string, error) {
	block, err := g.tripleBlock(triples)
	if err != nil {
		return "", err
	}
	if b.GraphIRI != "" {
		iri, err := g.format(term.IRI(b.GraphIRI))
		if err != nil {
			return "", err
		}
		block = "GRAPH " + iri + " { " + block + " }"
	}
	return keyword + " { " + block + " }", nil
}

// patternUpdate renders the template forms: INSERT ... WHERE,
// DELETE ... WHERE, and the combined DELETE ... INSERT ... WHERE. A
// delete template with no where constraints compiles to the
// DELETE WHERE shorthand, matching against the template itself.
func (g *Grammar) patternUpdate(b *builder.Builder) (string, error) {
	op := b.Op
	where, err := g.whereClause(b)
	if err != nil {
		return "", err
	}

	wrap := func(block string) (string, error) {
		if b.GraphIRI == "" {
			return block, nil
		}
		iri, err := g.format(term.IRI(b.GraphIRI))
		if err != nil {
			return "", err
		}
		return "GRAPH " + iri + " { " + block + " }", nil
	}

	var sb strings.Builder
	switch op.Kind {
	case builder.DeleteWhere:
		block, err := g.tripleBlock(op.Triples)
		if err != nil {
			return "", err
		}
		if block, err = wrap(block); err != nil {
			return "", err
		}
		if where == "" {
			return "DELETE WHERE { " + block + " }", nil
		}
		sb.WriteString("DELETE { " + block + " }")

	case builder.InsertWhere:
		block, err := g.tripleBlock(op.Triples)
		if err != nil {
			return "", err
		}
		if block, err = wrap(block); err != nil {
			return "", err
		}
		sb.WriteString("INSERT { " + block + " }")

	case builder.DeleteInsert:
		del, err := g.tripleBlock(op.DeleteTriples)
		if err != nil {
			return "", err
		}
		ins, err := g.tripleBlock(op.Triples)
		if err != nil {
			return "", err
		}
		if del, err = wrap(del); err != nil {
			return "", err
		}
		if ins, err = wrap(ins); err != nil {
			return "", err
		}
		sb.WriteString("DELETE { " + del + " } INSERT { " + ins + " }")
	}

	if where == "" {
		where = " WHERE { }"
	}
	sb.WriteString(where)
	return sb.String(), nil
}

func (g *Grammar) loadUpdate(op *builder.UpdateOp) (string, error) {
	src, err := g.format(term.IRI(op.Source))
	if err != nil {
		return "", err
	}
	text := "LOAD " + silentKeyword(op.Silent) + src
	if op.Into != "" {
		into, err := g.format(term.IRI(op.Into))
		if err != nil {
			return "", err
		}
		text += " INTO GRAPH " + into
	}
	return text, nil
}

func (g *Grammar) refUpdate(keyword string, silent bool, ref builder.GraphRef) (string, error) {
	r, err := g.graphRef(ref)
	if err != nil {
		return "", err
	}
	return keyword + " " + silentKeyword(silent) + r, nil
}

func (g *Grammar) moveLikeUpdate(keyword string, op *builder.UpdateOp) (string, error) {
	from, err := g.graphRef(op.FromRef)
	if err != nil {
		return "", err
	}
	to, err := g.graphRef(op.ToRef)
	if err != nil {
		return "", err
	}
	return keyword + " " + silentKeyword(op.Silent) + from + " TO " + to, nil
}

func (g *Grammar) graphRef(ref builder.GraphRef) (string, error) {
	switch ref.Kind {
	case builder.RefDefault:
		return "DEFAULT", nil
	case builder.RefNamed:
		return "NAMED", nil
	case builder.RefAll:
		return "ALL", nil
	case builder.RefGraph:
		iri, err := g.format(term.IRI(ref.IRI))
		if err != nil {
			return "", err
		}
		return "GRAPH " + iri, nil
	}
	return "", unsupportedf("unknown graph reference kind %d", ref.Kind)
}

// tripleBlock renders triples as dot-terminated statements joined by
// single spaces.
func (g *Grammar) tripleBlock(triples []builder.Triple) (string, error) {
	parts := make([]string, 0, len(triples))
	for _, t := range triples {
		s, err := g.format(t.Subject)
		if err != nil {
			return "", err
		}
		p, err := g.format(t.Predicate)
		if err != nil {
			return "", err
		}
		o, err := g.format(t.Object)
		if err != nil {
			return "", err
		}
		parts = append(parts, s+" "+p+" "+o+" .")
	}
	return strings.Join(parts, " "), nil
}

func silentKeyword(silent bool) string {
	if silent {
		return "SILENT "
	}
	return ""
}
