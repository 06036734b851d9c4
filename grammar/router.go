package grammar

import (
	"fmt"
	"strings"

	"github.com/roach88/sparq/builder"
	"github.com/roach88/sparq/term"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// route normalizes a builder's constraint list into compile order:
// pattern-establishing records first, in accumulation order, with every
// scalar filter re-attached to the record that introduced its target
// variable. A type constraint from From is prepended so the subject is
// bound before anything references it.
//
// A filter whose target variable no pattern introduces is a hard error:
// the accumulator reached an inconsistent state and the query would be
// silently wrong if compiled.
func (g *Grammar) route(b *builder.Builder) ([]builder.Constraint, error) {
	var patterns []builder.Constraint

	if b.FromClass != "" {
		class := b.FromClass
		if b.NS != "" && !strings.Contains(class, ":") {
			class = b.NS + ":" + class
		}
		patterns = append(patterns, builder.Constraint{
			Kind:      builder.Basic,
			Predicate: term.IRI(rdfType),
			Object:    term.Class(class),
		})
	}

	for _, c := range b.Constraints {
		if c.IsFilter {
			continue
		}
		c.Filters = nil
		patterns = append(patterns, c)
	}

	for _, c := range b.Constraints {
		if !c.IsFilter {
			continue
		}
		target, ok := c.Predicate.(term.Param)
		if !ok {
			return nil, &CompileError{
				Code:    ErrCodeUnmatchedFilter,
				Message: fmt.Sprintf("filter of kind %d has no variable target", c.Kind),
			}
		}
		idx := -1
		for i := range patterns {
			if introduces(patterns[i], target) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &CompileError{
				Code:    ErrCodeUnmatchedFilter,
				Message: fmt.Sprintf("filter targets variable %s, which no pattern binds", target.Var()),
			}
		}
		patterns[idx].Filters = append(patterns[idx].Filters, c)
	}

	return patterns, nil
}

// introduces reports whether a pattern record binds the given
// placeholder as its object.
func introduces(c builder.Constraint, v term.Param) bool {
	switch c.Kind {
	case builder.Basic, builder.Reversed, builder.PropertyPath, builder.Null, builder.NotNull:
		return c.Object == term.Term(v)
	}
	return false
}
