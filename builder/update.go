package builder

import "github.com/roach88/sparq/term"

// UpdateKind identifies an update operation.
type UpdateKind int

const (
	// InsertData inserts a literal triple block.
	InsertData UpdateKind = iota
	// DeleteData deletes a literal triple block.
	DeleteData
	// InsertWhere inserts a template for every where-section match.
	InsertWhere
	// DeleteWhere deletes a template for every where-section match.
	DeleteWhere
	// DeleteInsert is the combined replace form.
	DeleteInsert
	// Load reads a document into a graph.
	Load
	// Clear removes all triples from a graph.
	Clear
	// Drop removes a graph.
	Drop
	// Create creates an empty named graph.
	Create
	// Copy replaces the destination graph with the source graph.
	Copy
	// Move is Copy followed by dropping the source.
	Move
	// Add inserts the source graph's triples into the destination.
	Add
)

// Triple is one subject-predicate-object statement in an update
// payload.
type Triple struct {
	Subject   term.Term
	Predicate term.Term
	Object    term.Term
}

// T is a shorthand Triple constructor.
func T(s, p, o term.Term) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// GraphRefKind identifies a graph reference form in management
// operations.
type GraphRefKind int

const (
	// RefDefault targets the default graph.
	RefDefault GraphRefKind = iota
	// RefNamed targets all named graphs.
	RefNamed
	// RefAll targets every graph.
	RefAll
	// RefGraph targets one explicit graph.
	RefGraph
)

// GraphRef is a graph reference: DEFAULT, NAMED, ALL, or an explicit
// graph IRI.
type GraphRef struct {
	Kind GraphRefKind
	IRI  string
}

// DefaultGraph references the default graph.
func DefaultGraph() GraphRef { return GraphRef{Kind: RefDefault} }

// NamedGraphs references all named graphs.
func NamedGraphs() GraphRef { return GraphRef{Kind: RefNamed} }

// AllGraphs references every graph.
func AllGraphs() GraphRef { return GraphRef{Kind: RefAll} }

// GraphOf references one explicit graph.
func GraphOf(iri string) GraphRef { return GraphRef{Kind: RefGraph, IRI: iri} }

// UpdateOp is the update payload carried by a builder. At most one
// operation exists per builder; setting a second one replaces the
// first.
type UpdateOp struct {
	Kind          UpdateKind
	Triples       []Triple
	DeleteTriples []Triple
	Source        string
	Into          string
	Target        GraphRef
	FromRef       GraphRef
	ToRef         GraphRef
	Silent        bool
}

// Silent marks the pending or next management operation as SILENT.
func (b *Builder) Silent() *Builder {
	b.silent = true
	if b.Op != nil {
		b.Op.Silent = true
	}
	return b
}

func (b *Builder) setOp(op *UpdateOp) *Builder {
	op.Silent = op.Silent || b.silent
	b.Op = op
	return b
}

// InsertTriples sets an insert-data payload. The builder's named graph,
// when set, wraps the block.
func (b *Builder) InsertTriples(triples ...Triple) *Builder {
	return b.setOp(&UpdateOp{Kind: InsertData, Triples: triples})
}

// DeleteTriples sets a delete-data payload.
func (b *Builder) DeleteTriples(triples ...Triple) *Builder {
	return b.setOp(&UpdateOp{Kind: DeleteData, Triples: triples})
}

// InsertMatched sets a pattern-based insert: the template is
// instantiated for every where-section match.
func (b *Builder) InsertMatched(template ...Triple) *Builder {
	return b.setOp(&UpdateOp{Kind: InsertWhere, Triples: template})
}

// DeleteMatched sets a pattern-based delete.
func (b *Builder) DeleteMatched(template ...Triple) *Builder {
	return b.setOp(&UpdateOp{Kind: DeleteWhere, Triples: template})
}

// Replace sets the combined delete-insert form over one where section.
func (b *Builder) Replace(deletes, inserts []Triple) *Builder {
	return b.setOp(&UpdateOp{Kind: DeleteInsert, DeleteTriples: deletes, Triples: inserts})
}

// LoadGraph loads a document into the default graph.
func (b *Builder) LoadGraph(source string) *Builder {
	return b.setOp(&UpdateOp{Kind: Load, Source: source})
}

// LoadGraphInto loads a document into a named graph.
func (b *Builder) LoadGraphInto(source, graph string) *Builder {
	return b.setOp(&UpdateOp{Kind: Load, Source: source, Into: graph})
}

// ClearGraph removes all triples from the referenced graph(s).
func (b *Builder) ClearGraph(ref GraphRef) *Builder {
	return b.setOp(&UpdateOp{Kind: Clear, Target: ref})
}

// DropGraph removes the referenced graph(s).
func (b *Builder) DropGraph(ref GraphRef) *Builder {
	return b.setOp(&UpdateOp{Kind: Drop, Target: ref})
}

// CreateGraph creates an empty named graph.
func (b *Builder) CreateGraph(iri string) *Builder {
	return b.setOp(&UpdateOp{Kind: Create, Target: GraphOf(iri)})
}

// CopyGraph replaces the destination graph with the source graph.
func (b *Builder) CopyGraph(from, to GraphRef) *Builder {
	return b.setOp(&UpdateOp{Kind: Copy, FromRef: from, ToRef: to})
}

// MoveGraph moves the source graph to the destination.
func (b *Builder) MoveGraph(from, to GraphRef) *Builder {
	return b.setOp(&UpdateOp{Kind: Move, FromRef: from, ToRef: to})
}

// AddGraph inserts the source graph's triples into the destination.
func (b *Builder) AddGraph(from, to GraphRef) *Builder {
	return b.setOp(&UpdateOp{Kind: Add, FromRef: from, ToRef: to})
}
