// Package builder provides the constraint accumulator: the mutable,
// per-query intermediate representation assembled by fluent calls and
// handed to the grammar for compilation.
//
// A Builder holds the query kind, selected columns, an ordered list of
// tagged constraint records, grouping/ordering/paging state, union
// branches, graph and namespace context, and an optional update
// payload. One Builder describes one logical query; it is created
// fresh, mutated by builder calls, compiled once, then discarded.
//
// ARCHITECTURE:
//
//	[fluent calls] → [Builder state] → [grammar.Compile] → query text + bindings
//
// Constraint records are tagged variants over a closed kind set. Each
// record is either pattern-establishing (it introduces or matches a
// graph edge) or a scalar filter over a previously bound placeholder
// variable; the grammar's filter router re-attaches filters to the
// record that introduced their target variable.
//
// VARIABLE NAMING:
//
// Placeholder variables are minted from a monotonic counter owned by
// the root builder and shared with every child builder, so names are
// deterministic and unique by construction within one compiled query.
// No randomness is involved.
//
// Pushing the same attribute twice returns the same placeholder: the
// accumulator scans existing basic records before minting, so a
// predicate referenced from select, groupBy, and orderBy produces
// exactly one triple pattern.
//
// Builders are not safe for concurrent use. Child builders created for
// optional/minus/nested/service/exists blocks are owned by the parent
// during construction and either merged or discarded, never shared.
package builder
