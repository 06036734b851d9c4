package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparq/builder"
)

func TestFold_OneRecordPerSubject(t *testing.T) {
	b := builder.New().Select("foaf:name", "foaf:mbox")

	records := Fold(b, nil, []Row{
		{"s": "http://example.com/r1", "v1": "Alice", "v2": "alice@example.com"},
		{"s": "http://example.com/r2", "v1": "Bob", "v2": "bob@example.com"},
	})

	require.Len(t, records, 2)
	assert.Equal(t, Record{
		"id":        "http://example.com/r1",
		"foaf:name": "Alice",
		"foaf:mbox": "alice@example.com",
	}, records[0])
	assert.Equal(t, Record{
		"id":        "http://example.com/r2",
		"foaf:name": "Bob",
		"foaf:mbox": "bob@example.com",
	}, records[1])
}

func TestFold_PromotesRepeatedValuesToList(t *testing.T) {
	b := builder.New().Select("foaf:mbox")

	records := Fold(b, nil, []Row{
		{"s": "http://example.com/r1", "v1": "alice@example.com"},
		{"s": "http://example.com/r1", "v1": "a@example.org"},
		{"s": "http://example.com/r1", "v1": "alice@example.com"}, // duplicate, ignored
	})

	require.Len(t, records, 1)
	assert.Equal(t, []any{"alice@example.com", "a@example.org"}, records[0]["foaf:mbox"])
}

func TestFold_NonAdjacentRowsMerge(t *testing.T) {
	b := builder.New().Select("foaf:name")

	records := Fold(b, nil, []Row{
		{"s": "http://example.com/r1", "v1": "Alice"},
		{"s": "http://example.com/r2", "v1": "Bob"},
		{"s": "http://example.com/r1", "v1": "Alicia"},
	})

	require.Len(t, records, 2)
	assert.Equal(t, []any{"Alice", "Alicia"}, records[0]["foaf:name"])
	assert.Equal(t, "Bob", records[1]["foaf:name"])
}

func TestFold_WildcardUsesPropBinding(t *testing.T) {
	b := builder.New().Select("*")

	records := Fold(b, nil, []Row{
		{"s": "http://example.com/r1", "prop": "http://xmlns.com/foaf/0.1/name", "value": "Alice"},
		{"s": "http://example.com/r1", "prop": "http://example.com/custom", "value": "x"},
	})

	require.Len(t, records, 1)
	assert.Equal(t, "Alice", records[0]["foaf:name"])
	assert.Equal(t, "x", records[0]["http://example.com/custom"])
}

func TestFold_UnknownVariableKeepsVarName(t *testing.T) {
	b := builder.New().Select("foaf:name")

	records := Fold(b, nil, []Row{
		{"s": "http://example.com/r1", "v1": "Alice", "y": "1990"},
	})

	require.Len(t, records, 1)
	assert.Equal(t, "1990", records[0]["y"])
}

func TestFold_DropsRowsWithoutSubject(t *testing.T) {
	b := builder.New().Select("foaf:name")

	records := Fold(b, nil, []Row{
		{"v1": "Alice"},
		{"s": "http://example.com/r1", "v1": "Bob"},
	})

	require.Len(t, records, 1)
	assert.Equal(t, "Bob", records[0]["foaf:name"])
}

func TestFold_ShortensSubjectAndProperties(t *testing.T) {
	b := builder.New().Select("http://xmlns.com/foaf/0.1/name")

	records := Fold(b, nil, []Row{
		{"s": "http://xmlns.com/foaf/0.1/alice", "v1": "Alice"},
	})

	require.Len(t, records, 1)
	assert.Equal(t, "foaf:alice", records[0]["id"])
	assert.Equal(t, "Alice", records[0]["foaf:name"])
}

func TestFold_NestedVariableLookup(t *testing.T) {
	b := builder.New().Select("foaf:name")
	b.Optional(func(q *builder.Builder) {
		q.Select("foaf:mbox")
	})

	records := Fold(b, nil, []Row{
		{"s": "http://example.com/r1", "v1": "Alice", "v2": "alice@example.com"},
	})

	require.Len(t, records, 1)
	assert.Equal(t, "alice@example.com", records[0]["foaf:mbox"])
}
