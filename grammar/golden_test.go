package grammar

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparq/builder"
	"github.com/roach88/sparq/term"
)

// Golden snapshots of full compiled queries. These pin the exact
// rendering conventions end to end, where the unit tests above pin
// individual clauses.
func TestCompile_Golden(t *testing.T) {
	scenarios := []struct {
		name  string
		build func() *builder.Builder
	}{
		{
			name: "person_report",
			build: func() *builder.Builder {
				return builder.New().
					Namespace("foaf").
					From("Person").
					Select("name", "mbox").
					WhereOp("age", ">", 18).
					Optional(func(q *builder.Builder) { q.Where("nick", "Ali") }).
					OrderBy("name").
					Limit(10).
					Offset(5)
			},
		},
		{
			name: "graph_replace",
			build: func() *builder.Builder {
				s := term.IRI("http://example.com/s")
				p := term.IRI("http://example.com/p")
				return builder.New().
					Graph("http://example.com/g").
					Replace(
						[]builder.Triple{builder.T(s, p, term.Text("old"))},
						[]builder.Triple{builder.T(s, p, term.Text("new"))},
					).
					Where("http://example.com/p", "old")
			},
		},
		{
			name: "federated_union",
			build: func() *builder.Builder {
				local := builder.New().
					Where("http://example.com/status", "active").
					Union(builder.New().Where("http://example.com/status", "pending"))
				return local
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			text, _, err := New(nil).Compile(sc.build())
			require.NoError(t, err)
			g.Assert(t, sc.name, []byte(text))
		})
	}
}
