package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparq/grammar"
)

func writeQueryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "query.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadQueryFile_BuildsSelect(t *testing.T) {
	path := writeQueryFile(t, `
namespace: foaf
from: Person
select: [name]
where:
  - predicate: age
    op: ">"
    value: 18
order_by: [name]
limit: 10
`)

	qf, err := LoadQueryFile(path)
	require.NoError(t, err)

	b, err := qf.Build()
	require.NoError(t, err)

	text, _, err := grammar.New(nil).Compile(b)
	require.NoError(t, err)
	assert.Equal(t, `select ?s ?v1 WHERE { ?s <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://xmlns.com/foaf/0.1/Person> . ?s <http://xmlns.com/foaf/0.1/name> ?v1 . ?s <http://xmlns.com/foaf/0.1/age> ?v2 . FILTER ( ?v2 > 18 ) } ORDER BY ?v1 LIMIT 10`, text)
}

func TestQueryFile_Kinds(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "ask",
			content: `
kind: ask
where:
  - predicate: http://example.com/p
    value: v
`,
			want: `ask WHERE ?s <http://example.com/p> "v"`,
		},
		{
			name: "describe",
			content: `
kind: describe
describe: [http://example.com/alice]
`,
			want: `describe <http://example.com/alice>`,
		},
		{
			name: "count",
			content: `
kind: select
from: foaf:Person
count: ""
`,
			want: `select (count(?s) as ?aggregate) WHERE ?s <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://xmlns.com/foaf/0.1/Person>`,
		},
		{
			name: "optional and null entries",
			content: `
where:
  - predicate: http://example.com/name
    value: n
optional:
  - predicate: http://example.com/email
    not_null: true
`,
			want: `select ?s WHERE { ?s <http://example.com/name> "n" . OPTIONAL { FILTER EXISTS { ?s <http://example.com/email> ?v1 } } }`,
		},
		{
			name: "in list",
			content: `
where:
  - predicate: http://example.com/tag
    values: [a, b]
`,
			want: `select ?s WHERE ?s <http://example.com/tag> ?v1 . FILTER ( ?v1 IN ("a", "b") )`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			qf, err := LoadQueryFile(writeQueryFile(t, tc.content))
			require.NoError(t, err)

			b, err := qf.Build()
			require.NoError(t, err)

			text, _, err := grammar.New(nil).Compile(b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, text)
		})
	}
}

func TestQueryFile_Updates(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "clear silent graph",
			content: `
update:
  kind: clear
  silent: true
  graph: http://example.com/g
`,
			want: `CLEAR SILENT GRAPH <http://example.com/g>`,
		},
		{
			name: "drop default",
			content: `
update:
  kind: drop
`,
			want: `DROP DEFAULT`,
		},
		{
			name: "copy graph to graph",
			content: `
update:
  kind: copy
  from: http://example.com/a
  to: http://example.com/b
`,
			want: `COPY GRAPH <http://example.com/a> TO GRAPH <http://example.com/b>`,
		},
		{
			name: "load into graph",
			content: `
update:
  kind: load
  source: http://example.com/data.ttl
  into: http://example.com/g
`,
			want: `LOAD <http://example.com/data.ttl> INTO GRAPH <http://example.com/g>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			qf, err := LoadQueryFile(writeQueryFile(t, tc.content))
			require.NoError(t, err)

			b, err := qf.Build()
			require.NoError(t, err)

			text, _, err := grammar.New(nil).Compile(b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, text)
		})
	}
}

func TestQueryFile_UnknownUpdateKind(t *testing.T) {
	qf := &QueryFile{Update: &UpdateFile{Kind: "truncate"}}

	_, err := qf.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"truncate"`)
}

func TestQueryFile_UnknownKind(t *testing.T) {
	qf := &QueryFile{Kind: "upsert"}

	_, err := qf.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"upsert"`)
}

func TestQueryFile_BuilderErrorSurfaces(t *testing.T) {
	qf := &QueryFile{Where: []WhereEntry{{Predicate: "p", Op: "~", Value: 1}}}

	_, err := qf.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported operator")
}

func TestLoadQueryFile_Missing(t *testing.T) {
	_, err := LoadQueryFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
