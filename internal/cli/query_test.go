package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCommand_SelectFoldsRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"head": {"vars": ["s", "v1"]},
			"results": {"bindings": [
				{"s": {"type": "uri", "value": "http://example.com/r1"},
				 "v1": {"type": "literal", "value": "Alice"}}
			]}
		}`))
	}))
	defer srv.Close()

	path := writeQueryFile(t, `
select: [foaf:name]
`)

	out, err := executeCommand(t, "--format", "json", "query", path, "--endpoint", srv.URL)
	require.NoError(t, err)

	var resp struct {
		Status string              `json:"status"`
		Data   []map[string]any    `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "http://example.com/r1", resp.Data[0]["id"])
	assert.Equal(t, "Alice", resp.Data[0]["foaf:name"])
}

func TestQueryCommand_RawRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"head": {"vars": ["s"]},
			"results": {"bindings": [
				{"s": {"type": "uri", "value": "http://example.com/r1"}}
			]}
		}`))
	}))
	defer srv.Close()

	path := writeQueryFile(t, `
select: [foaf:name]
`)

	out, err := executeCommand(t, "--format", "json", "query", path, "--endpoint", srv.URL, "--raw")
	require.NoError(t, err)

	var resp struct {
		Data []map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "http://example.com/r1", resp.Data[0]["s"])
}

func TestQueryCommand_Ask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"head": {}, "boolean": true}`))
	}))
	defer srv.Close()

	path := writeQueryFile(t, `
kind: ask
where:
  - predicate: http://example.com/p
    value: v
`)

	out, err := executeCommand(t, "query", path, "--endpoint", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "true")
}

func TestQueryCommand_Update(t *testing.T) {
	var gotUpdate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotUpdate = r.PostFormValue("update")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	path := writeQueryFile(t, `
update:
  kind: drop
  silent: true
  graph: http://example.com/g
`)

	out, err := executeCommand(t, "query", path, "--endpoint", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "DROP SILENT GRAPH <http://example.com/g>", gotUpdate)
	assert.Contains(t, out, "update applied")
}

func TestQueryCommand_EndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	path := writeQueryFile(t, `
select: [foaf:name]
`)

	out, err := executeCommand(t, "query", path, "--endpoint", srv.URL)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeEndpoint)
}

func TestQueryCommand_RequiresEndpoint(t *testing.T) {
	path := writeQueryFile(t, `
select: [foaf:name]
`)

	_, err := executeCommand(t, "query", path)
	require.Error(t, err)
}
