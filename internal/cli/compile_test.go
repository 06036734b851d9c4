package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileCommand_Text(t *testing.T) {
	path := writeQueryFile(t, `
select: [foaf:name]
where:
  - predicate: foaf:name
    value: Alice
`)

	out, err := executeCommand(t, "compile", path)
	require.NoError(t, err)
	assert.Contains(t, out, `select ?s ?v1 WHERE ?s <http://xmlns.com/foaf/0.1/name> "Alice"`)
}

func TestCompileCommand_JSON(t *testing.T) {
	path := writeQueryFile(t, `
where:
  - predicate: http://example.com/p
    value: v
`)

	out, err := executeCommand(t, "--format", "json", "compile", path)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Query    string   `json:"query"`
			Bindings []string `json:"bindings"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, `select ?s WHERE ?s <http://example.com/p> "v"`, resp.Data.Query)
	assert.Equal(t, []string{`"v"`}, resp.Data.Bindings)
}

func TestCompileCommand_OutputFile(t *testing.T) {
	path := writeQueryFile(t, `
where:
  - predicate: http://example.com/p
    value: v
`)
	outFile := filepath.Join(t.TempDir(), "query.rq")

	_, err := executeCommand(t, "compile", path, "--output", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "select ?s WHERE ?s <http://example.com/p> \"v\"\n", string(data))
}

func TestCompileCommand_MissingFileIsCommandError(t *testing.T) {
	out, err := executeCommand(t, "compile", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeLoad)
}

func TestCompileCommand_BuilderErrorIsFailure(t *testing.T) {
	path := writeQueryFile(t, `
where:
  - predicate: http://example.com/p
    op: "~"
    value: 1
`)

	out, err := executeCommand(t, "compile", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "unsupported operator")
}

func TestCompileCommand_CustomPrefixes(t *testing.T) {
	prefixFile := filepath.Join(t.TempDir(), "prefixes.yaml")
	require.NoError(t, os.WriteFile(prefixFile, []byte("ex: \"http://example.org/ns#\"\n"), 0o644))

	path := writeQueryFile(t, `
where:
  - predicate: ex:p
    value: v
`)

	out, err := executeCommand(t, "--prefixes", prefixFile, "compile", path)
	require.NoError(t, err)
	assert.Contains(t, out, `<http://example.org/ns#p>`)
}

func TestCompileCommand_InvalidFormatFlag(t *testing.T) {
	_, err := executeCommand(t, "--format", "xml", "compile", "whatever.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestPrefixesCommand(t *testing.T) {
	out, err := executeCommand(t, "prefixes")
	require.NoError(t, err)
	assert.Contains(t, out, "foaf: http://xmlns.com/foaf/0.1/")
	assert.Contains(t, out, "rdf: http://www.w3.org/1999/02/22-rdf-syntax-ns#")
}

func TestPrefixesCommand_JSON(t *testing.T) {
	out, err := executeCommand(t, "--format", "json", "prefixes")
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema#", resp.Data["xsd"])
}
