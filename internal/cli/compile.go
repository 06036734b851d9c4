package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sparq/builder"
	"github.com/roach88/sparq/grammar"
	"github.com/roach88/sparq/prefix"
	"github.com/roach88/sparq/term"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompileResult holds the compiled query and its bindings.
type CompileResult struct {
	Query    string   `json:"query"`
	Bindings []string `json:"bindings,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <query.yaml>",
		Short: "Compile a query description to SPARQL text",
		Long: `Compile a YAML query description to SPARQL query text.

The description maps onto the fluent builder API: kind, select,
where constraints, grouping, ordering, and paging.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, _, _, err := compileFile(opts.RootOptions, formatter, path)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if werr := os.WriteFile(opts.Output, []byte(result.Query+"\n"), 0o644); werr != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWrite, fmt.Sprintf("writing output file: %v", werr))
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, result.Query)
	if opts.Verbose {
		for i, binding := range result.Bindings {
			fmt.Fprintf(formatter.Writer, "  binding %d: %s\n", i+1, binding)
		}
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote query to %s\n", opts.Output)
	}
	return nil
}

// compileFile loads, builds, and compiles a query description. Shared
// by the compile and query commands.
func compileFile(opts *RootOptions, formatter *OutputFormatter, path string) (*CompileResult, *builder.Builder, *prefix.Table, error) {
	table, err := opts.table()
	if err != nil {
		return nil, nil, nil, formatter.Fail(ExitCommandError, ErrCodePrefixes, err.Error())
	}

	qf, err := LoadQueryFile(path)
	if err != nil {
		return nil, nil, nil, formatter.Fail(ExitCommandError, ErrCodeLoad, err.Error())
	}

	b, err := qf.Build()
	if err != nil {
		return nil, nil, nil, formatter.Fail(ExitFailure, ErrCodeCompile, err.Error())
	}
	formatter.VerboseLog("Compiling %s (%d constraints)", path, len(b.Constraints))

	text, params, err := grammar.New(table).Compile(b)
	if err != nil {
		return nil, nil, nil, formatter.Fail(ExitFailure, compileErrorCode(err), err.Error())
	}

	rendered := make([]string, 0, len(params))
	for _, p := range params {
		s, ferr := term.Format(p, table)
		if ferr != nil {
			return nil, nil, nil, formatter.Fail(ExitFailure, ErrCodeCompile, ferr.Error())
		}
		rendered = append(rendered, s)
	}
	return &CompileResult{Query: text, Bindings: rendered}, b, table, nil
}

// compileErrorCode maps grammar error codes onto CLI error codes so
// JSON consumers see the structured cause.
func compileErrorCode(err error) string {
	switch {
	case grammar.IsUnmatchedFilter(err):
		return string(grammar.ErrCodeUnmatchedFilter)
	case grammar.IsUnsupportedOperation(err):
		return string(grammar.ErrCodeUnsupportedOperation)
	case grammar.IsSerialization(err):
		return string(grammar.ErrCodeSerialization)
	}
	return ErrCodeCompile
}
