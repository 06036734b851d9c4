package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sparq/prefix"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Prefixes string // optional YAML prefix table path
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sparq CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sparq",
		Short: "sparq - fluent SPARQL query compiler",
		Long:  "Compile declarative query descriptions to SPARQL text and run them against an endpoint.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Prefixes, "prefixes", "", "YAML file of prefix -> base IRI entries")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewPrefixesCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))

	return cmd
}

// table loads the active prefix table: the defaults, overlaid with the
// --prefixes file when given.
func (o *RootOptions) table() (*prefix.Table, error) {
	if o.Prefixes == "" {
		return prefix.Default(), nil
	}
	return prefix.Load(o.Prefixes)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
