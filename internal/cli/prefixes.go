package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPrefixesCommand creates the prefixes command, which lists the
// active prefix table (defaults plus the --prefixes file).
func NewPrefixesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "prefixes",
		Short:         "List the active namespace prefixes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			table, err := rootOpts.table()
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodePrefixes, err.Error())
			}

			if formatter.Format == "json" {
				entries := make(map[string]string)
				for _, p := range table.Prefixes() {
					base, _ := table.Base(p)
					entries[p] = base
				}
				return formatter.Success(entries)
			}
			for _, p := range table.Prefixes() {
				base, _ := table.Base(p)
				fmt.Fprintf(formatter.Writer, "%s: %s\n", p, base)
			}
			return nil
		},
	}
}
