package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/sparq/builder"
	"github.com/roach88/sparq/endpoint"
	"github.com/roach88/sparq/fold"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Endpoint  string
	UpdateURL string
	Raw       bool // emit flat rows instead of folded records
}

// NewQueryCommand creates the query command, which compiles a
// description and executes it against a SPARQL endpoint.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <query.yaml>",
		Short: "Compile and execute a query against an endpoint",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Endpoint, "endpoint", "e", "", "SPARQL endpoint query URL (required)")
	cmd.Flags().StringVar(&opts.UpdateURL, "update-url", "", "separate endpoint update URL")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "emit flat solution rows instead of folded records")
	_ = cmd.MarkFlagRequired("endpoint")

	return cmd
}

func runQuery(opts *QueryOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, b, table, err := compileFile(opts.RootOptions, formatter, path)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Executing against %s: %s", opts.Endpoint, result.Query)

	clientOpts := []endpoint.Option{}
	if opts.UpdateURL != "" {
		clientOpts = append(clientOpts, endpoint.WithUpdateURL(opts.UpdateURL))
	}
	client := endpoint.NewClient(opts.Endpoint, clientOpts...)
	ctx := cmd.Context()

	switch {
	case b.Op != nil:
		if err := client.Update(ctx, result.Query); err != nil {
			return formatter.Fail(ExitFailure, ErrCodeEndpoint, err.Error())
		}
		return formatter.Success("update applied")

	case b.Kind == builder.KindAsk:
		ok, err := client.Ask(ctx, result.Query)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeEndpoint, err.Error())
		}
		return formatter.Success(ok)

	case b.Kind == builder.KindConstruct, b.Kind == builder.KindDescribe:
		ttl, err := client.Construct(ctx, result.Query)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeEndpoint, err.Error())
		}
		return formatter.Success(ttl)

	default:
		rows, err := client.Select(ctx, result.Query)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeEndpoint, err.Error())
		}
		if opts.Raw {
			return formatter.Success(rows)
		}
		records := fold.Fold(b, table, rows)
		return outputRecords(formatter, records)
	}
}

func outputRecords(formatter *OutputFormatter, records []fold.Record) error {
	if formatter.Format == "json" {
		return formatter.Success(records)
	}
	for _, rec := range records {
		fmt.Fprintf(formatter.Writer, "%v\n", rec["id"])
		keys := make([]string, 0, len(rec))
		for key := range rec {
			if key != "id" {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(formatter.Writer, "  %s: %v\n", key, rec[key])
		}
	}
	fmt.Fprintf(formatter.Writer, "%d record(s)\n", len(records))
	return nil
}
