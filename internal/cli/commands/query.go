package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/healthtrends/internal/cli/config"
	"github.com/leapstack-labs/healthtrends/internal/cli/output"
	"github.com/leapstack-labs/healthtrends/internal/warehouse"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// format returns the --format value, falling back to the global output format.
func (o *QueryOptions) format(cfg *config.Config) string {
	if o.Format != "" {
		return o.Format
	}
	return cfg.FormatOr(config.OutputTable)
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the merged dataset with SQL",
		Long: `Load the merged dataset into DuckDB and query it.

The merged rows are available as the "merged" table. When invoked without
arguments on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  healthtrends query "SELECT country, year, childMortality FROM merged WHERE year = 2007"

  # List available tables
  healthtrends query tables

  # Show schema for a table
  healthtrends query schema merged

  # Output as JSON
  healthtrends query "SELECT * FROM merged LIMIT 3" --format json

  # Interactive mode
  healthtrends query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	var sqlQuery string
	repl := false
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !output.IsTerminal(os.Stdin):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		repl = true
	}

	db, err := cmdCtx.OpenWarehouse(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if repl {
		return runQueryREPL(cmd, db, opts.format(cmdCtx.Cfg))
	}
	if strings.TrimSpace(sqlQuery) == "" {
		return fmt.Errorf("no SQL given")
	}
	return executeAndRender(ctx, cmdCtx.Renderer.Writer(), db, sqlQuery, opts.format(cmdCtx.Cfg))
}

// executeAndRender runs sqlQuery and renders its rows.
func executeAndRender(ctx context.Context, w io.Writer, db *warehouse.DuckDB, sqlQuery, format string) error {
	rows, err := db.Query(ctx, strings.TrimSuffix(strings.TrimSpace(sqlQuery), ";"))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	return renderResults(w, rows.Rows, format)
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables in the warehouse",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			db, err := cmdCtx.OpenWarehouse(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return listTables(cmd.Context(), cmdCtx.Renderer.Writer(), db, opts.format(cmdCtx.Cfg))
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show schema for a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			db, err := cmdCtx.OpenWarehouse(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return showSchema(cmd.Context(), cmdCtx.Renderer.Writer(), db, args[0], opts.format(cmdCtx.Cfg))
		},
	}
}

func listTables(ctx context.Context, w io.Writer, db *warehouse.DuckDB, format string) error {
	names, err := db.Tables(ctx)
	if err != nil {
		return err
	}
	return renderTableList(w, names, format)
}

func showSchema(ctx context.Context, w io.Writer, db *warehouse.DuckDB, tableName, format string) error {
	meta, err := db.Describe(ctx, tableName)
	if err != nil {
		return err
	}
	return renderSchema(w, meta, format)
}
