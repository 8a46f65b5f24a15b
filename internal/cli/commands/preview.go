package commands

import (
	"fmt"

	"github.com/leapstack-labs/healthtrends/internal/cli/config"
	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/spf13/cobra"
)

// PreviewOptions holds options for the preview command.
type PreviewOptions struct {
	Limit  int
	Format string
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand() *cobra.Command {
	opts := &PreviewOptions{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the first rows of the merged dataset",
		Long: `Load the reference and mortality sources, merge them, and print the
first rows of the result. Missing child mortality values print as NULL.`,
		Example: `  # First 10 rows
  healthtrends preview

  # First 3 rows as CSV
  healthtrends preview --limit 3 --format csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Number of rows (default: ui.preview_rows)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md")

	return cmd
}

func runPreview(cmd *cobra.Command, opts *PreviewOptions) error {
	cmdCtx := NewCommandContext(cmd)

	if opts.Limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	limit := opts.Limit
	if limit == 0 {
		limit = cmdCtx.Cfg.GetUIConfig().PreviewRows
	}
	format := opts.Format
	if format == "" {
		format = cmdCtx.Cfg.FormatOr(config.OutputTable)
	}

	table, err := cmdCtx.PrepareTable(cmd.Context())
	if err != nil {
		return err
	}

	head := table.Head(limit)
	results := make([][]any, len(head))
	for i, r := range head {
		results[i] = r.Values()
	}

	cmdCtx.Logger.Debug("previewing merged rows", "rows", len(results), "total", table.Len())
	return renderRecords(cmdCtx.Renderer.Writer(), dataset.Columns, results, format)
}
