package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/leapstack-labs/healthtrends/internal/cli/config"
	"github.com/leapstack-labs/healthtrends/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/healthtrends/internal/config"
	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/leapstack-labs/healthtrends/internal/warehouse"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a renderer for the
// global output mode.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.ParseMode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Preparer returns a dataset preparer for the configured inputs.
func (c *CommandContext) Preparer() *dataset.Preparer {
	return dataset.NewPreparer(dataset.Config{
		ReferencePath: c.Cfg.ReferencePath,
		MortalityPath: c.Cfg.MortalityPath,
		Logger:        c.Logger,
	})
}

// PrepareTable runs the preparer. Load errors keep their dataset type.
func (c *CommandContext) PrepareTable(ctx context.Context) (*dataset.Table, error) {
	table, err := c.Preparer().Prepare(ctx)
	if err != nil {
		return nil, withInputHint(fmt.Errorf("failed to prepare dataset: %w", err))
	}
	return table, nil
}

// inputHintError appends a usage hint to a missing input file error.
type inputHintError struct {
	err  error
	hint string
}

func (e *inputHintError) Error() string { return e.err.Error() + "\nHint: " + e.hint }

func (e *inputHintError) Unwrap() error { return e.err }

func withInputHint(err error) error {
	var srcErr *dataset.DataSourceError
	if !errors.As(err, &srcErr) || !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return &inputHintError{
		err:  err,
		hint: fmt.Sprintf("use --mortality and --reference, or set mortality_path and reference_path in %s", sharedcfg.ConfigFileName),
	}
}

// OpenWarehouse prepares the dataset and loads it into DuckDB under
// warehouse.DefaultTable. The caller closes the returned connection.
func (c *CommandContext) OpenWarehouse(ctx context.Context) (*warehouse.DuckDB, error) {
	table, err := c.PrepareTable(ctx)
	if err != nil {
		return nil, err
	}

	db, err := warehouse.Open(ctx, warehouse.Config{
		Path:   c.Cfg.DatabasePath,
		Logger: c.Logger,
	})
	if err != nil {
		return nil, err
	}
	if err := db.LoadTable(ctx, warehouse.DefaultTable, table); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		ReferencePath: os.Getenv(sharedcfg.EnvPrefix + "REFERENCE_PATH"),
		MortalityPath: getEnvOrDefault(sharedcfg.EnvPrefix+"MORTALITY_PATH", sharedcfg.DefaultMortalityFile),
		DatabasePath:  getEnvOrDefault(sharedcfg.EnvPrefix+"DATABASE", sharedcfg.DefaultDatabase),
		Verbose:       os.Getenv(sharedcfg.EnvPrefix+"VERBOSE") == "true",
		OutputFormat:  getEnvOrDefault(sharedcfg.EnvPrefix+"OUTPUT", sharedcfg.DefaultOutput),
		UI:            config.DefaultUIConfig(),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
