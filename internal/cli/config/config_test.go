package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedcfg "github.com/leapstack-labs/healthtrends/internal/config"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, sharedcfg.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("reference", "", "reference CSV")
	flags.String("mortality", "", "mortality CSV")
	flags.String("database", "", "DuckDB database")
	flags.BoolP("verbose", "v", false, "verbose")
	flags.StringP("output", "o", "", "output format")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	cwd, err := os.Getwd()
	require.NoError(t, err)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, cwd, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(cwd, sharedcfg.DefaultMortalityFile), cfg.MortalityPath)
	assert.Empty(t, cfg.ReferencePath, "empty reference selects the bundled table")
	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.False(t, cfg.Verbose)

	require.NotNil(t, cfg.UI)
	assert.Equal(t, 8765, cfg.UI.Port)
	assert.Equal(t, 10, cfg.UI.PreviewRows)
	assert.Equal(t, "Afghanistan", cfg.UI.DefaultCountry)
	assert.True(t, cfg.UI.AutoOpen)
	assert.False(t, cfg.UI.Watch)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `mortality_path: data/mortality.csv
reference_path: /abs/gapminder.csv
database: warehouse.duckdb
ui:
  port: 9000
  watch: true
  default_country: Norway
  session_dir: .sessions
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, "data", "mortality.csv"), cfg.MortalityPath)
	assert.Equal(t, "/abs/gapminder.csv", cfg.ReferencePath)
	assert.Equal(t, filepath.Join(dir, "warehouse.duckdb"), cfg.DatabasePath)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.True(t, cfg.UI.Watch)
	assert.Equal(t, filepath.Join(dir, ".sessions"), cfg.UI.SessionDir)
	assert.Equal(t, "Norway", cfg.UI.DefaultCountry)
	assert.Equal(t, 10, cfg.UI.PreviewRows, "unset keys keep defaults")
}

func TestLoadConfig_FoundUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "verbose: true\n")
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0750))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, sharedcfg.DefaultMortalityFile), cfg.MortalityPath)
	assert.Equal(t, filepath.Base(root), filepath.Base(cfg.ProjectRoot))
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "mortality_path: from_file.csv\nui:\n  port: 9000\n")

	t.Setenv("HEALTHTRENDS_MORTALITY_PATH", "from_env.csv")
	t.Setenv("HEALTHTRENDS_UI_PORT", "9100")
	t.Setenv("HEALTHTRENDS_UI_DEFAULT_COUNTRY", "Japan")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "from_env.csv"), cfg.MortalityPath)
	assert.Equal(t, 9100, cfg.UI.Port)
	assert.Equal(t, "Japan", cfg.UI.DefaultCountry)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "mortality_path: from_file.csv\noutput: csv\n")
	t.Setenv("HEALTHTRENDS_MORTALITY_PATH", "from_env.csv")

	work := t.TempDir()
	t.Chdir(work)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	flags := testFlags()
	require.NoError(t, flags.Set("mortality", "from_flag.csv"))
	require.NoError(t, flags.Set("output", "json"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cwd, "from_flag.csv"), cfg.MortalityPath, "flag paths resolve against the working directory")
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "mortality_path: from_file.csv\n")
	t.Setenv("HEALTHTRENDS_MORTALITY_PATH", "from_env.csv")

	cfg, err := LoadConfig(cfgPath, testFlags())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "from_env.csv"), cfg.MortalityPath)
}

func TestLoadConfig_MemoryDatabaseFlag(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "database: file.duckdb\n")

	flags := testFlags()
	require.NoError(t, flags.Set("database", ":memory:"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()

	cfgPath := writeConfig(t, dir, "output: xml\n")
	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")

	cfgPath = writeConfig(t, dir, "ui:\n  port: [1, 2\n")
	_, err = LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		errSubstr string
	}{
		{name: "valid", cfg: Config{MortalityPath: "m.csv", OutputFormat: "md"}},
		{name: "missing mortality", cfg: Config{}, errSubstr: "mortality_path is required"},
		{name: "bad output", cfg: Config{MortalityPath: "m.csv", OutputFormat: "yaml"}, errSubstr: "invalid output format"},
		{name: "bad port", cfg: Config{MortalityPath: "m.csv", UI: &UIConfig{Port: 70000}}, errSubstr: "out of range"},
		{name: "negative preview", cfg: Config{MortalityPath: "m.csv", UI: &UIConfig{PreviewRows: -1}}, errSubstr: "preview_rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_FormatOr(t *testing.T) {
	assert.Equal(t, "table", (&Config{OutputFormat: "auto"}).FormatOr("table"))
	assert.Equal(t, "table", (&Config{}).FormatOr("table"))
	assert.Equal(t, "json", (&Config{OutputFormat: "json"}).FormatOr("table"))
}

func TestGetUIConfig(t *testing.T) {
	ui := (&Config{}).GetUIConfig()
	assert.Equal(t, DefaultUIConfig(), ui)

	ui = (&Config{UI: &UIConfig{Watch: true}}).GetUIConfig()
	assert.Equal(t, 8765, ui.Port)
	assert.Equal(t, 10, ui.PreviewRows)
	assert.True(t, ui.Watch)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestGetCurrentConfig(t *testing.T) {
	ResetConfig()
	assert.Nil(t, GetCurrentConfig())

	cfgPath := writeConfig(t, t.TempDir(), "verbose: true\n")
	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Same(t, cfg, GetCurrentConfig())
}
