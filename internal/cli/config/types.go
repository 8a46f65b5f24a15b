// Package config loads the CLI configuration from defaults, a YAML file,
// HEALTHTRENDS_ environment variables and command-line flags.
package config

import sharedcfg "github.com/leapstack-labs/healthtrends/internal/config"

// UIConfig holds configuration for the dashboard server.
type UIConfig struct {
	Port           int    `koanf:"port"`
	AutoOpen       bool   `koanf:"auto_open"`
	Watch          bool   `koanf:"watch"`
	PreviewRows    int    `koanf:"preview_rows"`
	DefaultCountry string `koanf:"default_country"`
	SessionSecret  string `koanf:"session_secret"`
	SessionDir     string `koanf:"session_dir"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:           sharedcfg.DefaultPort,
		AutoOpen:       true,
		Watch:          false,
		PreviewRows:    sharedcfg.DefaultPreviewRows,
		DefaultCountry: sharedcfg.DefaultCountry,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = sharedcfg.DefaultPort
	}
	if ui.PreviewRows == 0 {
		ui.PreviewRows = sharedcfg.DefaultPreviewRows
	}
	if ui.DefaultCountry == "" {
		ui.DefaultCountry = sharedcfg.DefaultCountry
	}
	return ui
}

// Config holds all CLI configuration options.
type Config struct {
	// ReferencePath is a gapminder-shaped CSV; empty selects the bundled table.
	ReferencePath string    `koanf:"reference_path"`
	MortalityPath string    `koanf:"mortality_path"`
	DatabasePath  string    `koanf:"database"`
	Verbose       bool      `koanf:"verbose"`
	OutputFormat  string    `koanf:"output"`
	UI            *UIConfig `koanf:"ui"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// Output formats accepted by the output key.
const (
	OutputAuto     = "auto"
	OutputTable    = "table"
	OutputJSON     = "json"
	OutputCSV      = "csv"
	OutputMarkdown = "md"
)

// FormatOr returns the configured output format, or fallback when it is auto.
func (c *Config) FormatOr(fallback string) string {
	if c.OutputFormat == "" || c.OutputFormat == OutputAuto {
		return fallback
	}
	return c.OutputFormat
}
