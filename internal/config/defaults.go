// Package config holds the configuration defaults and file discovery shared
// by the CLI and the UI server.
package config

import (
	"os"
	"path/filepath"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "healthtrends.yaml"
	ConfigFileNameAlt = "healthtrends.yml"
)

// EnvPrefix prefixes environment variables that override config keys.
const EnvPrefix = "HEALTHTRENDS_"

// Default configuration values.
const (
	DefaultMortalityFile = "child_mortality_0_5_year_olds_dying_per_1000_born.csv"
	DefaultDatabase      = ":memory:"
	DefaultOutput        = "auto"
	DefaultPort          = 8765
	DefaultPreviewRows   = 10
	DefaultCountry       = "Afghanistan"
)

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
