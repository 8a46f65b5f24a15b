package config

import (
	"fmt"
	"slices"
)

var validOutputs = []string{OutputAuto, OutputTable, OutputJSON, OutputCSV, OutputMarkdown}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MortalityPath == "" {
		return fmt.Errorf("mortality_path is required")
	}
	if c.OutputFormat != "" && !slices.Contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (want one of %v)", c.OutputFormat, validOutputs)
	}
	if c.UI != nil {
		if c.UI.Port < 0 || c.UI.Port > 65535 {
			return fmt.Errorf("ui.port %d out of range", c.UI.Port)
		}
		if c.UI.PreviewRows < 0 {
			return fmt.Errorf("ui.preview_rows must not be negative")
		}
	}
	return nil
}
