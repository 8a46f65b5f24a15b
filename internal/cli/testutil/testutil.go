// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/leapstack-labs/healthtrends/internal/cli/output"
	"github.com/leapstack-labs/healthtrends/internal/config"
	datasettest "github.com/leapstack-labs/healthtrends/internal/testutil"
)

// SetupTestProject creates a temporary project holding a healthtrends.yaml and
// the sample mortality file, and returns its directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	mortality := filepath.Join(tmpDir, config.DefaultMortalityFile)
	if err := os.WriteFile(mortality, []byte(datasettest.SampleMortalityCSV), 0600); err != nil {
		t.Fatalf("failed to create %s: %v", mortality, err)
	}

	cfg := "mortality_path: " + config.DefaultMortalityFile + "\n" +
		"database: \":memory:\"\n" +
		"ui:\n  port: 9876\n  auto_open: false\n"
	if err := os.WriteFile(filepath.Join(tmpDir, config.ConfigFileName), []byte(cfg), 0600); err != nil {
		t.Fatalf("failed to create config: %v", err)
	}

	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, mode, isTTY),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
