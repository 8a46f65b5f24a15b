// Package testutil provides shared helpers for tests: a slog logger bound to
// testing.TB and small on-disk fixtures.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// SampleMortalityCSV is a small wide mortality file covering two bundled
// countries. Zimbabwe is deliberately absent.
const SampleMortalityCSV = "country,1952,1957,1962,2007\n" +
	"Afghanistan,360.0,345.2,330.1,128.0\n" +
	"Norway,28.1,24.0,20.3,3.9\n"

// WriteFile writes content to name inside a fresh temp directory and returns
// the full path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
