package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/healthtrends/internal/cli/output"
	clitestutil "github.com/leapstack-labs/healthtrends/internal/cli/testutil"
	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/leapstack-labs/healthtrends/internal/testutil"
	"github.com/leapstack-labs/healthtrends/internal/warehouse"
)

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	reference, err := dataset.LoadReference(context.Background(), "")
	require.NoError(t, err)
	wide, err := dataset.ReadMortality(strings.NewReader(testutil.SampleMortalityCSV), "sample.csv")
	require.NoError(t, err)
	return dataset.Merge(reference, dataset.Melt(wide))
}

func sampleWarehouse(t *testing.T) *warehouse.DuckDB {
	t.Helper()
	ctx := context.Background()
	db, err := warehouse.Open(ctx, warehouse.Config{Path: ":memory:", Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.LoadTable(ctx, warehouse.DefaultTable, sampleTable(t)))
	return db
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{"ui", NewUICommand(), "ui", []string{"port", "no-browser", "watch"}},
		{"preview", NewPreviewCommand(), "preview", []string{"limit", "format"}},
		{"query", NewQueryCommand(), "query [SQL]", []string{"format", "input"}},
		{"doctor", NewDoctorCommand(), "doctor", []string{"format"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestUICommand_WatchOffByDefault(t *testing.T) {
	watch, err := NewUICommand().Flags().GetBool("watch")
	require.NoError(t, err)
	assert.False(t, watch)
}

func TestQueryCommand_Subcommands(t *testing.T) {
	cmd := NewQueryCommand()
	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"tables", "schema"}, names)
}

func TestRenderRecords(t *testing.T) {
	cols := []string{"country", "childMortality"}
	rows := [][]any{{"Afghanistan", 360.0}, {"Zimbabwe", nil}}

	tests := []struct {
		format string
		want   []string
	}{
		{"table", []string{"Afghanistan", "NULL", "(2 rows)"}},
		{"csv", []string{"country,childMortality", "Afghanistan,360", "Zimbabwe,NULL"}},
		{"md", []string{"| country | childMortality |", "| Zimbabwe | NULL |"}},
		{"json", []string{`"country": "Afghanistan"`, `"childMortality": null`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderRecords(&buf, cols, rows, tt.format))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRenderRecords_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderRecords(&buf, []string{"a"}, nil, "table"))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestExecuteAndRender(t *testing.T) {
	db := sampleWarehouse(t)

	var buf bytes.Buffer
	err := executeAndRender(context.Background(), &buf, db,
		"SELECT country, year FROM merged WHERE childMortality > 300 ORDER BY year;", "csv")
	require.NoError(t, err)

	assert.Equal(t, "country,year\nAfghanistan,1952\nAfghanistan,1957\nAfghanistan,1962\n", buf.String())
}

func TestHandleDotCommand(t *testing.T) {
	db := sampleWarehouse(t)
	ctx := context.Background()

	tests := []struct {
		line    string
		quit    bool
		wantOut string
		wantErr string
	}{
		{".tables", false, "merged", ""},
		{".schema", false, "childMortality", ""},
		{".schema missing", false, "", "not found"},
		{".help", false, ".schema [name]", ""},
		{".bogus", false, "", "Unknown command"},
		{".quit", true, "", ""},
		{".exit", true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var out, errOut bytes.Buffer
			quit := handleDotCommand(ctx, &out, &errOut, db, tt.line, "table")
			assert.Equal(t, tt.quit, quit)
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestBuildDoctorOutput(t *testing.T) {
	out := buildDoctorOutput(sampleTable(t), DoctorSources{Reference: dataset.BundledSource, Mortality: "sample.csv"})

	assert.Equal(t, 180, out.Summary.Rows)
	assert.Equal(t, 15, out.Summary.Countries)
	assert.Equal(t, 1952, out.Summary.FirstYear)
	assert.Equal(t, 2007, out.Summary.LastYear)
	assert.Equal(t, 8, out.Join.Matched)
	assert.InDelta(t, 8.0/180*100, out.Coverage, 1e-9)
	assert.Equal(t, statusWarn, out.Status)

	byName := map[string]HealthCheck{}
	for _, c := range out.Checks {
		byName[c.Name] = c
	}
	assert.Equal(t, statusPass, byName["matched values"].Status)
	assert.Equal(t, statusWarn, byName["unmatched countries"].Status)
	assert.Contains(t, byName["unmatched countries"].Details, "Zimbabwe")
	assert.Equal(t, statusPass, byName["unused countries"].Status)
}

func TestBuildDoctorOutput_NoMatches(t *testing.T) {
	reference, err := dataset.LoadReference(context.Background(), "")
	require.NoError(t, err)
	wide, err := dataset.ReadMortality(strings.NewReader("country,1952\nAtlantis,1\n"), "x.csv")
	require.NoError(t, err)

	out := buildDoctorOutput(dataset.Merge(reference, dataset.Melt(wide)), DoctorSources{})
	assert.Equal(t, statusError, out.Status)
	assert.Zero(t, out.Coverage)
}

func TestRenderDoctorText(t *testing.T) {
	tr := clitestutil.NewTestRenderer(output.ModeText, false)
	renderDoctorText(tr.Renderer, buildDoctorOutput(sampleTable(t), DoctorSources{Reference: "ref", Mortality: "mort"}))

	got := tr.Output()
	clitestutil.AssertNoANSI(t, got)
	assert.Contains(t, got, "Health Trends Dataset Report")
	assert.Contains(t, got, "Rows: 180 | Countries: 15 | Continents: 5")
	assert.Contains(t, got, "! Unmatched Countries: 13 reference countries")
	assert.Contains(t, got, "... and 8 more")
	assert.Contains(t, got, "Coverage: 4.4%")
	assert.Contains(t, tr.ErrOut.String(), "! Checks passed with warnings")
}

func TestRenderDoctorMarkdown(t *testing.T) {
	tr := clitestutil.NewTestRenderer(output.ModeMarkdown, false)
	renderDoctorMarkdown(tr.Renderer, buildDoctorOutput(sampleTable(t), DoctorSources{Reference: "ref", Mortality: "mort"}))

	got := tr.Output()
	assert.Contains(t, got, "# Health Trends Dataset Report\n")
	assert.Contains(t, got, "## Checks\n")
	assert.Contains(t, got, "### Join\n")
	assert.Contains(t, got, "- **Reference**: ref")
}

func TestWithInputHint(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	_, loadErr := dataset.LoadMortality(context.Background(), missing)
	require.Error(t, loadErr)

	err := withInputHint(fmt.Errorf("failed to prepare dataset: %w", loadErr))
	var srcErr *dataset.DataSourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "open", srcErr.Op)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "Hint: use --mortality")

	parseErr := &dataset.DataSourceError{Source: "m.csv", Op: "parse year label", Err: errors.New("bad")}
	assert.Same(t, error(parseErr), withInputHint(parseErr), "only missing files get a hint")
}
