package cli

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/healthtrends/internal/cli/config"
	"github.com/leapstack-labs/healthtrends/internal/dataset"
	clitestutil "github.com/leapstack-labs/healthtrends/internal/cli/testutil"
)

// runRoot executes the root command with args inside a fresh test project.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Chdir(clitestutil.SetupTestProject(t))

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"version", "ui", "preview", "query", "doctor", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "reference", "mortality", "database", "verbose", "output"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestPreview_CSV(t *testing.T) {
	out, err := runRoot(t, "preview", "--limit", "3", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "country,year,continent,lifeExp,gdpPercap,pop,iso_alpha,childMortality", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Afghanistan,1952,Asia,"), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], ",360"), lines[1])
	assert.True(t, strings.HasSuffix(lines[3], ",330.1"), lines[3])
}

func TestPreview_GlobalOutputFallback(t *testing.T) {
	out, err := runRoot(t, "preview", "-n", "2", "-o", "json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Afghanistan", rows[0]["country"])
	assert.InDelta(t, 345.2, rows[1]["childMortality"], 1e-9)
}

func TestPreview_MissingMortalityFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	_, err := runRoot(t, "preview", "--mortality", missing)
	require.Error(t, err)

	var srcErr *dataset.DataSourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, missing, srcErr.Source)
	assert.Equal(t, "open", srcErr.Op)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "Hint: use --mortality")
}

func TestQuery_MissingReferenceFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gapminder.csv")
	_, err := runRoot(t, "query", "SELECT 1", "--reference", missing)
	require.Error(t, err)

	var srcErr *dataset.DataSourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, missing, srcErr.Source)
}

func TestQuery_SQLArgument(t *testing.T) {
	out, err := runRoot(t, "query",
		"SELECT country, childMortality FROM merged WHERE year = 1952 AND country IN ('Norway', 'Zimbabwe') ORDER BY country",
		"--format", "json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Norway", rows[0]["country"])
	assert.InDelta(t, 28.1, rows[0]["childMortality"], 1e-9)
	assert.Equal(t, "Zimbabwe", rows[1]["country"])
	assert.Nil(t, rows[1]["childMortality"])
}

func TestQuery_Tables(t *testing.T) {
	out, err := runRoot(t, "query", "tables", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "merged")
}

func TestQuery_Schema(t *testing.T) {
	out, err := runRoot(t, "query", "schema", "merged")
	require.NoError(t, err)
	assert.Contains(t, out, "main.merged (180 rows)")
	assert.Contains(t, out, "childMortality")
}

func TestDoctor_JSON(t *testing.T) {
	out, err := runRoot(t, "doctor", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Summary struct {
			Rows      int `json:"rows"`
			Countries int `json:"countries"`
		} `json:"summary"`
		Join struct {
			Matched            int      `json:"matched"`
			NullValues         int      `json:"null_values"`
			UnmatchedCountries []string `json:"unmatched_countries"`
		} `json:"join"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 180, report.Summary.Rows)
	assert.Equal(t, 15, report.Summary.Countries)
	assert.Equal(t, 8, report.Join.Matched)
	assert.Equal(t, 172, report.Join.NullValues)
	assert.Len(t, report.Join.UnmatchedCountries, 13)
	assert.Equal(t, "warn", report.Status)
}

func TestDoctor_Markdown(t *testing.T) {
	out, err := runRoot(t, "doctor", "--format", "md")
	require.NoError(t, err)

	clitestutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "# Health Trends Dataset Report")
	assert.Contains(t, out, "### Join")
	assert.Contains(t, out, "- **[WARN]** Unmatched Countries")
	assert.Contains(t, out, "  - Zimbabwe")
}

func TestVersion(t *testing.T) {
	out, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Health Trends v"+Version)
}

func TestCompletion(t *testing.T) {
	out, err := runRoot(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "healthtrends")
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := runRoot(t, "preview", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
