package commands

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/healthtrends/internal/cli/output"
	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/spf13/cobra"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, md, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Report how the mortality file joins to the reference table",
		Long: `Load both sources and report how well the child mortality file lines up
with the reference table: matched values, missing values, and countries
present on only one side.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run the join check
  healthtrends doctor

  # Output as JSON
  healthtrends doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, md, json")

	return cmd
}

// Check statuses.
const (
	statusPass  = "pass"
	statusWarn  = "warn"
	statusError = "error"
)

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Sources  DoctorSources      `json:"sources"`
	Summary  DatasetSummary     `json:"summary"`
	Join     dataset.JoinReport `json:"join"`
	Coverage float64            `json:"coverage"`
	Checks   []HealthCheck      `json:"checks"`
	Status   string             `json:"status"`
}

// DoctorSources names the files that were loaded.
type DoctorSources struct {
	Reference string `json:"reference"`
	Mortality string `json:"mortality"`
}

// DatasetSummary contains table-level statistics.
type DatasetSummary struct {
	Rows       int `json:"rows"`
	Countries  int `json:"countries"`
	Continents int `json:"continents"`
	Years      int `json:"years"`
	FirstYear  int `json:"first_year"`
	LastYear   int `json:"last_year"`
}

// HealthCheck represents a single check result.
type HealthCheck struct {
	Name    string   `json:"name"`
	Group   string   `json:"group"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ParseMode(opts.Format))
	}

	table, err := cmdCtx.PrepareTable(cmd.Context())
	if err != nil {
		return err
	}

	reference := cmdCtx.Cfg.ReferencePath
	if reference == "" {
		reference = dataset.BundledSource
	}
	out := buildDoctorOutput(table, DoctorSources{
		Reference: reference,
		Mortality: cmdCtx.Cfg.MortalityPath,
	})

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, out)
	default:
		renderDoctorText(r, out)
	}
	return nil
}

func buildDoctorOutput(table *dataset.Table, sources DoctorSources) *DoctorOutput {
	report := table.Report()
	years := table.Years()

	summary := DatasetSummary{
		Rows:       table.Len(),
		Countries:  len(table.Countries()),
		Continents: len(table.Continents()),
		Years:      len(years),
	}
	if len(years) > 0 {
		summary.FirstYear = years[0]
		summary.LastYear = years[len(years)-1]
	}

	coverage := 0.0
	if report.ReferenceRows > 0 {
		coverage = float64(report.Matched) / float64(report.ReferenceRows) * 100
	}

	checks := []HealthCheck{
		countCheck("sources", "reference rows", report.ReferenceRows, statusError, "%d rows loaded"),
		countCheck("sources", "mortality records", report.MortalityRows, statusError, "%d long-form records"),
		countCheck("join", "matched values", report.Matched, statusError, "%d reference rows have a mortality value"),
		{
			Name:    "missing values",
			Group:   "join",
			Status:  statusIf(report.NullValues > 0, statusWarn),
			Message: fmt.Sprintf("%d reference rows have no mortality value", report.NullValues),
		},
		listCheck("join", "unmatched countries", report.UnmatchedCountries, "reference countries absent from the mortality file"),
		listCheck("join", "unused countries", report.UnusedCountries, "mortality countries absent from the reference table"),
	}

	return &DoctorOutput{
		Sources:  sources,
		Summary:  summary,
		Join:     report,
		Coverage: coverage,
		Checks:   checks,
		Status:   overallStatus(checks),
	}
}

// countCheck fails with failStatus when n is zero.
func countCheck(group, name string, n int, failStatus, format string) HealthCheck {
	return HealthCheck{
		Name:    name,
		Group:   group,
		Status:  statusIf(n == 0, failStatus),
		Message: fmt.Sprintf(format, n),
	}
}

func listCheck(group, name string, items []string, what string) HealthCheck {
	return HealthCheck{
		Name:    name,
		Group:   group,
		Status:  statusIf(len(items) > 0, statusWarn),
		Message: fmt.Sprintf("%d %s", len(items), what),
		Details: items,
	}
}

func statusIf(cond bool, status string) string {
	if cond {
		return status
	}
	return statusPass
}

func overallStatus(checks []HealthCheck) string {
	status := statusPass
	for _, c := range checks {
		switch c.Status {
		case statusError:
			return statusError
		case statusWarn:
			status = statusWarn
		}
	}
	return status
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println("")
	r.Header(1, "Health Trends Dataset Report")
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Header(2, "Sources")
	r.Printf("   Reference: %s\n", out.Sources.Reference)
	r.Printf("   Mortality: %s\n", out.Sources.Mortality)
	r.Println("")

	r.Header(2, "Summary")
	r.Printf("   Rows: %d | Countries: %d | Continents: %d\n", out.Summary.Rows, out.Summary.Countries, out.Summary.Continents)
	r.Printf("   Years: %d (%d-%d)\n", out.Summary.Years, out.Summary.FirstYear, out.Summary.LastYear)
	r.Println("")

	r.Header(2, "Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.String()
		switch check.Status {
		case statusWarn:
			icon = styles.Warning.Render("!")
		case statusError:
			icon = styles.StatusFailed.String()
		}
		r.Printf("   %s %s: %s\n", icon, titleCaser.String(check.Name), check.Message)

		// Show first 5 details
		for i, detail := range check.Details {
			if i >= 5 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-5)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	coverageStyle := styles.Success
	if out.Coverage < 90 {
		coverageStyle = styles.Warning
	}
	if out.Coverage < 50 {
		coverageStyle = styles.Error
	}
	r.Printf("   Coverage: %s\n", coverageStyle.Render(fmt.Sprintf("%.1f%%", out.Coverage)))
	r.Println("")

	switch out.Status {
	case statusPass:
		r.Success("All checks passed")
	case statusWarn:
		r.Warning("Checks passed with warnings")
	default:
		r.Error("Some checks failed")
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Header(1, "Health Trends Dataset Report")
	r.Println("")

	r.Header(2, "Sources")
	r.Println("")
	r.Println(output.FormatKeyValue("Reference", out.Sources.Reference))
	r.Println(output.FormatKeyValue("Mortality", out.Sources.Mortality))
	r.Println("")

	r.Header(2, "Summary")
	r.Println("")
	r.Println(output.FormatKeyValue("Rows", out.Summary.Rows))
	r.Println(output.FormatKeyValue("Countries", out.Summary.Countries))
	r.Println(output.FormatKeyValue("Continents", out.Summary.Continents))
	r.Println(output.FormatKeyValue("Years", fmt.Sprintf("%d (%d-%d)", out.Summary.Years, out.Summary.FirstYear, out.Summary.LastYear)))
	r.Println("")

	r.Header(2, "Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Header(3, titleCaser.String(currentGroup))
			r.Println("")
		}
		r.Printf("- **[%s]** %s: %s\n", strings.ToUpper(check.Status), titleCaser.String(check.Name), check.Message)
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Header(2, "Coverage")
	r.Println("")
	r.Printf("**%.1f%%**\n", out.Coverage)
}
