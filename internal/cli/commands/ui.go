package commands

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/leapstack-labs/healthtrends/internal/ui"
	"github.com/leapstack-labs/healthtrends/internal/ui/resources"
	"github.com/spf13/cobra"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the health trends dashboard",
		Long: `Prepare the merged dataset and start a local web server with the dashboard.

The dashboard provides:
- The first rows of the merged table
- Life expectancy over time with a country selector
- Animated GDP per capita against child mortality
- An animated world map of child mortality`,
		Example: `  # Start UI on default port
  healthtrends ui

  # Start on custom port
  healthtrends ui --port 3000

  # Reload when the mortality file changes
  healthtrends ui --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload the dataset when input files change")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cmdCtx := NewCommandContext(cmd)
	uiCfg := cmdCtx.Cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	// Prepare before serving; a load failure produces no server.
	table, err := cmdCtx.PrepareTable(cmd.Context())
	if err != nil {
		return err
	}

	if uiCfg.SessionDir != "" {
		if err := os.MkdirAll(uiCfg.SessionDir, 0o700); err != nil {
			return fmt.Errorf("failed to create session dir: %w", err)
		}
	}

	server := ui.NewServer(ui.Config{
		Holder:         dataset.NewHolder(table),
		Preparer:       cmdCtx.Preparer(),
		Port:           port,
		Watch:          watch,
		SessionSecret:  uiCfg.SessionSecret,
		SessionDir:     uiCfg.SessionDir,
		PreviewRows:    uiCfg.PreviewRows,
		DefaultCountry: uiCfg.DefaultCountry,
		Dev:            resources.IsDev,
		Logger:         cmdCtx.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if autoOpen {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	styles := r.Styles()
	r.Success(fmt.Sprintf("Serving %d rows on %s", table.Len(), styles.Info.Render(url)))
	if watch {
		r.Println(styles.Muted.Render("Watching " + cmdCtx.Cfg.MortalityPath + " for changes"))
	}
	r.Println(styles.Muted.Render("Press Ctrl+C to stop"))

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
