// minicharts renders inline chart widgets: radial score rings, circular
// progress, concentric summary rings and sparklines.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/seenimoa/minicharts/api"
	"github.com/seenimoa/minicharts/internal/config"
	"github.com/seenimoa/minicharts/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minicharts",
	Short: "Data-to-geometry for inline charts",
	Long: `minicharts turns numbers into small SVG and PNG widgets:
radial score rings, circular progress, concentric summary rings and
sparklines, alone or laid out as a dashboard page.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		setupLogging(cfg.Logging, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug or info)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(ringCmd)
	rootCmd.AddCommand(sparklineCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "minicharts %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.API.Port = port
		}

		api.Version = version
		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		log.Printf("api: listening on %s", addr)
		if cfg.API.AuthToken == "" {
			log.Printf("api: no auth token configured, /api/v1 is open")
		}
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (default: api.port)")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and credential status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		loc := utils.LoadLocation(cfg.Widgets.Timezone)
		w := cfg.Widgets

		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintln(out, "  minicharts status")
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
		fmt.Fprintf(out, "  Time:          %s\n", utils.FormatDateTime(nowFunc(), loc))
		fmt.Fprintln(out)

		// Config summary
		fmt.Fprintln(out, "  Widgets:")
		fmt.Fprintf(out, "    Radial:        size %v, stroke %v\n", w.Radial.Size, w.Radial.StrokeWidth)
		fmt.Fprintf(out, "    Progress:      radius %v, stroke %v\n", w.Progress.Radius, w.Progress.StrokeWidth)
		fmt.Fprintf(out, "    Summary:       radii %v/%v, stroke %v\n", w.Summary.OuterRadius, w.Summary.InnerRadius, w.Summary.StrokeWidth)
		fmt.Fprintf(out, "    Sparkline:     %vx%v, area %t\n", w.Sparkline.Width, w.Sparkline.Height, w.Sparkline.Area)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Server:")
		fmt.Fprintf(out, "    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Fprintf(out, "    Rate Limit:    %d req/s\n", cfg.API.RateLimit)
		fmt.Fprintf(out, "    Cache TTL:     %ds\n", cfg.Cache.TTL)
		fmt.Fprintf(out, "    Live Series:   %d × %d samples\n", cfg.Live.MaxSeries, cfg.Live.Window)
		fmt.Fprintln(out)

		// Credential status
		fmt.Fprintln(out, "  Credentials:")
		for _, k := range config.CheckSecrets(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Fprintf(out, "    %-20s %s\n", k.Name+":", status)
		}

		fmt.Fprintln(out, "═══════════════════════════════════════")
		return nil
	},
}
