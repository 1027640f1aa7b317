package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/minicharts/internal/datasource"
	"github.com/seenimoa/minicharts/internal/export"
	"github.com/seenimoa/minicharts/internal/render"
	"github.com/seenimoa/minicharts/pkg/geometry"
	"github.com/seenimoa/minicharts/pkg/utils"
)

var nowFunc = time.Now

// --- Ring Command ---

var ringCmd = &cobra.Command{
	Use:   "ring [value]",
	Short: "Compute or render a ring widget",
	Long: `Prints the ring geometry as JSON. With --svg the ring is rendered
instead: a radial score ring, or a circular progress ring when --radius
is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("value: %w", err)
		}
		max, _ := cmd.Flags().GetFloat64("max")
		size, _ := cmd.Flags().GetFloat64("size")
		stroke, _ := cmd.Flags().GetFloat64("stroke")
		radius, _ := cmd.Flags().GetFloat64("radius")
		label, _ := cmd.Flags().GetString("label")
		svgPath, _ := cmd.Flags().GetString("svg")

		useRadius := cmd.Flags().Changed("radius")
		if cmd.Flags().Changed("size") && !(size > 0) {
			return fmt.Errorf("%w: --size must be positive, got %v", geometry.ErrInvalidParameter, size)
		}
		if useRadius && !(radius > 0) {
			return fmt.Errorf("%w: --radius must be positive, got %v", geometry.ErrInvalidParameter, radius)
		}

		page := cfg.Widgets.PageConfig()
		if cmd.Flags().Changed("size") {
			page.Radial.Size = size
		}
		if cmd.Flags().Changed("stroke") {
			page.Radial.StrokeWidth = stroke
			page.Progress.StrokeWidth = stroke
		}

		if svgPath != "" {
			var svg string
			if useRadius {
				page.Progress.Radius = radius
				svg, err = render.CircularProgress(value, max, page.Progress)
			} else {
				svg, err = render.RadialScoreOf(value, max, label, page.Radial)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, svgPath, []byte(svg))
		}

		var g geometry.RingGeometry
		if useRadius {
			g, err = geometry.RingWithRadius(value, max, radius)
		} else {
			g, err = geometry.Ring(geometry.RingSpec{
				Value:       value,
				Max:         max,
				Size:        page.Radial.Size,
				StrokeWidth: page.Radial.StrokeWidth,
			})
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), struct {
			geometry.RingGeometry
			DashArray string `json:"dashArray"`
			Label     int    `json:"label"`
		}{g, g.DashArrayAttr(), g.Label()})
	},
}

func init() {
	ringCmd.Flags().Float64("max", geometry.DefaultMax, "scale maximum")
	ringCmd.Flags().Float64("size", 0, "outer size (default: widgets.radial.size)")
	ringCmd.Flags().Float64("stroke", 0, "stroke width (default: from config)")
	ringCmd.Flags().Float64("radius", 0, "ring radius; selects a progress ring")
	ringCmd.Flags().String("label", "", "caption under a radial score")
	ringCmd.Flags().String("svg", "", "write SVG to this file (- for stdout)")
}

// --- Sparkline Command ---

var sparklineCmd = &cobra.Command{
	Use:   "sparkline [values...]",
	Short: "Compute or render a sparkline",
	Long: `Values are given as arguments, comma or space separated. Prints the
series geometry as JSON, or renders it with --svg / --png. A terminal
preview is printed with --text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseValues(args)
		if err != nil {
			return err
		}
		sc := cfg.Widgets.PageConfig().Sparkline
		if cmd.Flags().Changed("width") {
			sc.Width, _ = cmd.Flags().GetFloat64("width")
		}
		if cmd.Flags().Changed("height") {
			sc.Height, _ = cmd.Flags().GetFloat64("height")
		}
		if cmd.Flags().Changed("area") {
			sc.Area, _ = cmd.Flags().GetBool("area")
		}
		svgPath, _ := cmd.Flags().GetString("svg")
		pngPath, _ := cmd.Flags().GetString("png")
		text, _ := cmd.Flags().GetBool("text")

		switch {
		case svgPath != "" || pngPath != "":
			if svgPath != "" {
				svg, err := render.SparklineSVG(values, sc)
				if err != nil {
					return err
				}
				if err := writeOutput(cmd, svgPath, []byte(svg)); err != nil {
					return err
				}
			}
			if pngPath != "" {
				var buf bytes.Buffer
				if err := render.SparklinePNG(&buf, values, sc); err != nil {
					return err
				}
				if err := writeOutput(cmd, pngPath, buf.Bytes()); err != nil {
					return err
				}
			}
			return nil
		case text:
			line, err := render.TextSparkline(values)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		default:
			g, err := geometry.Sparkline(values, sc.Width, sc.Height)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), g)
		}
	},
}

func init() {
	sparklineCmd.Flags().Float64("width", 0, "viewport width (default: widgets.sparkline.width)")
	sparklineCmd.Flags().Float64("height", 0, "viewport height (default: widgets.sparkline.height)")
	sparklineCmd.Flags().Bool("area", true, "fill the area under the line")
	sparklineCmd.Flags().String("svg", "", "write SVG to this file (- for stdout)")
	sparklineCmd.Flags().String("png", "", "write PNG to this file")
	sparklineCmd.Flags().Bool("text", false, "print a block-character preview")
}

// --- Dashboard Command ---

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render a dashboard page from a page document",
	Long: `Reads a JSON page document and renders every card. Use --resolve to
fill scores from the page's status URL and trends from their feeds first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")
		resolve, _ := cmd.Flags().GetBool("resolve")

		page, err := loadPage(cmd.InOrStdin(), in)
		if err != nil {
			return err
		}

		if resolve {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			r := datasource.Resolver{
				Feeds:       datasource.NewFeeds(cfg.Sources.FeedsOptions()),
				StatusToken: cfg.Sources.StatusToken,
				Days:        cfg.Sources.WindowDays,
			}
			if err := r.Resolve(ctx, page); err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
		}

		pc := cfg.Widgets.PageConfig()
		pc.Now = nowFunc()

		var doc string
		switch format {
		case "html":
			doc, err = render.GenerateHTML(page, pc)
		case "text":
			doc, err = render.GenerateText(page, pc)
		default:
			return fmt.Errorf("unknown format %q (want html or text)", format)
		}
		if err != nil {
			return err
		}
		if err := writeOutput(cmd, out, []byte(doc)); err != nil {
			return err
		}

		if xlsxPath != "" {
			var buf bytes.Buffer
			if err := export.WriteWorkbook(&buf, page); err != nil {
				return err
			}
			if err := os.WriteFile(xlsxPath, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("write %s: %w", xlsxPath, err)
			}
			log.Printf("export: wrote %s (%d cards)", xlsxPath, page.Cards())
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().String("in", "-", "page document (- for stdin)")
	dashboardCmd.Flags().String("out", "-", "output file (- for stdout)")
	dashboardCmd.Flags().String("format", "html", "output format: html or text")
	dashboardCmd.Flags().String("xlsx", "", "also export trends and rings to this workbook")
	dashboardCmd.Flags().Bool("resolve", false, "fetch status page metrics and feed activity")
}

// --- Feed Command ---

var feedCmd = &cobra.Command{
	Use:   "feed [url...]",
	Short: "Show posting activity of RSS/Atom feeds as sparklines",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = cfg.Sources.WindowDays
		}

		opts := cfg.Sources.FeedsOptions()
		feeds := datasource.NewFeeds(opts)
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		out := cmd.OutOrStdout()
		labels := utils.DayLabels(nowFunc(), days, opts.Location)
		fmt.Fprintf(out, "%s → %s (%d days)\n", labels[0], labels[len(labels)-1], days)
		for _, url := range args {
			values, err := feeds.Activity(ctx, url, days)
			if err != nil {
				fmt.Fprintf(out, "  %-40s error: %v\n", url, err)
				continue
			}
			line, err := render.TextSparkline(values)
			if err != nil {
				return err
			}
			total := 0.0
			for _, v := range values {
				total += v
			}
			fmt.Fprintf(out, "  %-40s %s  %s posts\n", url, line, utils.FormatCompact(total))
		}
		return nil
	},
}

func init() {
	feedCmd.Flags().Int("days", 0, "activity window (default: sources.window_days)")
}

// ── helpers ──

// parseValues accepts "1,2,3", "1 2 3" or separate arguments.
func parseValues(args []string) ([]float64, error) {
	var values []float64
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("value %q: %w", field, err)
			}
			values = append(values, v)
		}
	}
	return values, nil
}

func loadPage(stdin io.Reader, path string) (*datasource.Page, error) {
	if path == "" || path == "-" {
		return datasource.Decode(stdin)
	}
	return datasource.LoadFile(path)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("render: wrote %s (%s bytes)", path, utils.FormatThousands(int64(len(data))))
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
