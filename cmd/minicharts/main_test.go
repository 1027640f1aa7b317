package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/xuri/excelize/v2"

	"github.com/seenimoa/minicharts/internal/config"
	"github.com/seenimoa/minicharts/internal/export"
	"github.com/seenimoa/minicharts/pkg/geometry"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("logging:\n  level: info\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Flag values outlive Execute; start each run from the defaults.
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", cfgPath))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		args    []string
		want    []float64
		wantErr bool
	}{
		{[]string{"1,2,3"}, []float64{1, 2, 3}, false},
		{[]string{"1", "2.5", "-3"}, []float64{1, 2.5, -3}, false},
		{[]string{"4 5,6"}, []float64{4, 5, 6}, false},
		{nil, nil, false},
		{[]string{"1,x"}, nil, true},
	}
	for _, tt := range tests {
		got, err := parseValues(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseValues(%v) error: %v", tt.args, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseValues(%v): got %v, want %v", tt.args, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseValues(%v): got %v, want %v", tt.args, got, tt.want)
				break
			}
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "minicharts dev") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRingCommandJSON(t *testing.T) {
	out, err := runCLI(t, "ring", "64")
	if err != nil {
		t.Fatal(err)
	}
	var g struct {
		Radius float64 `json:"radius"`
		Label  int     `json:"label"`
		Filled float64 `json:"filled"`
		Gap    float64 `json:"gap"`
	}
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if g.Radius != 65 || g.Label != 64 {
		t.Errorf("got %+v, want radius 65 label 64", g)
	}
}

func TestRingCommandRejectsBadValue(t *testing.T) {
	if _, err := runCLI(t, "ring", "lots"); err == nil {
		t.Error("expected error for non-numeric value")
	}
}

func TestRingCommandRejectsNonPositiveFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero size", []string{"ring", "50", "--size", "0"}},
		{"negative size", []string{"ring", "50", "--size", "-10"}},
		{"zero radius", []string{"ring", "50", "--radius", "0"}},
		{"negative radius svg", []string{"ring", "50", "--radius", "-3", "--svg", "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, geometry.ErrInvalidParameter) {
				t.Errorf("got %v, want ErrInvalidParameter", err)
			}
		})
	}

	// A valid radius selects the progress ring.
	out, err := runCLI(t, "ring", "50", "--radius", "10")
	if err != nil {
		t.Fatal(err)
	}
	var g struct {
		Radius float64 `json:"radius"`
	}
	if err := json.Unmarshal([]byte(out), &g); err != nil || g.Radius != 10 {
		t.Errorf("radius: got %v (%v)", g.Radius, err)
	}
}

func TestSparklineCommandSVG(t *testing.T) {
	dir := t.TempDir()
	svgPath := filepath.Join(dir, "s.svg")
	pngPath := filepath.Join(dir, "s.png")

	if _, err := runCLI(t, "sparkline", "3,5,4,8", "--svg", svgPath, "--png", pngPath); err != nil {
		t.Fatal(err)
	}
	svg, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg file: %s", svg)
	}
	png, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("png file has no PNG signature")
	}
}

func TestDashboardCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.json")
	out := filepath.Join(dir, "page.txt")
	xlsx := filepath.Join(dir, "page.xlsx")
	page := `{"title":"CLI","scores":[{"label":"Quality","value":72}],"trends":[{"label":"Visits","values":[1,2,3]}]}`
	if err := os.WriteFile(in, []byte(page), 0644); err != nil {
		t.Fatal(err)
	}

	nowFunc = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	if _, err := runCLI(t, "dashboard", "--in", in, "--out", out, "--format", "text", "--xlsx", xlsx); err != nil {
		t.Fatal(err)
	}
	text, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"CLI", "SCORES", "Quality", "TRENDS", "▁"} {
		if !strings.Contains(string(text), want) {
			t.Errorf("text output missing %q", want)
		}
	}

	f, err := excelize.OpenFile(xlsx)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(export.SheetRings, "B2"); v != "Quality" {
		t.Errorf("Rings!B2: got %q", v)
	}
}

func TestJSONLogWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &jsonLogWriter{out: &buf, now: func() time.Time { return time.Unix(0, 0) }}

	tests := []struct {
		in        string
		component string
		msg       string
	}{
		{"api: listening on :8080\n", "api", "listening on :8080"},
		{"plain message\n", "", "plain message"},
		{"HTTP GET http://x: refused\n", "", "HTTP GET http://x: refused"},
	}
	for _, tt := range tests {
		buf.Reset()
		n, err := w.Write([]byte(tt.in))
		if err != nil || n != len(tt.in) {
			t.Fatalf("Write: n=%d err=%v", n, err)
		}
		var line jsonLogLine
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("not JSON: %s", buf.String())
		}
		if line.Component != tt.component || line.Msg != tt.msg {
			t.Errorf("%q: got %+v", tt.in, line)
		}
		if line.Time != "1970-01-01T00:00:00Z" {
			t.Errorf("time: got %q", line.Time)
		}
	}
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	setupLogging(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	defer setupLogging(config.LoggingConfig{Level: "info", Format: "text"}, os.Stderr)

	log.Printf("render: wrote %s", "x.svg")
	var line jsonLogLine
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not JSON: %q", buf.String())
	}
	if line.Component != "render" || line.Msg != "wrote x.svg" {
		t.Errorf("got %+v", line)
	}
}
