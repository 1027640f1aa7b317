package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

const samplePageJSON = `{
  "title": "Campaign overview",
  "subtitle": "Last 14 days",
  "scores": [
    {"label": "Health", "value": 82, "caption": "Delivery health"},
    {"label": "NPS", "value": 41, "max": 50, "metric": "nps"}
  ],
  "progress": [
    {"label": "Budget used", "value": 6400, "max": 10000}
  ],
  "summary": {
    "label": "Funnel",
    "outer": {"label": "Reach", "value": 74},
    "inner": {"label": "Clicks", "value": 18, "metric": "ctr"}
  },
  "trends": [
    {"label": "Sessions", "values": [120, 140, 90, 210], "unit": "visits"},
    {"label": "Posts", "values": [], "feed": "https://example.com/feed.xml"}
  ]
}`

func rssFixture(dates ...time.Time) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>Blog</title>`)
	for i, d := range dates {
		fmt.Fprintf(&sb, `<item><title>Post %d</title><pubDate>%s</pubDate></item>`, i, d.Format(time.RFC1123Z))
	}
	sb.WriteString(`</channel></rss>`)
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Page loading
// ════════════════════════════════════════════════════════════════════

func TestDecodePage(t *testing.T) {
	p, err := Decode(strings.NewReader(samplePageJSON))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if p.Title != "Campaign overview" {
		t.Errorf("Title: got %q", p.Title)
	}
	if len(p.Scores) != 2 || len(p.Progress) != 1 || len(p.Trends) != 2 {
		t.Fatalf("unexpected card counts: %d/%d/%d", len(p.Scores), len(p.Progress), len(p.Trends))
	}
	if p.Cards() != 6 {
		t.Errorf("Cards: got %d, want 6", p.Cards())
	}
	if p.Scores[0].MaxOrDefault() != 100 {
		t.Errorf("default max: got %v, want 100", p.Scores[0].MaxOrDefault())
	}
	if p.Scores[1].MaxOrDefault() != 50 {
		t.Errorf("explicit max: got %v, want 50", p.Scores[1].MaxOrDefault())
	}
	if v, ok := p.Trends[0].Latest(); !ok || v != 210 {
		t.Errorf("Latest: got %v, %v", v, ok)
	}
	if _, ok := p.Trends[1].Latest(); ok {
		t.Error("Latest on empty trend should report false")
	}
}

func TestDecodeKeepsExplicitZeroMax(t *testing.T) {
	p, err := Decode(strings.NewReader(`{"title":"x","scores":[{"label":"a","value":1,"max":0}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Scores[0].Max == nil || p.Scores[0].MaxOrDefault() != 0 {
		t.Errorf("explicit zero max should survive decoding, got %v", p.Scores[0].Max)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"malformed", `{"title":`},
		{"unknown field", `{"title":"x","colour":"red"}`},
		{"missing title", `{"scores":[]}`},
		{"unlabelled score", `{"title":"x","scores":[{"value":3}]}`},
		{"unlabelled trend", `{"title":"x","trends":[{"values":[1]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.json)); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := Decode(strings.NewReader(`{"title":" "}`))
	if !errors.Is(err, ErrInvalidPage) {
		t.Errorf("blank title: got %v, want ErrInvalidPage", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	if err := os.WriteFile(path, []byte(samplePageJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if p.Summary == nil || p.Summary.Inner.Label != "Clicks" {
		t.Errorf("Summary: got %+v", p.Summary)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyMetrics(t *testing.T) {
	p, err := Decode(strings.NewReader(samplePageJSON))
	if err != nil {
		t.Fatal(err)
	}
	n := p.ApplyMetrics([]Metric{{Name: "nps", Value: 47}, {Name: "ctr", Value: 22.5}, {Name: "unused", Value: 1}})
	if n != 2 {
		t.Errorf("applied: got %d, want 2", n)
	}
	if p.Scores[1].Value != 47 {
		t.Errorf("NPS: got %v, want 47", p.Scores[1].Value)
	}
	if p.Summary.Inner.Value != 22.5 {
		t.Errorf("CTR: got %v, want 22.5", p.Summary.Inner.Value)
	}
	if p.Scores[0].Value != 82 {
		t.Errorf("unbound score changed: %v", p.Scores[0].Value)
	}
}

// ════════════════════════════════════════════════════════════════════
// Feed activity
// ════════════════════════════════════════════════════════════════════

func TestActivitySeries(t *testing.T) {
	end := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	feed, err := ParseFeed(rssFixture(
		end.Add(-1*time.Hour),  // today
		end.Add(-2*time.Hour),  // today
		end.AddDate(0, 0, -1),  // yesterday
		end.AddDate(0, 0, -3),  // three days ago
		end.AddDate(0, 0, -30), // outside window
		end.Add(48*time.Hour),  // future
	))
	if err != nil {
		t.Fatalf("ParseFeed() error: %v", err)
	}

	got := ActivitySeries(feed, end, 5, time.UTC)
	want := []float64{0, 1, 0, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ActivitySeries = %v, want %v", got, want)
	}
}

func TestActivitySeriesDegenerate(t *testing.T) {
	if got := ActivitySeries(nil, time.Now(), 3, time.UTC); !reflect.DeepEqual(got, []float64{0, 0, 0}) {
		t.Errorf("nil feed: got %v", got)
	}
	if got := ActivitySeries(nil, time.Now(), 0, time.UTC); len(got) != 0 {
		t.Errorf("zero days: got %v", got)
	}
}

func TestParseFeedInvalid(t *testing.T) {
	if _, err := ParseFeed("not a feed"); err == nil {
		t.Error("expected error")
	}
}

func TestFeedsActivityCaches(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFixture(now.Add(-time.Hour), now.AddDate(0, 0, -1)))
	}))
	defer srv.Close()

	f := NewFeeds(FeedsOptions{CacheTTL: time.Minute, RatePerSec: 10})
	f.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		got, err := f.Activity(context.Background(), srv.URL, 3)
		if err != nil {
			t.Fatalf("Activity() error: %v", err)
		}
		if !reflect.DeepEqual(got, []float64{0, 1, 1}) {
			t.Errorf("Activity = %v, want [0 1 1]", got)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits: got %d, want 1 (second call cached)", n)
	}
}

func TestActivityUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/page" {
			fmt.Fprint(w, "<html><body>hello</body></html>")
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFeeds(FeedsOptions{RatePerSec: 10})

	_, err := f.Activity(context.Background(), srv.URL+"/down", 3)
	var httpErr *ErrHTTP
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("503 feed: got %v, want *ErrHTTP 503", err)
	}

	_, err = f.Activity(context.Background(), srv.URL+"/page", 3)
	if !errors.Is(err, ErrNotFeed) {
		t.Errorf("html page: got %v, want ErrNotFeed", err)
	}
}

func TestActivityRejectsWindow(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	f := NewFeeds(FeedsOptions{RatePerSec: 10, MaxDays: 30})
	for _, days := range []int{0, -1, 31, 1_000_000} {
		if _, err := f.Activity(context.Background(), srv.URL, days); !errors.Is(err, ErrInvalidWindow) {
			t.Errorf("days=%d: got %v, want ErrInvalidWindow", days, err)
		}
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server hits: got %d, want 0", n)
	}
	if NewFeeds(FeedsOptions{}).maxDays != DefaultMaxDays {
		t.Error("MaxDays should default to DefaultMaxDays")
	}
}

func TestFetchAllFillsFeedTrends(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFixture(now.Add(-time.Hour)))
	}))
	defer srv.Close()

	page := &Page{
		Title: "x",
		Trends: []Trend{
			{Label: "static", Values: []float64{1, 2}},
			{Label: "posts", Feed: srv.URL},
		},
	}
	f := NewFeeds(FeedsOptions{RatePerSec: 10})
	f.now = func() time.Time { return now }

	if err := f.FetchAll(context.Background(), page, 4); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if !reflect.DeepEqual(page.Trends[1].Values, []float64{0, 0, 0, 1}) {
		t.Errorf("feed trend: got %v", page.Trends[1].Values)
	}
	if !reflect.DeepEqual(page.Trends[0].Values, []float64{1, 2}) {
		t.Errorf("static trend changed: %v", page.Trends[0].Values)
	}
}

func TestFetchAllReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	page := &Page{Title: "x", Trends: []Trend{{Label: "posts", Feed: srv.URL}}}
	err := NewFeeds(FeedsOptions{RatePerSec: 10}).FetchAll(context.Background(), page, 4)
	if err == nil || !strings.Contains(err.Error(), `trend "posts"`) {
		t.Errorf("got %v, want error naming the trend", err)
	}
}

// ════════════════════════════════════════════════════════════════════
// Status page scraping
// ════════════════════════════════════════════════════════════════════

const statusPage = `<html><body>
<div class="kpi" data-metric="nps" data-value="47">NPS 47</div>
<span data-metric="ctr">22.5%</span>
<span data-metric="revenue">$2.1K</span>
<span data-metric="signups">1,204</span>
<span data-metric="broken">n/a</span>
<span data-metric="">9</span>
</body></html>`

func TestScrapeMetrics(t *testing.T) {
	got, err := ScrapeMetrics(strings.NewReader(statusPage))
	if err != nil {
		t.Fatalf("ScrapeMetrics() error: %v", err)
	}
	want := []Metric{
		{Name: "nps", Value: 47},
		{Name: "ctr", Value: 22.5},
		{Name: "revenue", Value: 2100},
		{Name: "signups", Value: 1204},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ScrapeMetrics = %+v, want %+v", got, want)
	}
}

func TestScrapeMetricsNone(t *testing.T) {
	_, err := ScrapeMetrics(strings.NewReader("<p>nothing</p>"))
	if !errors.Is(err, ErrNoMetrics) {
		t.Errorf("got %v, want ErrNoMetrics", err)
	}
}

func TestResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer s3cret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, statusPage)
	}))
	defer srv.Close()

	page := &Page{
		Title:     "x",
		StatusURL: srv.URL,
		Scores:    []Score{{Label: "NPS", Metric: "nps"}},
	}
	if err := (Resolver{StatusToken: "s3cret", Days: 7}).Resolve(context.Background(), page); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if page.Scores[0].Value != 47 {
		t.Errorf("NPS: got %v, want 47", page.Scores[0].Value)
	}

	err := (Resolver{}).Resolve(context.Background(), page)
	var httpErr *ErrHTTP
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("without token: got %v, want *ErrHTTP 401", err)
	}
}

func TestFetchMetricsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := FetchMetrics(context.Background(), srv.URL, "")
	var httpErr *ErrHTTP
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("got %v, want *ErrHTTP 503", err)
	}
}
