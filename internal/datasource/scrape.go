package datasource

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Metric is a named value read from a status page.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ScrapeMetrics reads every element carrying a data-metric attribute. The
// value comes from data-value when present, otherwise from the element
// text ("1,204", "37.5%" and "$2.1K" style text is accepted). Elements
// whose value cannot be parsed are skipped.
func ScrapeMetrics(r io.Reader) ([]Metric, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse status page: %w", err)
	}

	var metrics []Metric
	doc.Find("[data-metric]").Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.AttrOr("data-metric", ""))
		if name == "" {
			return
		}
		raw, ok := sel.Attr("data-value")
		if !ok {
			raw = sel.Text()
		}
		v, ok := parseMetricValue(raw)
		if !ok {
			return
		}
		metrics = append(metrics, Metric{Name: name, Value: v})
	})

	if len(metrics) == 0 {
		return nil, ErrNoMetrics
	}
	return metrics, nil
}

// FetchMetrics downloads url and scrapes it with ScrapeMetrics. A non-empty
// token is sent as a bearer credential.
func FetchMetrics(ctx context.Context, url, token string) ([]Metric, error) {
	headers := map[string]string{"Accept": "text/html"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	body, err := doGet(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	metrics, err := ScrapeMetrics(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return metrics, nil
}

// parseMetricValue parses numbers like "1,204", "37.5%", "$2.1K", "3M".
func parseMetricValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", "$", "", "%", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}

	mult := 1.0
	switch strings.ToUpper(s[len(s)-1:]) {
	case "K":
		mult = 1e3
	case "M":
		mult = 1e6
	case "B":
		mult = 1e9
	}
	if mult != 1 {
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v * mult, true
}
