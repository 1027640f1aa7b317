// Package datasource supplies the data dashboard widgets are bound to: page
// loader documents, feed publishing activity and metrics scraped from HTML
// status pages.
package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Sentinel errors ---

// ErrInvalidPage is returned when a page document fails validation.
var ErrInvalidPage = fmt.Errorf("invalid page")

// ErrNoMetrics is returned when a scraped document carries no metrics.
var ErrNoMetrics = fmt.Errorf("no metrics found")

// ErrNotFeed is returned when a feed URL does not serve RSS, Atom or JSON
// Feed.
var ErrNotFeed = fmt.Errorf("not a feed")

// ErrInvalidWindow is returned for an activity window outside
// [1, FeedsOptions.MaxDays].
var ErrInvalidWindow = fmt.Errorf("invalid activity window")

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// --- Shared HTTP client helpers ---

// DefaultUserAgent is the user agent string used for HTTP requests.
const DefaultUserAgent = "minicharts/1.0 (+https://github.com/seenimoa/minicharts)"

// HTTPClient is a pre-configured HTTP client with reasonable timeouts.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// doGet performs a GET request with the given URL and headers, returning the response body.
// The caller is responsible for closing the returned ReadCloser.
func doGet(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "text/html, application/xml, */*")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, nil
}
