package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/minicharts/internal/infra"
	"github.com/seenimoa/minicharts/pkg/utils"
)

// Feeds turns RSS/Atom feeds into publishing-activity series: posts per
// calendar day, oldest first.
type Feeds struct {
	cache    *infra.Cache
	limiter  *infra.RateLimiter
	location *time.Location
	workers  int
	maxDays  int
	now      func() time.Time
}

// DefaultMaxDays bounds the activity window when FeedsOptions.MaxDays is
// unset.
const DefaultMaxDays = 366

// FeedsOptions configures a Feeds source.
type FeedsOptions struct {
	CacheTTL    time.Duration
	RatePerSec  int
	Location    *time.Location
	Concurrency int
	MaxDays     int // longest activity window accepted
}

// NewFeeds creates a feed source.
func NewFeeds(opts FeedsOptions) *Feeds {
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = DefaultMaxDays
	}
	return &Feeds{
		cache:    infra.NewCache(opts.CacheTTL),
		limiter:  infra.NewRateLimiter(opts.RatePerSec, time.Second),
		location: opts.Location,
		workers:  opts.Concurrency,
		maxDays:  opts.MaxDays,
		now:      time.Now,
	}
}

// Activity fetches url and returns its posts-per-day counts for the last
// days days, ending today.
func (f *Feeds) Activity(ctx context.Context, url string, days int) ([]float64, error) {
	if days < 1 || days > f.maxDays {
		return nil, fmt.Errorf("%w: %d days (allowed 1-%d)", ErrInvalidWindow, days, f.maxDays)
	}
	cacheKey := fmt.Sprintf("feed:%s:%d", url, days)
	if cached, ok := f.cache.Get(cacheKey); ok {
		return cached.([]float64), nil
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := newParser().ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, feedError(err))
	}

	series := ActivitySeries(feed, f.now(), days, f.location)
	f.cache.Set(cacheKey, series)
	return series, nil
}

// FetchAll fills every trend that names a feed and carries no values.
// Trends are fetched concurrently; the first failure aborts the rest.
func (f *Feeds) FetchAll(ctx context.Context, page *Page, days int) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for i := range page.Trends {
		t := page.Trends[i]
		if t.Feed == "" || len(t.Values) > 0 {
			continue
		}
		g.Go(func() error {
			series, err := f.Activity(gctx, t.Feed, days)
			if err != nil {
				return fmt.Errorf("trend %q: %w", t.Label, err)
			}
			mu.Lock()
			page.Trends[i].Values = series
			mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

// ActivitySeries buckets feed items by publication day into days slots
// ending on end's calendar day. Items without a date, or outside the
// window, are ignored. Updated is used when Published is missing.
func ActivitySeries(feed *gofeed.Feed, end time.Time, days int, loc *time.Location) []float64 {
	if days <= 0 {
		return []float64{}
	}
	series := make([]float64, days)
	if feed == nil {
		return series
	}

	for _, item := range feed.Items {
		ts := item.PublishedParsed
		if ts == nil {
			ts = item.UpdatedParsed
		}
		if ts == nil {
			continue
		}
		age := utils.DaysBetween(*ts, end, loc)
		if age < 0 || age >= days {
			continue
		}
		series[days-1-age]++
	}
	return series
}

// feedError maps gofeed failures onto the package's upstream errors.
func feedError(err error) error {
	var httpErr gofeed.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return &ErrHTTP{StatusCode: httpErr.StatusCode, Status: httpErr.Status}
	case errors.Is(err, gofeed.ErrFeedTypeNotDetected):
		return ErrNotFeed
	default:
		return err
	}
}

// newParser returns a parser per fetch; gofeed parsers keep state while
// parsing and are not shared between goroutines.
func newParser() *gofeed.Parser {
	p := gofeed.NewParser()
	p.UserAgent = DefaultUserAgent
	p.Client = HTTPClient
	return p
}

// ParseFeed parses a feed document held in memory.
func ParseFeed(data string) (*gofeed.Feed, error) {
	feed, err := gofeed.NewParser().ParseString(data)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}
