package api

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrTooManySeries is returned when a push would exceed live.max_series.
var ErrTooManySeries = errors.New("too many live series")

// ErrSeriesName is returned for an empty or overlong series name.
var ErrSeriesName = errors.New("invalid series name")

const maxSeriesName = 64

// LiveSeries keeps named, bounded sample windows for streamed sparklines.
// Each series holds at most window samples; older samples are dropped.
type LiveSeries struct {
	mu        sync.RWMutex
	window    int
	maxSeries int
	series    map[string][]float64
}

// NewLiveSeries creates a store. Non-positive limits fall back to 60
// samples and 32 series.
func NewLiveSeries(window, maxSeries int) *LiveSeries {
	if window <= 0 {
		window = 60
	}
	if maxSeries <= 0 {
		maxSeries = 32
	}
	return &LiveSeries{
		window:    window,
		maxSeries: maxSeries,
		series:    make(map[string][]float64),
	}
}

// Push appends values to the named series, creating it if needed, and
// returns a copy of the resulting window.
func (l *LiveSeries) Push(name string, values ...float64) ([]float64, error) {
	if name == "" || len(name) > maxSeriesName {
		return nil, fmt.Errorf("%w: %q", ErrSeriesName, name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cur, ok := l.series[name]
	if !ok && len(l.series) >= l.maxSeries {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySeries, l.maxSeries)
	}
	cur = append(cur, values...)
	if n := len(cur) - l.window; n > 0 {
		cur = append([]float64(nil), cur[n:]...)
	}
	l.series[name] = cur
	return append([]float64(nil), cur...), nil
}

// Snapshot returns a copy of the named series.
func (l *LiveSeries) Snapshot(name string) ([]float64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cur, ok := l.series[name]
	if !ok {
		return nil, false
	}
	return append([]float64{}, cur...), true
}

// Delete removes the named series and reports whether it existed.
func (l *LiveSeries) Delete(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.series[name]; !ok {
		return false
	}
	delete(l.series, name)
	return true
}

// Names returns the series names in sorted order.
func (l *LiveSeries) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.series))
	for name := range l.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
