// Package api provides the HTTP REST API server for minicharts.
//
// It exposes endpoints for ring and sparkline geometry, rendered SVG and
// PNG widgets, dashboard pages and workbook exports, and live series
// streamed over WebSocket.
package api

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/minicharts/internal/config"
	"github.com/seenimoa/minicharts/internal/datasource"
	"github.com/seenimoa/minicharts/internal/export"
	"github.com/seenimoa/minicharts/internal/infra"
	"github.com/seenimoa/minicharts/internal/render"
	"github.com/seenimoa/minicharts/pkg/geometry"
	"github.com/seenimoa/minicharts/pkg/utils"
)

// Version is reported by the health endpoint. The CLI overrides it.
var Version = "dev"

// Content types served by the widget endpoints.
const (
	contentTypeSVG  = "image/svg+xml"
	contentTypePNG  = "image/png"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	page     render.PageConfig
	cache    *infra.Cache
	limiter  *infra.RateLimiter // nil when rate limiting is off
	resolver datasource.Resolver
	live     *LiveSeries
	wsHub    *WSHub
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv := &Server{
		cfg:   cfg,
		page:  cfg.Widgets.PageConfig(),
		cache: infra.NewCache(cfg.Cache.Duration()),
		resolver: datasource.Resolver{
			Feeds:       datasource.NewFeeds(cfg.Sources.FeedsOptions()),
			StatusToken: cfg.Sources.StatusToken,
			Days:        cfg.Sources.WindowDays,
		},
		live:  NewLiveSeries(cfg.Live.Window, cfg.Live.MaxSeries),
		wsHub: NewWSHub(),
	}
	srv.page.Sparkline.MaxPixels = cfg.API.MaxPNGPixels
	if n := cfg.API.RateLimit; n > 0 {
		srv.limiter = infra.NewRateLimiter(n, time.Second/time.Duration(n))
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()

	stopCleanup := make(chan struct{})
	go s.cleanupLoop(stopCleanup)
	defer close(stopCleanup)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-done:
	}
	log.Println("api: shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// cleanupLoop evicts expired render cache entries until stop is closed.
func (s *Server) cleanupLoop(stop <-chan struct{}) {
	if !s.cache.Enabled() {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cache.Cleanup()
		case <-stop:
			return
		}
	}
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Use(s.requireToken)
			r.Use(s.limitBody)

			// Geometry
			r.Post("/geometry/ring", s.handleRingGeometry)
			r.Post("/geometry/sparkline", s.handleSparklineGeometry)

			// Rendered widgets
			r.Get("/widgets/ring.svg", s.handleRingSVG)
			r.Post("/widgets/sparkline.svg", s.handleSparklineSVG)
			r.Post("/widgets/sparkline.png", s.handleSparklinePNG)

			// Dashboards
			r.Post("/dashboard", s.handleDashboard)
			r.Post("/dashboard.xlsx", s.handleDashboardXLSX)

			// Feed activity
			r.Get("/feeds/activity", s.handleFeedActivity)

			// Live series
			r.Get("/series", s.handleListSeries)
			r.Get("/series/{name}", s.handleGetSeries)
			r.Post("/series/{name}", s.handlePushSeries)
			r.Delete("/series/{name}", s.handleDeleteSeries)

			// Configuration
			r.Get("/config", s.handleGetConfig)
			r.Get("/config/secrets", s.handleGetConfigSecrets)

			// WebSocket
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// ============================================================
// Middleware
// ============================================================

// rateLimit rejects requests once the shared token bucket is empty.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireToken enforces the configured bearer token. WebSocket clients,
// which cannot set headers from a browser, may pass it as access_token.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := s.cfg.API.AuthToken
		if want == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if got == "" {
			got = r.URL.Query().Get("access_token")
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="minicharts"`)
			writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody caps request bodies at api.max_body_bytes.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n := s.cfg.API.MaxBodyBytes; n > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, n)
		}
		next.ServeHTTP(w, r)
	})
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RingRequest is the body for POST /api/v1/geometry/ring. Radius selects
// a radius-driven ring; otherwise Size and StrokeWidth apply, defaulting
// to the configured radial widget.
type RingRequest struct {
	Value       float64  `json:"value"`
	Max         *float64 `json:"max,omitempty"`
	Size        *float64 `json:"size,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	Radius      *float64 `json:"radius,omitempty"`
}

// RingResponse is a ring's geometry plus its display helpers.
type RingResponse struct {
	geometry.RingGeometry
	DashArray string `json:"dashArray"`
	Label     int    `json:"label"`
	Percent   int    `json:"percent"`
}

// SparklineRequest is the body for the sparkline endpoints. Width and
// Height default to the configured sparkline widget.
type SparklineRequest struct {
	Values []float64 `json:"values"`
	Width  *float64  `json:"width,omitempty"`
	Height *float64  `json:"height,omitempty"`
	Area   *bool     `json:"area,omitempty"`
}

// PushRequest is the body for POST /api/v1/series/{name}.
type PushRequest struct {
	Values []float64 `json:"values"`
}

// SeriesResponse is a live series and its geometry.
type SeriesResponse struct {
	Name     string                  `json:"name"`
	Values   []float64               `json:"values"`
	Geometry geometry.SeriesGeometry `json:"geometry"`
}

// FeedActivityResponse is the body returned by GET /api/v1/feeds/activity.
type FeedActivityResponse struct {
	URL      string                  `json:"url"`
	Days     []string                `json:"days"`
	Values   []float64               `json:"values"`
	Geometry geometry.SeriesGeometry `json:"geometry"`
}

// cachedBody is a rendered response kept in the render cache.
type cachedBody struct {
	contentType string
	body        []byte
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":      "ok",
			"version":     Version,
			"time":        utils.FormatDateTime(time.Now(), s.page.Location),
			"live_series": len(s.live.Names()),
			"ws_clients":  s.wsHub.ClientCount(),
		},
	})
}

func (s *Server) handleRingGeometry(w http.ResponseWriter, r *http.Request) {
	var req RingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	g, err := s.ringGeometry(req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: RingResponse{
			RingGeometry: g,
			DashArray:    g.DashArrayAttr(),
			Label:        g.Label(),
			Percent:      g.Percent(),
		},
	})
}

func (s *Server) ringGeometry(req RingRequest) (geometry.RingGeometry, error) {
	max := float64(geometry.DefaultMax)
	if req.Max != nil {
		max = *req.Max
	}
	if req.Radius != nil {
		return geometry.RingWithRadius(req.Value, max, *req.Radius)
	}
	spec := geometry.RingSpec{
		Value:       req.Value,
		Max:         max,
		Size:        s.page.Radial.Size,
		StrokeWidth: s.page.Radial.StrokeWidth,
	}
	if req.Size != nil {
		spec.Size = *req.Size
	}
	if req.StrokeWidth != nil {
		spec.StrokeWidth = *req.StrokeWidth
	}
	return geometry.Ring(spec)
}

func (s *Server) handleSparklineGeometry(w http.ResponseWriter, r *http.Request) {
	var req SparklineRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	cfg := s.sparklineConfig(req)
	g, err := geometry.Sparkline(req.Values, cfg.Width, cfg.Height)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    g,
	})
}

func (s *Server) sparklineConfig(req SparklineRequest) render.SparklineConfig {
	cfg := s.page.Sparkline
	if req.Width != nil {
		cfg.Width = *req.Width
	}
	if req.Height != nil {
		cfg.Height = *req.Height
	}
	if req.Area != nil {
		cfg.Area = *req.Area
	}
	return cfg
}

// handleRingSVG renders a ring widget from query parameters:
// value, max, label and kind ("radial" or "progress").
func (s *Server) handleRingSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	value, err := floatParam(q.Get("value"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "value: "+err.Error())
		return
	}
	max, err := floatParam(q.Get("max"), geometry.DefaultMax)
	if err != nil {
		writeError(w, http.StatusBadRequest, "max: "+err.Error())
		return
	}
	kind := q.Get("kind")
	if kind == "" {
		kind = "radial"
	}
	if kind != "radial" && kind != "progress" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown kind %q", kind))
		return
	}

	key := infra.HashKey("ring.svg", []byte(q.Encode()))
	s.serveCached(w, key, func() (cachedBody, error) {
		var svg string
		var err error
		if kind == "progress" {
			svg, err = render.CircularProgress(value, max, s.page.Progress)
		} else {
			svg, err = render.RadialScoreOf(value, max, q.Get("label"), s.page.Radial)
		}
		return cachedBody{contentType: contentTypeSVG, body: []byte(svg)}, err
	})
}

func (s *Server) handleSparklineSVG(w http.ResponseWriter, r *http.Request) {
	body, req, err := readSparkline(r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.serveCached(w, infra.HashKey("sparkline.svg", body), func() (cachedBody, error) {
		svg, err := render.SparklineSVG(req.Values, s.sparklineConfig(req))
		return cachedBody{contentType: contentTypeSVG, body: []byte(svg)}, err
	})
}

func (s *Server) handleSparklinePNG(w http.ResponseWriter, r *http.Request) {
	body, req, err := readSparkline(r)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.serveCached(w, infra.HashKey("sparkline.png", body), func() (cachedBody, error) {
		var buf bytes.Buffer
		err := render.SparklinePNG(&buf, req.Values, s.sparklineConfig(req))
		return cachedBody{contentType: contentTypePNG, body: buf.Bytes()}, err
	})
}

// handleDashboard renders a page document. Query parameters:
// format ("html", "text" or "json") and resolve=true to fill metric and
// feed bindings before rendering.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}
	if format != "html" && format != "text" && format != "json" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
		return
	}

	page, key, err := s.readPage(r, "dashboard."+format)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	switch format {
	case "html":
		s.serveCached(w, key, func() (cachedBody, error) {
			html, err := render.GenerateHTML(page, s.page)
			return cachedBody{contentType: contentTypeHTML, body: []byte(html)}, err
		})
	case "text":
		s.serveCached(w, key, func() (cachedBody, error) {
			text, err := render.GenerateText(page, s.page)
			return cachedBody{contentType: contentTypeText, body: []byte(text)}, err
		})
	case "json":
		data, err := render.BuildDashboard(page, s.page)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
	}
}

func (s *Server) handleDashboardXLSX(w http.ResponseWriter, r *http.Request) {
	page, _, err := s.readPage(r, "dashboard.xlsx")
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, page); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.xlsx"`)
	writeBody(w, cachedBody{contentType: contentTypeXLSX, body: buf.Bytes()})
}

// readPage decodes a page document and, when asked, resolves its live
// bindings. The returned cache key hashes the raw body under prefix; it is
// empty for resolved pages, whose data changes between requests.
func (s *Server) readPage(r *http.Request, prefix string) (*datasource.Page, string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	page, err := datasource.Decode(bytes.NewReader(body))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, datasource.ErrInvalidPage) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if resolve, _ := strconv.ParseBool(r.URL.Query().Get("resolve")); resolve {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()
		if err := s.resolver.Resolve(ctx, page); err != nil {
			return nil, "", err
		}
		return page, "", nil
	}
	return page, infra.HashKey(prefix, body), nil
}

func (s *Server) handleFeedActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	url := q.Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	days := s.cfg.Sources.WindowDays
	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	values, err := s.resolver.Feeds.Activity(ctx, url, days)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	g, err := geometry.Sparkline(values, s.page.Sparkline.Width, s.page.Sparkline.Height)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	loc := s.cfg.Sources.FeedsOptions().Location
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: FeedActivityResponse{
			URL:      url,
			Days:     utils.DayLabels(time.Now(), days, loc),
			Values:   values,
			Geometry: g,
		},
	})
}

func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.live.Names(),
	})
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	values, ok := s.live.Snapshot(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("series %q not found", name))
		return
	}
	resp, err := s.seriesResponse(name, values)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handlePushSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req PushRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp, err := s.pushSeries(name, req.Values)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !s.live.Delete(name) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("series %q not found", name))
		return
	}
	s.wsHub.Broadcast(WSMessage{Type: "series_deleted", Data: map[string]string{"name": name}})
	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

// pushSeries appends samples to a live series and broadcasts the
// recomputed geometry to WebSocket clients.
func (s *Server) pushSeries(name string, values []float64) (SeriesResponse, error) {
	snapshot, err := s.live.Push(name, values...)
	if err != nil {
		return SeriesResponse{}, err
	}
	resp, err := s.seriesResponse(name, snapshot)
	if err != nil {
		return SeriesResponse{}, err
	}
	s.wsHub.Broadcast(WSMessage{Type: "series", Data: resp})
	return resp, nil
}

func (s *Server) seriesResponse(name string, values []float64) (SeriesResponse, error) {
	g, err := geometry.Sparkline(values, s.page.Sparkline.Width, s.page.Sparkline.Height)
	if err != nil {
		return SeriesResponse{}, err
	}
	return SeriesResponse{Name: name, Values: values, Geometry: g}, nil
}

// ============================================================
// Helpers
// ============================================================

// serveCached writes the cached rendering for key, rendering and storing
// it on a miss. An empty key bypasses the cache.
func (s *Server) serveCached(w http.ResponseWriter, key string, build func() (cachedBody, error)) {
	if key == "" {
		b, err := build()
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeBody(w, b)
		return
	}
	if v, ok := s.cache.Get(key); ok {
		if b, ok := v.(cachedBody); ok {
			w.Header().Set("X-Cache", "HIT")
			writeBody(w, b)
			return
		}
	}

	b, err := build()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.cache.Set(key, b)
	w.Header().Set("X-Cache", "MISS")
	writeBody(w, b)
}

func readSparkline(r *http.Request) ([]byte, SparklineRequest, error) {
	var req SparklineRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, req, err
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, req, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return body, req, nil
}

var errBadRequest = errors.New("invalid request body")

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func floatParam(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseFloat(s, 64)
}

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	var httpErr *datasource.ErrHTTP
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, geometry.ErrInvalidParameter),
		errors.Is(err, datasource.ErrInvalidPage),
		errors.Is(err, datasource.ErrInvalidWindow),
		errors.Is(err, render.ErrImageTooLarge),
		errors.Is(err, ErrSeriesName):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooManySeries):
		return http.StatusConflict
	case errors.As(err, &httpErr),
		errors.Is(err, datasource.ErrNoMetrics),
		errors.Is(err, datasource.ErrNotFeed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeBody(w http.ResponseWriter, b cachedBody) {
	w.Header().Set("Content-Type", b.contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b.body); err != nil {
		log.Printf("api: failed to write response: %v", err)
	}
}

// writeJSON encodes v before writing the header so an encoding failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("api: failed to encode JSON response: %v", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(APIResponse{Success: false, Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Printf("api: failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
