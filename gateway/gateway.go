// Package gateway exposes the analyzer over HTTP: analysis endpoints,
// palette legend previews, filter payload construction, a live websocket
// feed of completed analyses, and health.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/axis"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/health"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/metric"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/palette"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/sampler"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/service"
)

// maxRequestSize bounds analysis request bodies.
const maxRequestSize = 4 << 20

// Config holds the gateway's listener settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	WindowWorkers   int
}

// Gateway is the HTTP front of the analyzer.
type Gateway struct {
	config   Config
	analyzer *service.Analyzer
	hub      *Hub
	monitor  *health.Monitor
	composer palette.Composer
	logger   *slog.Logger
	metrics  *metric.Metrics

	server  *http.Server
	running atomic.Bool
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics wires per-request and websocket metrics.
func WithMetrics(m *metric.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithMonitor uses a shared health monitor instead of a private one.
func WithMonitor(m *health.Monitor) Option {
	return func(g *Gateway) {
		if m != nil {
			g.monitor = m
		}
	}
}

// WithComposer renders swatch legends with the same blend policy the
// analyzer colors nodes with.
func WithComposer(c palette.Composer) Option {
	return func(g *Gateway) { g.composer = c }
}

// NewGateway creates the gateway and subscribes its live feed to the
// analyzer's completed events.
func NewGateway(cfg Config, analyzer *service.Analyzer, opts ...Option) (*Gateway, error) {
	if analyzer == nil {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "gateway", "NewGateway", "analyzer is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.WindowWorkers <= 0 {
		cfg.WindowWorkers = 4
	}

	g := &Gateway{
		config:   cfg,
		analyzer: analyzer,
		monitor:  health.NewMonitor(),
		composer: palette.NewComposer(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.hub = NewHub(g.logger, g.metrics)
	analyzer.OnCompleted(g.hub.BroadcastCompleted)
	return g, nil
}

// Handler builds the gateway's route table.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/experiments/analyze-routes", g.instrument("/api/experiments/analyze-routes", g.handleAnalyzeRoutes))
	mux.HandleFunc("/api/experiments/analyze-windows", g.instrument("/api/experiments/analyze-windows", g.handleAnalyzeWindows))
	mux.HandleFunc("/api/experiments/route-details", g.instrument("/api/experiments/route-details", g.handleRouteDetails))
	mux.HandleFunc("/api/experiments/expert-details", g.instrument("/api/experiments/expert-details", g.handleExpertDetails))
	mux.HandleFunc("/api/experiments/sessions", g.instrument("/api/experiments/sessions", g.handleSessions))
	mux.HandleFunc("/api/palette/swatches", g.instrument("/api/palette/swatches", g.handleSwatches))
	mux.HandleFunc("/api/filters/payload", g.instrument("/api/filters/payload", g.handleFilterPayload))
	mux.HandleFunc("/api/live", g.hub.HandleWS)
	mux.HandleFunc("/healthz", g.handleHealthz)
	return mux
}

// Start runs the HTTP server until the context is cancelled.
func (g *Gateway) Start(ctx context.Context) error {
	if !g.running.CompareAndSwap(false, true) {
		return errors.WrapFatal(errors.ErrAlreadyStarted, "gateway", "Start", "gateway already running")
	}

	g.server = &http.Server{
		Addr:         g.config.Addr,
		Handler:      g.Handler(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	g.monitor.UpdateHealthy("gateway", "listening on "+g.config.Addr)

	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Addr)
		if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		g.running.Store(false)
		if err != nil {
			g.monitor.UpdateUnhealthy("gateway", "server failed")
			return errors.WrapFatal(err, "gateway", "Start", "serve on "+g.config.Addr)
		}
		return nil
	case <-ctx.Done():
		return g.Stop()
	}
}

// Stop shuts the server down gracefully, closing live feed clients.
func (g *Gateway) Stop() error {
	if !g.running.CompareAndSwap(true, false) {
		return nil
	}

	g.hub.Close()

	timeout := g.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := g.server.Shutdown(ctx); err != nil {
		return errors.WrapTransient(err, "gateway", "Stop", "shutdown HTTP server")
	}
	return nil
}

// statusRecorder captures the response code for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument adds request IDs and per-request metrics around a handler.
func (g *Gateway) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)

		if g.metrics != nil {
			g.metrics.RecordHTTPRequest(route, strconv.Itoa(recorder.status))
		}
	}
}

func (g *Gateway) handleAnalyzeRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req service.AnalyzeRequest
	if !g.decodeBody(w, r, &req) {
		return
	}

	response, err := g.analyzer.AnalyzeRoutes(r.Context(), req)
	if err != nil {
		g.writeFailure(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, response)
}

// analyzeWindowsRequest fans one request out over several layer windows.
type analyzeWindowsRequest struct {
	service.AnalyzeRequest
	Windows [][]int `json:"windows"`
}

func (g *Gateway) handleAnalyzeWindows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeWindowsRequest
	if !g.decodeBody(w, r, &req) {
		return
	}

	results, err := g.analyzer.AnalyzeWindows(r.Context(), req.AnalyzeRequest, req.Windows, g.config.WindowWorkers)
	if err != nil {
		g.writeFailure(w, err)
		return
	}

	type windowView struct {
		Window   []int                    `json:"window_layers"`
		Response *service.AnalyzeResponse `json:"response,omitempty"`
		Error    string                   `json:"error,omitempty"`
	}
	views := make([]windowView, len(results))
	for i, result := range results {
		views[i] = windowView{Window: result.Window, Response: result.Response}
		if result.Err != nil {
			views[i].Error = result.Err.Error()
		}
	}
	g.writeJSON(w, http.StatusOK, map[string]any{"results": views})
}

func (g *Gateway) handleRouteDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	sessionID := query.Get("session_id")
	signature := query.Get("route_signature")
	window, err := parseWindow(query.Get("window_layers"))
	if err != nil || sessionID == "" || signature == "" {
		g.writeError(w, http.StatusBadRequest, "session_id, route_signature and window_layers are required")
		return
	}

	details, err := g.analyzer.RouteDetails(r.Context(), sessionID, signature, window)
	if err != nil {
		g.writeFailure(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, details)
}

func (g *Gateway) handleExpertDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	sessionID := query.Get("session_id")
	layer, layerErr := strconv.Atoi(query.Get("layer"))
	expert, expertErr := strconv.Atoi(query.Get("expert_id"))
	if sessionID == "" || layerErr != nil || expertErr != nil {
		g.writeError(w, http.StatusBadRequest, "session_id, layer and expert_id are required")
		return
	}

	details, err := g.analyzer.ExpertDetails(r.Context(), sessionID, layer, expert)
	if err != nil {
		g.writeFailure(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, details)
}

func (g *Gateway) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ids, err := g.analyzer.Sessions(r.Context())
	if err != nil {
		g.writeFailure(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (g *Gateway) handleSwatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	primary, err := resolveSwatchSelection(query.Get("axis"), query.Get("gradient"))
	if err != nil {
		g.writeFailure(w, err)
		return
	}

	secondaryAxis := query.Get("secondary_axis")
	if secondaryAxis == "" {
		g.writeJSON(w, http.StatusOK, map[string]any{"swatches": palette.Preview(primary)})
		return
	}

	secondary, err := resolveSwatchSelection(secondaryAxis, query.Get("secondary_gradient"))
	if err != nil {
		g.writeFailure(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, map[string]any{"swatches": g.composer.PreviewDual(primary, secondary)})
}

// filterPayloadRequest carries a sampling selection and the corpus it
// draws from.
type filterPayloadRequest struct {
	ContextCategories []string            `json:"context_categories,omitempty"`
	TargetCategories  []string            `json:"target_categories,omitempty"`
	Balance           bool                `json:"balance,omitempty"`
	MaxPerCategory    int                 `json:"max_per_category,omitempty"`
	Dedupe            bool                `json:"dedupe,omitempty"`
	Seed              int64               `json:"seed,omitempty"`
	Context           map[string][]string `json:"context_assignments,omitempty"`
	Target            map[string][]string `json:"target_assignments,omitempty"`
}

func (g *Gateway) handleFilterPayload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req filterPayloadRequest
	if !g.decodeBody(w, r, &req) {
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	payload := sampler.BuildFilterPayload(rng, sampler.Selection{
		ContextCategories: req.ContextCategories,
		TargetCategories:  req.TargetCategories,
		Balance:           req.Balance,
		MaxPerCategory:    req.MaxPerCategory,
		Dedupe:            req.Dedupe,
	}, sampler.Corpus{
		Context: req.Context,
		Target:  req.Target,
	})

	g.writeJSON(w, http.StatusOK, map[string]any{"filter": payload})
}

// Monitor exposes the health monitor so the process can report the
// status of components the gateway does not own.
func (g *Gateway) Monitor() *health.Monitor {
	return g.monitor
}

func (g *Gateway) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	status := g.monitor.Aggregate("conceptmri")
	code := http.StatusOK
	if !status.Healthy && !status.IsDegraded() {
		code = http.StatusServiceUnavailable
	}
	g.writeJSON(w, code, map[string]any{
		"health":  status,
		"clients": g.hub.ClientCount(),
	})
}

func resolveSwatchSelection(axisName, gradientName string) (palette.Selection, error) {
	if axisName == "" || gradientName == "" {
		return palette.Selection{}, errors.WrapInvalid(errors.ErrInvalidData, "gateway", "handleSwatches",
			"axis and gradient are required")
	}
	def, err := axis.Resolve(axisName)
	if err != nil {
		return palette.Selection{}, err
	}
	scheme, err := palette.Resolve(gradientName)
	if err != nil {
		return palette.Selection{}, err
	}
	return palette.Selection{Axis: def, Gradient: scheme}, nil
}

// parseWindow parses "0,1,2" into layer indices.
func parseWindow(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty window")
	}
	parts := strings.Split(s, ",")
	window := make([]int, 0, len(parts))
	for _, part := range parts {
		layer, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		window = append(window, layer)
	}
	return window, nil
}

func (g *Gateway) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()

	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		g.writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		g.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (g *Gateway) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.logger.Warn("write response", "error", err)
	}
}

func (g *Gateway) writeError(w http.ResponseWriter, status int, message string) {
	g.writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure maps classified errors to HTTP status codes.
func (g *Gateway) writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.IsInvalid(err):
		status = http.StatusBadRequest
	case errors.IsTransient(err):
		status = http.StatusServiceUnavailable
	}
	g.writeError(w, status, err.Error())
}
