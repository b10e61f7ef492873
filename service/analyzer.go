package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/metric"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/palette"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/routegraph"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/stats"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/store"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/types"
)

// DefaultTopRoutes is how many routes an analysis returns when the
// request does not say.
const DefaultTopRoutes = 20

// SessionStore is the slice of the session lake the analyzer needs.
type SessionStore interface {
	LoadSession(ctx context.Context, id string) (*store.Session, error)
	ListSessions(ctx context.Context) ([]string, error)
}

// AnalyzeRequest describes one route analysis.
type AnalyzeRequest struct {
	SessionID    string              `json:"session_id"`
	WindowLayers []int               `json:"window_layers"`
	Filter       *types.FilterConfig `json:"filter,omitempty"`
	TopN         int                 `json:"top_n_routes,omitempty"`

	// Optional coloring: axis and gradient names resolved against the
	// registries. Secondary selections enable dual-axis composition.
	PrimaryAxis       string `json:"primary_axis,omitempty"`
	PrimaryGradient   string `json:"primary_gradient,omitempty"`
	SecondaryAxis     string `json:"secondary_axis,omitempty"`
	SecondaryGradient string `json:"secondary_gradient,omitempty"`
}

// Validate rejects requests the analyzer cannot serve.
func (r *AnalyzeRequest) Validate() error {
	if r.SessionID == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "service", "Validate", "session_id is required")
	}
	if len(r.WindowLayers) < 2 {
		return errors.WrapInvalid(errors.ErrInvalidData, "service", "Validate", "window must span at least two layers")
	}
	for _, layer := range r.WindowLayers {
		if layer < 0 || layer >= routegraph.LayerCount {
			return errors.WrapInvalid(errors.ErrInvalidData, "service", "Validate", "window layer out of range")
		}
	}
	if (r.PrimaryAxis == "") != (r.PrimaryGradient == "") {
		return errors.WrapInvalid(errors.ErrInvalidData, "service", "Validate", "primary axis and gradient go together")
	}
	if (r.SecondaryAxis == "") != (r.SecondaryGradient == "") {
		return errors.WrapInvalid(errors.ErrInvalidData, "service", "Validate", "secondary axis and gradient go together")
	}
	if r.SecondaryAxis != "" && r.PrimaryAxis == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "service", "Validate", "secondary axis requires a primary axis")
	}
	return nil
}

// NodeView is a Sankey node decorated with its composed color and
// distribution statistics.
type NodeView struct {
	routegraph.Node
	Color string         `json:"color,omitempty"`
	Stats *stats.Summary `json:"stats,omitempty"`
}

// LinkView is a Sankey link decorated with its composed color.
type LinkView struct {
	routegraph.Link
	Color string `json:"color,omitempty"`
}

// AnalyzeResponse is the full result of one route analysis.
type AnalyzeResponse struct {
	AnalysisID   string                `json:"analysis_id"`
	SessionID    string                `json:"session_id"`
	WindowLayers []int                 `json:"window_layers"`
	Nodes        []NodeView            `json:"nodes"`
	Links        []LinkView            `json:"links"`
	TopRoutes    []routegraph.TopRoute `json:"top_routes"`
	Statistics   routegraph.Statistics `json:"statistics"`
}

// CompletedEvent announces a finished analysis to subscribers.
type CompletedEvent struct {
	AnalysisID   string    `json:"analysis_id"`
	SessionID    string    `json:"session_id"`
	WindowLayers []int     `json:"window_layers"`
	TotalRoutes  int       `json:"total_routes"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Analyzer orchestrates session loading, route extraction, graph
// building, coloring, and statistics.
type Analyzer struct {
	store    SessionStore
	composer palette.Composer
	logger   *slog.Logger
	metrics  *metric.Metrics

	listenersMu sync.RWMutex
	listeners   []func(CompletedEvent)
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithComposer overrides the default equal-weight color composer.
func WithComposer(c palette.Composer) AnalyzerOption {
	return func(a *Analyzer) { a.composer = c }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics wires analysis metrics.
func WithMetrics(m *metric.Metrics) AnalyzerOption {
	return func(a *Analyzer) { a.metrics = m }
}

// NewAnalyzer creates an Analyzer over a session store.
func NewAnalyzer(sessions SessionStore, opts ...AnalyzerOption) (*Analyzer, error) {
	if sessions == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "service", "NewAnalyzer", "session store cannot be nil")
	}

	a := &Analyzer{
		store:    sessions,
		composer: palette.NewComposer(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// OnCompleted registers a listener for completed analyses. Listeners run
// synchronously on the analyzing goroutine and must not block.
func (a *Analyzer) OnCompleted(fn func(CompletedEvent)) {
	a.listenersMu.Lock()
	defer a.listenersMu.Unlock()
	a.listeners = append(a.listeners, fn)
}

func (a *Analyzer) notifyCompleted(event CompletedEvent) {
	a.listenersMu.RLock()
	defer a.listenersMu.RUnlock()
	for _, fn := range a.listeners {
		fn(event)
	}
}

// Sessions lists the session IDs available in the lake.
func (a *Analyzer) Sessions(ctx context.Context) ([]string, error) {
	return a.store.ListSessions(ctx)
}

// AnalyzeRoutes runs one full analysis: load, filter, extract, rank,
// build the Sankey view, and decorate it.
func (a *Analyzer) AnalyzeRoutes(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		a.recordAnalysis("analyze_routes", "invalid", start)
		return nil, err
	}
	if req.TopN <= 0 {
		req.TopN = DefaultTopRoutes
	}

	session, err := a.store.LoadSession(ctx, req.SessionID)
	if err != nil {
		a.recordAnalysis("analyze_routes", "error", start)
		return nil, err
	}
	if a.metrics != nil {
		a.metrics.SessionsLoaded.Inc()
	}

	routing, tokens := routegraph.ApplyFilter(session.Routing, session.Tokens, session.Manifest, req.Filter)
	routes := routegraph.ExtractTargetRoutes(routing, tokens, req.WindowLayers)

	topRoutes := routegraph.TopRoutes(routes, req.TopN)

	// The Sankey view only shows the ranked routes; statistics cover
	// the full route set.
	ranked := make(map[string]*routegraph.Route, len(topRoutes))
	for _, tr := range topRoutes {
		if route, ok := routes[tr.Signature]; ok {
			ranked[tr.Signature] = route
		}
	}
	graph := routegraph.BuildGraph(ranked, session.Manifest, req.Filter)

	response := &AnalyzeResponse{
		AnalysisID:   uuid.NewString(),
		SessionID:    req.SessionID,
		WindowLayers: req.WindowLayers,
		Nodes:        make([]NodeView, 0, len(graph.Nodes)),
		Links:        make([]LinkView, 0, len(graph.Links)),
		TopRoutes:    topRoutes,
		Statistics:   routegraph.WindowStatistics(routes, routing, req.WindowLayers),
	}

	for _, node := range graph.Nodes {
		view := NodeView{Node: node}
		if node.Distribution.Total() > 0 {
			summary := stats.Analyze(node.Distribution)
			view.Stats = &summary
		}
		if req.PrimaryAxis != "" {
			color, err := a.colorFor(node.Distribution, req)
			if err != nil {
				a.recordAnalysis("analyze_routes", "error", start)
				return nil, err
			}
			view.Color = color
			if a.metrics != nil {
				a.metrics.NodesColored.Inc()
			}
		}
		response.Nodes = append(response.Nodes, view)
	}

	for _, link := range graph.Links {
		view := LinkView{Link: link}
		if req.PrimaryAxis != "" && link.Distribution.Total() > 0 {
			color, err := a.colorFor(link.Distribution, req)
			if err != nil {
				a.recordAnalysis("analyze_routes", "error", start)
				return nil, err
			}
			view.Color = color
		}
		response.Links = append(response.Links, view)
	}

	a.recordAnalysis("analyze_routes", "success", start)
	a.logger.Info("analyzed routes",
		"session", req.SessionID,
		"window", req.WindowLayers,
		"routes", response.Statistics.TotalRoutes,
		"nodes", len(response.Nodes),
	)

	a.notifyCompleted(CompletedEvent{
		AnalysisID:   response.AnalysisID,
		SessionID:    response.SessionID,
		WindowLayers: response.WindowLayers,
		TotalRoutes:  response.Statistics.TotalRoutes,
		CompletedAt:  time.Now().UTC(),
	})
	return response, nil
}

// colorFor composes the node color from the request's axis selections.
func (a *Analyzer) colorFor(dist types.Distribution, req AnalyzeRequest) (string, error) {
	color, err := a.composer.ComposeNamed(dist,
		req.PrimaryAxis, req.PrimaryGradient,
		req.SecondaryAxis, req.SecondaryGradient)
	if err != nil {
		return "", err
	}
	return color.Hex(), nil
}

func (a *Analyzer) recordAnalysis(operation, status string, start time.Time) {
	if a.metrics != nil {
		a.metrics.RecordAnalysis(operation, status, time.Since(start))
	}
}
