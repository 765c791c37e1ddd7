package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresher produces a dashboard for a parameter selection.
type Refresher interface {
	Refresh(ctx context.Context, params pipeline.Params) (pipeline.Dashboard, error)
}

// Server serves the dashboard page, its JSON API, the live websocket feed,
// and the health, readiness, and metrics endpoints.
type Server struct {
	httpServer      *http.Server
	refresher       Refresher
	refreshInterval time.Duration
	upgrader        websocket.Upgrader
	metrics         *observability.Metrics
	logger          *slog.Logger
}

// NewServer creates an HTTP server with all routes registered.
func NewServer(addr string, refresher Refresher, ready sharedobs.ReadinessChecker, refreshInterval time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
			// Refreshes may wait on feed retries; the websocket sets its own deadlines.
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		refresher:       refresher,
		refreshInterval: refreshInterval,
		upgrader:        websocket.Upgrader{CheckOrigin: sameOrigin},
		metrics:         metrics,
		logger:          logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/options", handleOptions)
	mux.HandleFunc("GET /ws", s.handleLive)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type errorResponse struct {
	Error string `json:"error"`
}

// sameOrigin accepts websocket upgrades from pages served by this host, and
// from non-browser clients that send no Origin.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}
