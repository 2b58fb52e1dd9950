// Package api provides the HTTP server for healthbot.
//
// It mounts the LINE webhook endpoint alongside operational endpoints for
// health checks and external triggers.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/leadfirst/healthbot/internal/engine"
	"github.com/leadfirst/healthbot/internal/line"
	"github.com/leadfirst/healthbot/internal/store"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":5000"

// DefaultWebhookPath is the path the LINE platform delivers events to.
const DefaultWebhookPath = "/webhook"

// Opts holds configuration options for the API server.
type Opts struct {
	Addr        string // listen address, e.g. ":5000"
	WebhookPath string // path the LINE webhook is mounted on
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) {
		o.Addr = addr
	}
}

// WithWebhookPath sets the webhook mount path.
func WithWebhookPath(path string) Option {
	return func(o *Opts) {
		o.WebhookPath = path
	}
}

// Server wires the LINE transport, the conversation engine and the state
// store behind an HTTP listener.
type Server struct {
	opts Opts
	svc  *line.Service
	eng  *engine.Engine
	st   store.Store
}

// NewServer creates a Server for the given transport, engine and store.
func NewServer(svc *line.Service, eng *engine.Engine, st store.Store, options ...Option) *Server {
	opts := Opts{Addr: DefaultAddr, WebhookPath: DefaultWebhookPath}
	for _, opt := range options {
		opt(&opts)
	}
	return &Server{opts: opts, svc: svc, eng: eng, st: st}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.opts.WebhookPath, s.svc.WebhookHandler(s.eng))
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/trigger", s.triggerHandler)
	return mux
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	slog.Info("Server.Run: healthbot API running", "addr", s.opts.Addr, "webhook_path", s.opts.WebhookPath)
	return http.ListenAndServe(s.opts.Addr, s.Handler())
}

// healthHandler provides a health check endpoint for monitoring and load balancing
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	// Probe store connectivity with a read that is cheap on every backend.
	if _, err := s.st.GetUserState("health-probe"); err != nil {
		slog.Warn("Server.healthHandler: store probe failed", "error", err)
		healthData["status"] = "degraded"
		healthData["error"] = "Failed to reach state store"
	}

	statusCode := http.StatusOK
	if healthData["status"] != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSONResponse(w, statusCode, healthData)
}

// triggerHandler is a liveness ping kept for external uptime monitors that
// expect a bare-text response.
func (s *Server) triggerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	slog.Debug("Server.triggerHandler: trigger received", "method", r.Method)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OKOK")); err != nil {
		slog.Error("Server.triggerHandler: failed to write response", "error", err)
	}
}
