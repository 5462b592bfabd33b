package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/ejack923/gmail-dashboard-backend/internal/gmail"
	"github.com/ejack923/gmail-dashboard-backend/internal/google"
	"github.com/ejack923/gmail-dashboard-backend/internal/inbox"
	"github.com/ejack923/gmail-dashboard-backend/internal/instrumentation"
	"github.com/ejack923/gmail-dashboard-backend/internal/logging"
)

const (
	// DefaultReadHeaderTimeout bounds header parsing on the main listener.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultIdleTimeout bounds idle keep-alive connections.
	DefaultIdleTimeout = 60 * time.Second
)

// Server is the HTTP front end over the inbox service.
type Server struct {
	service    *inbox.Service
	httpServer *http.Server
	health     *HealthChecker
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
	addr       string
	shutdown   atomic.Bool
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerMetrics enables HTTP request metrics.
func WithServerMetrics(m *instrumentation.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithServerLogger sets the server logger. Defaults to slog.Default.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server listening on addr.
func New(addr string, service *inbox.Service, opts ...ServerOption) *Server {
	s := &Server{
		service: service,
		addr:    addr,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.health = NewHealthChecker(s.shutdown.Load)

	return s
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", s.handleStatus)
	mux.HandleFunc("GET /authorize", s.handleAuthorize)
	mux.HandleFunc("GET /oauth2callback", s.handleOAuthCallback)
	mux.HandleFunc("GET /emails", s.handleEmails)
	mux.HandleFunc("GET /inbox/by-client", s.handleGroupedInbox)
	mux.HandleFunc("GET /inbox/summary", s.handleSummary)

	s.health.RegisterHealthEndpoints(mux)

	return s.withRequestMetrics(mux)
}

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	s.logger.Info("starting http server", "addr", s.addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.shutdown.Store(true)
	s.health.SetReady(false)
	s.logger.Info("shutting down http server")

	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

type statusResponse struct {
	Service    string `json:"service"`
	Authorized bool   `json:"authorized"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Service:    "gmail-dashboard",
		Authorized: s.service.IsAuthorized(),
	})
}

func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.service.StartAuthorization(), http.StatusFound)
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing authorization code"})
		return
	}

	if err := s.service.CompleteAuthorization(r.Context(), code); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "authorized"})
}

func (s *Server) handleEmails(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.limitParam(w, r)
	if !ok {
		return
	}

	messages, err := s.service.ListEmails(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

func (s *Server) handleGroupedInbox(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.limitParam(w, r)
	if !ok {
		return
	}

	grouped, err := s.service.GroupedInbox(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, grouped)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.limitParam(w, r)
	if !ok {
		return
	}

	summary, err := s.service.InboxSummary(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// limitParam parses the optional ?limit= query parameter. Zero means
// "use the configured default"; the service applies it.
func (s *Server) limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
		return 0, false
	}
	return limit, true
}

// writeError maps service errors onto HTTP status codes: a missing
// token is the caller's problem (401), upstream Google failures are a
// bad gateway (502), anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var exchangeErr *google.ExchangeError
	var fetchErr *gmail.FetchError

	switch {
	case errors.Is(err, google.ErrNotAuthorized):
		status = http.StatusUnauthorized
	case errors.As(err, &exchangeErr), errors.As(err, &fetchErr):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, logging.Err(err))
	} else {
		s.logger.Warn("request failed", "path", r.URL.Path, logging.Status(strconv.Itoa(status)), logging.Err(err))
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the response code for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withRequestMetrics(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
