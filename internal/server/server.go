// Package server exposes the chat service over HTTP and websockets.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/easeaico/mindcare/internal/chat"
	"github.com/easeaico/mindcare/internal/types"
)

// ChatService is the subset of chat.Service used by the handlers.
type ChatService interface {
	CreateSession(ctx context.Context, userIP string) (*types.Session, error)
	Send(ctx context.Context, sessionID, text string) (*chat.Reply, error)
	History(ctx context.Context, sessionID string, limit int) ([]types.ChatMessage, error)
	MoodAnalytics(ctx context.Context, sessionID string) ([]types.MoodCount, error)
}

// Options configures the HTTP server.
type Options struct {
	Addr           string
	CORSOrigin     string
	RateLimitRPM   int
	RateLimitBurst int
	// TrustProxy keys rate limits on X-Forwarded-For instead of the socket address.
	TrustProxy bool
	// HealthCheck reports dependency health; nil means always healthy.
	HealthCheck func(ctx context.Context) error
}

// Server is the HTTP API.
type Server struct {
	chat    ChatService
	opts    Options
	limiter *clientLimiter
	router  *mux.Router
	http    *http.Server
}

// New returns a Server with all routes registered.
func New(service ChatService, opts Options) *Server {
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	s := &Server{
		chat:    service,
		opts:    opts,
		limiter: newClientLimiter(opts.RateLimitRPM, opts.RateLimitBurst),
	}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests, corsMiddleware(s.opts.CORSOrigin))

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/resources", s.handleResources).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session/create", s.handleCreateSession).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/chat", s.rateLimit(http.HandlerFunc(s.handleChat))).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/history/{session_id}", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/mood-analytics/{session_id}", s.handleMoodAnalytics).Methods(http.MethodGet)

	r.Handle("/ws/chat", s.rateLimit(http.HandlerFunc(s.handleWebsocket))).Methods(http.MethodGet)
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", s.opts.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("http server shutting down")
	return s.http.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

// clientIP prefers the first X-Forwarded-For entry over the socket address.
// It is recorded with the session and must not be used for access control.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// limiterKey identifies the client for rate limiting.
func (s *Server) limiterKey(r *http.Request) string {
	if s.opts.TrustProxy {
		return clientIP(r)
	}
	return remoteHost(r)
}
