// Package server exposes the review, lookup, and account services over a
// JSON HTTP API with bearer token sessions.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"gameboxd/internal/config"
	"gameboxd/internal/logging"
	"gameboxd/internal/lookup"
	"gameboxd/internal/review"
	"gameboxd/internal/users"
)

// Server serves the HTTP API and owns the in-process session table.
type Server struct {
	bind     string
	logger   *slog.Logger
	users    *users.Service
	reviews  *review.Service
	lookups  *lookup.Service
	sessions *sessionTable

	listener net.Listener
	server   *http.Server
	started  time.Time
}

// New constructs the API server. The lookup service may be nil when no
// metadata credential is configured; search endpoints then return empty
// results.
func New(cfg *config.Config, userSvc *users.Service, reviewSvc *review.Service, lookupSvc *lookup.Service, logger *slog.Logger) (*Server, error) {
	if cfg == nil || userSvc == nil || reviewSvc == nil {
		return nil, errors.New("server requires config, user service, and review service")
	}
	bind := strings.TrimSpace(cfg.Server.Bind)
	if bind == "" {
		return nil, errors.New("server bind address required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Server{
		bind:     bind,
		logger:   logging.NewComponentLogger(logger, "api-server"),
		users:    userSvc,
		reviews:  reviewSvc,
		lookups:  lookupSvc,
		sessions: newSessionTable(time.Duration(cfg.Server.SessionTTLHours) * time.Hour),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/register", srv.handleRegister)
	mux.HandleFunc("/api/login", srv.handleLogin)
	mux.HandleFunc("/api/logout", srv.handleLogout)
	mux.HandleFunc("/api/reviews", srv.requireAuth(srv.handleReviews))
	mux.HandleFunc("/api/reviews/", srv.requireAuth(srv.handleReviewItem))
	mux.HandleFunc("/api/search", srv.requireAuth(srv.handleSearch))
	mux.HandleFunc("/api/games/popular", srv.handlePopular)
	mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Start begins serving and shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.started = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound listen address, empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
