// Package server exposes the resolver over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/xaenox/jarvis-bot/internal/models"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

type Resolver interface {
	ResolveReply(ctx context.Context, input string) models.Reply
	Ready() bool
}

// PairCounter is optionally implemented by the resolver to report the size of
// the loaded knowledge base.
type PairCounter interface {
	Pairs() int
}

type Server struct {
	router   *chi.Mux
	resolver Resolver
	logger   *zap.Logger
}

type resolveRequest struct {
	Text string `json:"text"`
}

type resolveResponse struct {
	ID     string        `json:"id"`
	Reply  string        `json:"reply"`
	Intent models.Intent `json:"intent"`
	Action string        `json:"action,omitempty"`
	Score  float64       `json:"score,omitempty"`
}

type healthResponse struct {
	Ready bool `json:"ready"`
	Pairs int  `json:"pairs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(resolver Resolver, logger *zap.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		resolver: resolver,
		logger:   logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(cors)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Options("/resolve", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Ready: s.resolver.Ready()}
	if pc, ok := s.resolver.(PairCounter); ok {
		resp.Pairs = pc.Pairs()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be JSON with a text field"})
		return
	}

	id := uuid.NewString()
	reply := s.resolver.ResolveReply(r.Context(), req.Text)
	s.logger.Info("Resolved HTTP request",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("reply_id", id),
		zap.String("intent", string(reply.Intent)),
		zap.String("action", reply.Action))

	writeJSON(w, http.StatusOK, resolveResponse{
		ID:     id,
		Reply:  reply.Text,
		Intent: reply.Intent,
		Action: reply.Action,
		Score:  reply.Score,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
