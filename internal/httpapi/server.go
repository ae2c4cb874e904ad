package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/hostmon/internal/httpapi/middleware"
	"github.com/hamed0406/hostmon/internal/repo"
	"github.com/hamed0406/hostmon/internal/tracker"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// Server exposes read-only monitoring status over HTTP.
type Server struct {
	Logger  *zap.Logger
	Tracker *tracker.Tracker
	Events  repo.EventStore

	// TrustProxy makes the rate limiter key on X-Forwarded-For; set it only
	// behind a proxy that overwrites that header.
	TrustProxy bool
}

func NewServer(l *zap.Logger, trk *tracker.Tracker, events repo.EventStore) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Tracker: trk, Events: events}
}

// Router builds the handler tree. reqPerMin <= 0 disables rate limiting.
func (s *Server) Router(reqPerMin, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxAge:         300,
	}))
	r.Use(apimw.RateLimit(reqPerMin, burst, s.TrustProxy))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/targets", s.handleListTargets)
	// service keys contain a slash ("web-server/http"), hence the wildcard
	r.Get("/api/targets/*", s.handleGetTarget)
	r.Get("/api/events", s.handleListEvents)

	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("api_listen", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return err
		}
		s.Logger.Info("api_stopped")
		return nil
	}
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Tracker.Snapshot())
}

func (s *Server) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	st, ok := s.Tracker.State(key)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown target"})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxEventLimit)
	}

	evs, err := s.Events.List(r.Context(), limit)
	if err != nil {
		s.Logger.Warn("events_list_error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list error"})
		return
	}
	writeJSON(w, http.StatusOK, evs)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
