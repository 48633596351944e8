package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"arda/internal/deps"
	"arda/internal/jobs"
	"arda/internal/logging"
	"arda/internal/users"
)

// Server holds the HTTP handlers' collaborators.
type Server struct {
	orchestrator *jobs.Orchestrator
	users        *users.Store
	depStatus    func() []deps.Status
	logger       *slog.Logger
}

// NewServer wires the HTTP surface.
func NewServer(orchestrator *jobs.Orchestrator, store *users.Store, depStatus func() []deps.Status, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if depStatus == nil {
		depStatus = func() []deps.Status { return nil }
	}
	return &Server{
		orchestrator: orchestrator,
		users:        store,
		depStatus:    depStatus,
		logger:       logger,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		s.logRequests,
	)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Get("/users", s.handleListUsers)
		r.Post("/process", s.handleProcess)
		r.Get("/progress/{key}", s.handleProgress)
		r.Get("/download/{key}", s.handleDownload)
		r.Get("/healthz", s.handleHealthz)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(wrapped, r)
		s.logger.Info("http request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", wrapped.Status()),
			logging.Duration("elapsed", time.Since(start)),
			logging.String(logging.FieldCorrelationID, middleware.GetReqID(r.Context())),
		)
	})
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, bind string) error {
	server := &http.Server{
		Addr:              bind,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
