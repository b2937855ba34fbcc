package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/aqualytics/aqualytics/internal/database"
	"github.com/aqualytics/aqualytics/internal/web/handlers"
	"github.com/aqualytics/aqualytics/internal/web/middleware"
)

// defaultCORSOrigins covers local frontend development; extra origins come
// from configuration.
var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"https://localhost:3000",
}

// Server represents the web server
type Server struct {
	db       *database.DB
	port     int
	origins  []string
	router   *chi.Mux
	handlers *handlers.Handlers
}

// NewServer creates a new web server backed by the given pool manager.
func NewServer(db *database.DB, port int, extraOrigins []string, version string) *Server {
	s := &Server{
		db:      db,
		port:    port,
		origins: append(append([]string{}, defaultCORSOrigins...), extraOrigins...),
		router:  chi.NewRouter(),
	}
	s.handlers = handlers.New(db, version)
	s.setupRoutes()
	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(s.origins))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	h := s.handlers

	r.Get("/", h.Root)
	r.Get("/ping", h.Ping)
	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/swimmers", func(r chi.Router) {
			r.Get("/", h.ListSwimmers)
			r.Post("/", h.CreateSwimmer)
			r.Get("/{id}", h.GetSwimmer)
			r.Put("/{id}", h.UpdateSwimmer)
			r.Delete("/{id}", h.DeleteSwimmer)
		})

		r.Route("/competitions", func(r chi.Router) {
			r.Get("/", h.ListCompetitions)
			r.Post("/", h.CreateCompetition)
			r.Get("/{id}", h.GetCompetition)
			r.Put("/{id}", h.UpdateCompetition)
			r.Delete("/{id}", h.DeleteCompetition)
		})

		r.Route("/records", func(r chi.Router) {
			r.Get("/", h.ListRecords)
			r.Post("/", h.CreateRecord)
			r.Post("/batch", h.CreateRecordBatch)
			r.Get("/{id}", h.GetRecord)
			r.Put("/{id}", h.UpdateRecord)
			r.Delete("/{id}", h.DeleteRecord)
		})

		r.Route("/distances", func(r chi.Router) {
			r.Get("/", h.ListDistances)
			r.Post("/", h.CreateDistance)
			r.Delete("/{id}", h.DeleteDistance)
		})

		r.Route("/strokes", func(r chi.Router) {
			r.Get("/", h.ListStrokes)
			r.Post("/", h.CreateStroke)
			r.Delete("/{id}", h.DeleteStroke)
		})

		r.Route("/phases", func(r chi.Router) {
			r.Get("/", h.ListPhases)
			r.Post("/", h.CreatePhase)
			r.Delete("/{id}", h.DeletePhase)
		})

		r.Route("/parameters", func(r chi.Router) {
			r.Get("/", h.ListParameters)
			r.Post("/", h.CreateParameter)
			r.Delete("/{id}", h.DeleteParameter)
		})
	})
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
