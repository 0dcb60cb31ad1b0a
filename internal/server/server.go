// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"autopress/internal/adapter/storage"
	"autopress/internal/config"
	"autopress/internal/domain/signal"
	"autopress/internal/server/handlers"
	"autopress/internal/service/publish"
)

// Server represents the admin HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new admin HTTP server
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	eventsTopic string,
	ranker signal.Ranker,
	pipeline *publish.Pipeline,
	contentStore *storage.ContentStore,
	registry *storage.RegistryStore,
	log *logrus.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	keywordHandler := handlers.NewKeywordHandler(ranker)
	postHandler := handlers.NewPostHandler(contentStore)
	publishHandler := handlers.NewPublishHandler(pipeline, log)
	statsHandler := handlers.NewStatsHandler(registry)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Keyword pool API
			r.Get("/keywords", keywordHandler.GetKeywords)

			// Posts API
			r.Route("/posts", func(r chi.Router) {
				r.Get("/", postHandler.ListPosts)
				r.Get("/{slug}", postHandler.GetPost)
			})

			// Pipeline API
			r.Post("/publish", publishHandler.TriggerPublish)
			r.Get("/stats", statsHandler.GetStats)
		})
	})

	// WebSocket endpoint relaying pipeline events
	if natsConn != nil {
		router.Get("/ws/events", handlers.EventsWebSocketHandler(natsConn, eventsTopic, log))
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
