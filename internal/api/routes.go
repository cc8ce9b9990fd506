package api

import (
	"net/http"
	"time"

	"github.com/bmstu-itstech/botarena/internal/api/handlers"
	"github.com/bmstu-itstech/botarena/internal/config"
	"github.com/bmstu-itstech/botarena/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the demo binary's HTTP surface: series lifecycle commands
// plus the websocket publisher's subscription endpoint, composed the way
// the teacher composes its routes.go.
type Server struct {
	router        *chi.Mux
	seriesHandler *handlers.SeriesHandler
	wsHandler     *handlers.WebSocketHandler
	systemHandler *handlers.SystemHandler
	corsConfig    config.CORSConfig
	log           *logger.Logger
}

// NewServer builds a Server and wires its middleware/routes.
func NewServer(seriesHandler *handlers.SeriesHandler, wsHandler *handlers.WebSocketHandler, systemHandler *handlers.SystemHandler, corsConfig config.CORSConfig, log *logger.Logger) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		seriesHandler: seriesHandler,
		wsHandler:     wsHandler,
		systemHandler: systemHandler,
		corsConfig:    corsConfig,
		log:           log,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chiMiddleware.RequestID)
	s.router.Use(chiMiddleware.RealIP)
	s.router.Use(chiMiddleware.Logger)
	s.router.Use(chiMiddleware.Recoverer)
	s.router.Use(chiMiddleware.Timeout(30 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsConfig.AllowedOrigins,
		AllowedMethods:   s.corsConfig.AllowedMethods,
		AllowedHeaders:   s.corsConfig.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           s.corsConfig.MaxAge,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.systemHandler.GetHealth)
	s.router.Get("/ws/{seriesID}", s.wsHandler.HandleSeries)

	s.router.Route("/api/v1/series", func(r chi.Router) {
		r.Post("/", s.seriesHandler.Create)
		r.Get("/{seriesID}", s.seriesHandler.Get)
		r.Post("/{seriesID}/pause", s.seriesHandler.Pause)
		r.Post("/{seriesID}/resume", s.seriesHandler.Resume)
		r.Post("/{seriesID}/stop", s.seriesHandler.Stop)
		r.Post("/{seriesID}/rerun", s.seriesHandler.Rerun)
	})
}

// Handler returns the composed http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
