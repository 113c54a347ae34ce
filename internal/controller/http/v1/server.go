package v1

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kurochkinivan/video_uploader/internal/config"
)

type Server struct {
	httpServer *http.Server
}

func NewRouter(videos *VideosHandler, health *HealthHandler, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", health.Health)

	r.Route("/api/videos", func(r chi.Router) {
		r.Use(Authenticate(jwtSecret))

		r.Get("/", videos.List)
		r.Post("/upload", videos.Upload)
		r.Get("/export", videos.Export)
		r.Get("/{id}/status", videos.Status)
		r.Get("/{id}/download", videos.Download)
	})

	return r
}

func NewServer(cfg config.HTTP, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			Handler:      handler,
		},
	}
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
