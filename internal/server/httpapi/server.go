// Package httpapi exposes the CICLONE REST API: accounts, catalog, click
// registration with credit rotation, ratings, statistics, and avatar
// presigning, plus the embedded landing page and /metrics.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ciclone-ptc/ciclone/internal/logging"
	"github.com/ciclone-ptc/ciclone/internal/server/services"
)

// HTTPServer wires the services into the chi router and owns the listener
// lifecycle.
type HTTPServer struct {
	address   string
	logger    logging.Logger
	db        *sql.DB
	jwtSecret []byte

	users   *services.UserService
	credits *services.CreditService
	ratings *services.RatingService
	catalog *services.CatalogService
	stats   *services.StatsService
	avatars *services.AvatarService
}

// NewHTTPServer constructs the API server.
func NewHTTPServer(
	address string,
	l logging.Logger,
	db *sql.DB,
	secretKey string,
	users *services.UserService,
	credits *services.CreditService,
	ratings *services.RatingService,
	catalog *services.CatalogService,
	stats *services.StatsService,
	avatars *services.AvatarService,
) *HTTPServer {
	return &HTTPServer{
		address:   address,
		logger:    l.With("module", "http_server"),
		db:        db,
		jwtSecret: []byte(secretKey),
		users:     users,
		credits:   credits,
		ratings:   ratings,
		catalog:   catalog,
		stats:     stats,
		avatars:   avatars,
	}
}

// Handler returns the chi router with all routes mounted.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/cadastro", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/login-completo", s.handleLoginCompleto)
		r.Post("/refresh", s.handleRefreshToken)

		r.Post("/clicks", s.handleRecordClick)
		r.Put("/clicks/{email}", s.handleSetClicksToday)
		r.Post("/registrar-click", s.handleRegisterClick)

		r.Get("/anuncios", s.handleListAds)
		r.Get("/anuncios/{id}", s.handleGetAd)
		r.Post("/anuncios", s.handleCreateAd)

		r.Get("/produtos", s.handleListProducts)
		r.Get("/produtos/{id}", s.handleGetProduct)
		r.Post("/produtos", s.handleCreateProduct)
		r.Get("/produtos/{id}/stats", s.handleProductStats)

		r.Post("/avaliacoes", s.handleSubmitRating)
		r.Post("/avaliar-produto", s.handleRateProduct)

		r.Post("/ativar-creditos", s.handleActivateCredits)
		r.Get("/iniciar-creditos", s.handleStartCredits)

		r.Get("/estatisticas", s.handleStatistics)

		r.Get("/avatar/{user_id}", s.handleAvatarURL)

		// authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/dashboard/{user_id}", s.handleDashboard)
			r.Post("/avatar/upload-url", s.handleAvatarUploadURL)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	// embedded landing page and assets
	r.Handle("/*", staticHandler())

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
