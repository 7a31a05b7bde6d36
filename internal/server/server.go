// Package server sets up the HTTP server, router, and all route
// definitions. This is the composition root: every dependency is created
// and wired here, so the rest of the codebase only declares what it needs.
//
// Dependency chain:
//
//	sqlite.DB → UserService / RecommendationService → handlers → routes
//
// Handlers never touch the database; services never touch HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/recshelf/internal/auth"
	"github.com/sakif/recshelf/internal/config"
	"github.com/sakif/recshelf/internal/handler"
	"github.com/sakif/recshelf/internal/middleware"
	sqliteRepo "github.com/sakif/recshelf/internal/repository/sqlite"
	"github.com/sakif/recshelf/internal/service"
)

// Server owns the router, the database connection, and the configuration.
// The database is closed during graceful shutdown.
type Server struct {
	router     *chi.Mux
	cfg        *config.Config
	logger     *slog.Logger
	db         *sqliteRepo.DB
	seedAdmins []string
}

// New creates a Server: opens the database, builds the service and handler
// graph, and registers all routes.
//
// The repository/sqlite package is imported as sqliteRepo to keep it
// distinct from the driver package name.
func New(cfg *config.Config, seedAdmins []string, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router:     chi.NewRouter(),
		cfg:        cfg,
		logger:     logger,
		db:         db,
		seedAdmins: seedAdmins,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes wires middleware, services, handlers and routes.
//
// Middleware order matters: request ID and real IP first (the rate limiter
// keys on the rewritten RemoteAddr), then panic recovery, then logging.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	userService := service.NewUserService(s.db, s.seedAdmins, s.logger)
	recService := service.NewRecommendationService(s.db, s.db, s.logger)

	recHandler := handler.NewRecommendationHandler(recService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)

	writeLimiter := middleware.NewRateLimiter(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst)

	// Auth is optional infrastructure: without a JWT secret the public read
	// API still works, but sign-in and all mutations are unavailable.
	var tokens *auth.TokenService
	if s.cfg.JWTSecret != "" {
		var err error
		tokens, err = auth.NewTokenService(s.cfg.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}

		provider := auth.NewGitHubProvider(
			s.cfg.GitHubClientID,
			s.cfg.GitHubClientSecret,
			s.cfg.GitHubCallbackURL,
		)
		authHandler := handler.NewAuthHandler(provider, tokens, userService, s.logger)

		s.router.Route("/auth", func(r chi.Router) {
			r.Get("/github/login", authHandler.HandleLogin)
			r.Get("/github/callback", authHandler.HandleCallback)
			r.Post("/logout", authHandler.HandleLogout)
		})
	} else {
		s.logger.Warn("JWT_SECRET not set — sign-in and mutation routes are disabled")
	}

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public reads.
		r.Get("/recommendations/latest", recHandler.HandleLatest)
		r.Get("/recommendations", recHandler.HandleList)
		r.Get("/users/{externalID}/recommendations", recHandler.HandleListByOwner)

		if tokens == nil {
			return
		}

		// Authenticated routes; mutations additionally rate-limited per IP.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", userHandler.HandleMe)

			r.Group(func(r chi.Router) {
				r.Use(writeLimiter.Handler)
				r.Post("/recommendations", recHandler.HandleCreate)
				r.Delete("/recommendations/{id}", recHandler.HandleDelete)
				r.Post("/recommendations/{id}/staff-pick", recHandler.HandleToggleStaffPick)
				r.Put("/users/{id}/role", userHandler.HandleUpdateRole)
			})
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, let in-flight requests finish
// (30s cap), and close the database so the WAL is flushed and the file
// lock released.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Router exposes the configured router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
