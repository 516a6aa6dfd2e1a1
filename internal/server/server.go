package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/enrollment/internal/bootstrap"
	"github.com/yigit/enrollment/internal/config"
	"github.com/yigit/enrollment/internal/pkg/helpers"
)

// Server owns the HTTP listener and the database pool behind it
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	pool   *pgxpool.Pool
	log    zerolog.Logger
	http   *http.Server
}

// NewServer loads configuration, prepares the database and wires the API
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	pool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, pool, lgr)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)
	serveUploads(router, cfg, lgr)

	return &Server{cfg: cfg, router: router, pool: pool, log: lgr}, nil
}

// serveUploads exposes stored profile images and seminar papers
func serveUploads(router *gin.Engine, cfg *config.Config, lgr zerolog.Logger) {
	dir := cfg.Server.StoragePath
	if err := os.MkdirAll(dir, 0o755); err != nil {
		lgr.Error().Err(err).Str("path", dir).Msg("Failed to create uploads directory")
		return
	}

	prefix := cfg.Server.UploadsURL
	if prefix == "" {
		prefix = "/uploads"
	}
	router.Static(prefix, dir)
	lgr.Info().Str("path", dir).Str("url", prefix).Msg("Serving uploaded files")
}

// Run serves requests until SIGINT/SIGTERM or a listener failure, then shuts down
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.http = &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.router,
		ReadTimeout:  helpers.ParseDuration(s.cfg.Server.ReadTimeout, 10*time.Second),
		WriteTimeout: helpers.ParseDuration(s.cfg.Server.WriteTimeout, 30*time.Second),
		IdleTimeout:  2 * time.Minute,
	}

	listenErr := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.http.Addr).Msg("Enrollment API listening")
		listenErr <- s.http.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			s.closePool()
			return fmt.Errorf("error starting server: %w", err)
		}
	case <-ctx.Done():
		s.log.Info().Msg("Shutdown signal received")
	}

	return s.Shutdown(context.Background())
}

// Shutdown drains in-flight requests and releases the pool
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, helpers.ParseDuration(s.cfg.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()

	var err error
	if s.http != nil {
		if err = s.http.Shutdown(ctx); err != nil {
			s.log.Error().Err(err).Msg("HTTP server shutdown error")
			err = fmt.Errorf("http shutdown: %w", err)
		} else {
			s.log.Info().Msg("HTTP server stopped")
		}
	}

	s.closePool()
	return err
}

func (s *Server) closePool() {
	if s.pool == nil {
		return
	}
	s.pool.Close()
	s.pool = nil
	s.log.Info().Msg("Database pool closed")
}
