package server

import (
	"errors"
	"fmt"
	"net/http"

	ginhandler "user-api/internal/adapter/gin/handler"
	ginrouter "user-api/internal/adapter/gin/router"
	"user-api/internal/config"

	"go.uber.org/zap"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, handler *ginhandler.UserHandler, health ginrouter.HealthChecker) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(cfg.Env, handler, health, httpAddress(cfg), l),
	}
}

// Start serves the REST API until the server is shut down
func (s *Server) Start() error {
	s.Logger.Info("Gin REST API running", zap.String("address", s.Gin.Addr))

	if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}
	return nil
}

// httpAddress returns the HTTP server address
func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}
