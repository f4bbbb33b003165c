// Package api implements the HTTP facade: a gin router binding the
// I/O, Admin, Query and Config services (spec §6) to REST endpoints,
// plus health, metrics, and live delta subscription.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legatoproject/datahub/internal/config"
	"github.com/legatoproject/datahub/pkg/logger"
)

// Server wraps a gin.Engine bound to a configured http.Server,
// grounded on the donor's internal/api/server.go (TLS support
// dropped: SPEC_FULL.md leaves transport security to an external
// reverse proxy, matching spec §1's "authentication enforced by the
// surrounding IPC layer" non-goal).
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     logger.Logger
}

// NewServer creates a Server bound to cfg's address and timeouts.
func NewServer(cfg config.ServerConfig, log logger.Logger) *Server {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	httpServer := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	return &Server{router: router, httpServer: httpServer, logger: log}
}

// Start begins serving HTTP, blocking until Stop or a fatal error.
func (s *Server) Start() error {
	s.logger.Info("starting hub API server", logger.String("address", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping hub API server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying gin engine for route registration.
func (s *Server) Router() *gin.Engine { return s.router }

// ConfigureMiddleware installs router-wide middleware.
func (s *Server) ConfigureMiddleware(mw ...gin.HandlerFunc) {
	s.router.Use(mw...)
}

// Address returns the server's bind address.
func (s *Server) Address() string { return s.httpServer.Addr }
