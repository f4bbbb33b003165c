package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/legatoproject/datahub/internal/adminservice"
	"github.com/legatoproject/datahub/internal/configservice"
	"github.com/legatoproject/datahub/internal/health"
	"github.com/legatoproject/datahub/internal/ioservice"
	"github.com/legatoproject/datahub/internal/middleware/logging"
	"github.com/legatoproject/datahub/internal/middleware/recovery"
	"github.com/legatoproject/datahub/internal/queryservice"
	"github.com/legatoproject/datahub/internal/websocket"
	"github.com/legatoproject/datahub/pkg/logger"
)

// RouterConfig holds the router's middleware configuration, grounded
// on the donor's DefaultRouterConfig but trimmed to the concerns this
// hub actually has (no auth, no CORS policy beyond the default-open
// stance a library consumed behind an IPC/reverse-proxy layer needs).
type RouterConfig struct {
	LoggingConfig  logging.Config
	RecoveryConfig recovery.Config
	BasePath       string
}

// DefaultRouterConfig returns sane defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		BasePath: "/api/v1",
		LoggingConfig: logging.Config{
			SkipPaths:      []string{"/health", "/metrics"},
			MaxBodyLogSize: 4096,
		},
	}
}

// Services bundles the four facades a router needs to bind routes to.
type Services struct {
	IO     func(namespace string) *ioservice.Service
	Admin  *adminservice.Service
	Query  *queryservice.Service
	Config *configservice.Service
}

// SetupRouter installs middleware, health/metrics endpoints, the live
// delta WebSocket endpoint, and the I/O/Admin/Query/Config facade
// routes.
func SetupRouter(engine *gin.Engine, log logger.Logger, cfg RouterConfig, svc Services, checker *health.Checker, wsHandler *websocket.Handler) *gin.Engine {
	engine.Use(recovery.Handler(log, cfg.RecoveryConfig))
	engine.Use(logging.RequestLogger(log, cfg.LoggingConfig))

	engine.GET("/health", func(c *gin.Context) {
		result := checker.RunChecks()
		status := http.StatusOK
		if result.Status != health.StatusUp {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, result)
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/ws/delta", wsHandler.ServeDelta)

	api := engine.Group(cfg.BasePath)
	registerIORoutes(api.Group("/io"), svc.IO)
	registerAdminRoutes(api.Group("/admin"), svc.Admin)
	registerQueryRoutes(api.Group("/query"), svc.Query)
	registerConfigRoutes(api.Group("/config"), svc.Config)

	return engine
}
