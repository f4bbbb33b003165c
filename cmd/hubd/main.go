// Command hubd runs the Data Hub as a standalone process: the in-tree
// resource engine behind an HTTP facade, with live delta subscription
// over WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/legatoproject/datahub/internal/adminservice"
	"github.com/legatoproject/datahub/internal/api"
	"github.com/legatoproject/datahub/internal/backup"
	"github.com/legatoproject/datahub/internal/config"
	"github.com/legatoproject/datahub/internal/configservice"
	"github.com/legatoproject/datahub/internal/engine"
	"github.com/legatoproject/datahub/internal/health"
	"github.com/legatoproject/datahub/internal/ioservice"
	"github.com/legatoproject/datahub/internal/metrics"
	"github.com/legatoproject/datahub/internal/queryservice"
	"github.com/legatoproject/datahub/internal/sample"
	"github.com/legatoproject/datahub/internal/tree"
	"github.com/legatoproject/datahub/internal/websocket"
	loggerPkg "github.com/legatoproject/datahub/pkg/logger"
)

var (
	version   string = "dev"
	commit    string = "none"
	buildDate string = "unknown"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	hubConfigPath := flag.String("hub-config", "", "Path to an initial hub observation/state document")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Data Hub %s (commit %s) built on %s\n", version, commit, buildDate)
		os.Exit(0)
	}

	cfg, err := initConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("starting hub daemon",
		loggerPkg.String("version", version),
		loggerPkg.String("commit", commit),
		loggerPkg.String("buildDate", buildDate))

	done := make(chan struct{})
	wsHandler := websocket.NewHandler(log, done)

	metricsCollector := metrics.NewCollector("prometheus", log)

	hub := engine.New(engine.Options{
		Limits: tree.Limits{
			MaxSegmentLength: cfg.Tree.MaxSegmentLength,
			MaxPathLength:    cfg.Tree.MaxPathLength,
		},
		Clock:   func() float64 { return float64(time.Now().UnixNano()) / 1e9 },
		Metrics: metricsCollector,
		Log:     log,
		Backup:  backup.New(cfg.Backup.Directory),
		OnDelta: func(path, kind string, s sample.Sample, deleted bool) {
			wsHandler.Hub().Broadcast(websocket.DeltaMessage("/"+path, kind, s, deleted))
		},
	})
	hub.AddUpdateStartEndHandler(func(starting bool) {
		wsHandler.Hub().Broadcast(websocket.BarrierMessage(starting))
	})

	adminSvc := adminservice.New(hub)
	querySvc := queryservice.New(hub)
	configSvc := configservice.New(hub)
	ioFor := func(namespace string) *ioservice.Service {
		return ioservice.New(hub, namespace, false)
	}

	if *hubConfigPath != "" {
		if loadErr := loadInitialHubConfig(*hubConfigPath, configSvc); loadErr != nil {
			log.Error("failed to load initial hub configuration", loggerPkg.Error(loadErr))
		}
	}

	healthChecker := initHealthChecker(hub, version, buildDate)

	server := api.NewServer(cfg.Server, log)
	routerCfg := api.DefaultRouterConfig()
	api.SetupRouter(server.Router(), log, routerCfg, api.Services{
		IO:     ioFor,
		Admin:  adminSvc,
		Query:  querySvc,
		Config: configSvc,
	}, healthChecker, wsHandler)

	stopCh := setupSignalHandler(server, done, log)

	log.Info("starting HTTP server",
		loggerPkg.String("host", cfg.Server.Host),
		loggerPkg.Int("port", cfg.Server.Port))

	if startErr := server.Start(); startErr != nil {
		log.Fatal("failed to start server", loggerPkg.Error(startErr))
	}

	<-stopCh
	log.Info("shut down gracefully")
}

func initConfig(configPath string) (*config.Config, error) {
	loader := config.NewYAMLLoader(configPath)

	cfg := config.DefaultConfig()
	if _, statErr := os.Stat(configPath); statErr == nil {
		if err := loader.Load(&cfg); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else if err := loader.LoadWithOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("applying config overrides: %w", err)
	}

	if err := config.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func initLogger(cfg config.LoggingConfig) (loggerPkg.Logger, error) {
	log, err := loggerPkg.NewZapLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return log, nil
}

func loadInitialHubConfig(path string, svc *configservice.Service) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading hub config: %w", err)
	}
	return svc.Load(data)
}

func initHealthChecker(hub *engine.Hub, version, buildDate string) *health.Checker {
	checker := health.NewChecker(version, buildDate)
	checker.AddCheck(func() health.Check {
		root := hub.Root()
		count := 0
		root.Walk(func(*tree.Entry) bool {
			count++
			return true
		})
		return health.Check{
			Name:    "resource_tree",
			Status:  health.StatusUp,
			Details: map[string]string{"entries": fmt.Sprintf("%d", count)},
		}
	})
	return checker
}

func setupSignalHandler(server *api.Server, done chan struct{}, log loggerPkg.Logger) chan os.Signal {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-stopCh
		log.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			log.Error("error during server shutdown", loggerPkg.Error(err))
		}
		close(done)
		close(stopCh)
	}()

	return stopCh
}
