package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Jtofah/pdsnd-github/internal/config"
	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
	"github.com/Jtofah/pdsnd-github/internal/files"
	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
	handlers "github.com/Jtofah/pdsnd-github/internal/transport/http"
	"github.com/Jtofah/pdsnd-github/pkg/contracts"
)

// Service names reported to OpenTelemetry
const (
	CLIName    = "bikeshare"
	ServerName = "bikeshare-server"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.AnalyticsMetrics
	Loader        *dataprocessing.Loader

	// Set by NewServer only
	Service *handlers.StatsService
	Router  http.Handler
	Server  *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// Setup loads configuration from configFile (or the well-known locations
// when empty), prepares the log directory and initializes the global logger.
func Setup(configFile string) (*config.Config, *slog.Logger, error) {
	var cfg *config.Config
	var err error
	if configFile != "" {
		if !config.FileExists(configFile) {
			return nil, nil, fmt.Errorf("config file %s does not exist", configFile)
		}
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	cfg.Logging.FilePath = paths.LogFile

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

// New wires telemetry and the dataset loader for serviceName
func New(cfg *config.Config, logger *slog.Logger, serviceName string) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", serviceName),
		slog.String("version", contracts.Version))

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry, serviceName), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateAnalyticsMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	catalog := dataprocessing.DefaultCatalog()
	if len(cfg.Data.Cities) > 0 {
		catalog = dataprocessing.NewCatalog(cfg.Data.Cities)
	}

	checkDatasets(logger, paths.DataDir, catalog)

	return &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		Loader:        dataprocessing.NewLoader(catalog, paths.DataDir, logger, dataprocessing.WithMetrics(metrics)),
	}, nil
}

// checkDatasets logs catalog cities whose file is missing and data files
// no city points at
func checkDatasets(logger *slog.Logger, dataDir string, catalog dataprocessing.Catalog) {
	discovery := files.NewDiscovery(dataDir)
	for _, ds := range files.Missing(discovery.Datasets(catalog)) {
		logger.Warn("Dataset file not found",
			slog.String("city", ds.City),
			slog.String("path", ds.Path))
	}

	extra, err := discovery.Uncataloged(catalog)
	if err != nil {
		logger.Warn("Data directory not readable",
			slog.String("path", dataDir),
			slog.String("error", err.Error()))
		return
	}
	for _, f := range extra {
		logger.Debug("Dataset file has no catalog entry", slog.String("file", f.Name))
	}
}

// NewServer builds an application with the HTTP API on top of New
func NewServer(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	a, err := New(cfg, logger, ServerName)
	if err != nil {
		return nil, err
	}
	a.setupRouter()
	a.createServer()
	return a, nil
}

// setupRouter builds the API router
func (a *Application) setupRouter() {
	a.Service = handlers.NewStatsService(a.Loader)
	a.Router = handlers.NewRouter(handlers.RouterDeps{
		Service:        a.Service,
		Logger:         a.Logger,
		Server:         a.Config.Server,
		Tracer:         a.OTelProviders.Tracer,
		Metrics:        a.Metrics,
		MetricsHandler: a.OTelProviders.PrometheusHTTP,
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Addr returns the address the server listens on, or "" before Start
func (a *Application) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Start binds the listener and serves in the background. A serve failure
// after a successful bind calls cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	if a.Server == nil {
		return errors.New("application has no HTTP server")
	}

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.mu.Lock()
	a.listener = ln
	a.mu.Unlock()

	a.Logger.InfoContext(ctx, "Starting server",
		slog.String("address", ln.Addr().String()),
		slog.String("data_dir", a.Paths.DataDir),
		slog.Bool("rate_limit", a.Config.Server.RateLimit.Enabled),
		slog.Bool("metrics", a.OTelProviders.PrometheusHTTP != nil))

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
	return nil
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run serves until ctx is cancelled, SIGINT or SIGTERM arrives, or the
// server fails, then shuts down.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal", slog.String("cause", context.Cause(ctx).Error()))

	return a.Stop(context.Background())
}
