package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/itk-os2display/aarhus-data-bundle/internal/api"
	"github.com/itk-os2display/aarhus-data-bundle/internal/cache"
	"github.com/itk-os2display/aarhus-data-bundle/internal/config"
	"github.com/itk-os2display/aarhus-data-bundle/internal/httpclient"
	"github.com/itk-os2display/aarhus-data-bundle/internal/processor"
	"github.com/itk-os2display/aarhus-data-bundle/internal/slides"
	"github.com/itk-os2display/aarhus-data-bundle/internal/sources"
	"github.com/itk-os2display/aarhus-data-bundle/internal/translate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the data API server",
	Long: `Start the data API server.

Without a configuration file the server uses the built-in defaults and an
in-memory slide store, which is enough for local development. Configure a
database section to run against a real slide store.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second
	serverRequestTimeout   = 10 * time.Second
	serverReadTimeout      = 10 * time.Second
	serverWriteTimeout     = 15 * time.Second // Must be > serverRequestTimeout to let middleware handle timeout
	serverIdleTimeout      = 60 * time.Second
)

func init() {
	serveCmd.Flags().String("address", "", "Address to listen on (overrides configuration)")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		slog.Error("Failed to bind address flag", "error", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		slog.Error("Failed to bind config flag", "error", err)
		os.Exit(1)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	if address := viper.GetString("address"); address != "" {
		cfg.Address = address
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Slide store: Postgres when configured, in-memory otherwise.
	store, readiness, cleanup, err := newSlideStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	translator, err := newTranslator(cfg)
	if err != nil {
		return err
	}

	cacheMetrics, err := cache.NewMetrics(promRegistry, "responses")
	if err != nil {
		return fmt.Errorf("failed to register cache metrics: %w", err)
	}
	responseCache := cache.New[any](cfg.CacheTTL(), cache.WithMetrics[any](cacheMetrics))
	defer responseCache.Close()

	pipeline := sources.NewPipeline(httpclient.NewDefaultClient(cfg.FetchTimeout()), responseCache)
	registry := sources.NewRegistry(pipeline, translator, cfg.Endpoints)

	batchProcessor := processor.NewBatchProcessor(
		store,
		registry,
		cfg.SlideType,
		slog.Default(),
		processor.NewMetrics(promRegistry),
	)

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	if cfg.Cron.Enabled {
		interval, err := cfg.CronInterval()
		if err != nil {
			return err
		}
		go processor.NewScheduler(batchProcessor, interval, slog.Default()).Start(schedulerCtx)
	}

	router := api.NewServer(api.Deps{
		Registry:       registry,
		Custom:         sources.CustomHandler(pipeline, translator),
		Processor:      batchProcessor,
		Readiness:      readiness,
		MetricsHandler: promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
	},
		api.WithMiddlewares(
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(serverRequestTimeout),
			api.LoggingMiddleware,
		),
	)

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	go func() {
		slog.Info("Server listening", "address", cfg.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return err
	}

	slog.Info("Server shutdown complete")
	return nil
}

func loadServeConfig() (*config.Config, error) {
	var opts []config.Option
	if configPath := viper.GetString("config"); configPath != "" {
		opts = append(opts, config.WithConfigPath(configPath))
	}

	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newSlideStore(ctx context.Context, cfg *config.Config) (
	slides.Store,
	func(ctx context.Context) error,
	func(),
	error,
) {
	if cfg.Database == nil {
		slog.Warn("No database configured, using in-memory slide store")
		return slides.NewMemoryStore(), nil, func() {}, nil
	}

	connString, err := cfg.Database.GetConnectionString()
	if err != nil {
		return nil, nil, nil, err
	}

	pool, err := slides.NewPool(ctx, connString)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err := slides.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	slog.Info("Connected to slide database",
		"host", cfg.Database.Host,
		"database", cfg.Database.Database,
	)
	return store, pool.Ping, pool.Close, nil
}

func newTranslator(cfg *config.Config) (translate.Translator, error) {
	if cfg.TranslationsPath == "" {
		return translate.Default(), nil
	}

	catalog, err := translate.LoadCatalog(cfg.TranslationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}
	slog.Info("Loaded translation catalog", "path", cfg.TranslationsPath)
	return catalog, nil
}
