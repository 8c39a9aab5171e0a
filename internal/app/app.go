// Package app wires the editorial services together: configuration,
// logging, storage connections and the domain dependencies the binaries
// are built from.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/traviworld/editorial/internal/api"
	"github.com/traviworld/editorial/internal/autonomy"
	"github.com/traviworld/editorial/internal/catalog"
	"github.com/traviworld/editorial/internal/config"
	"github.com/traviworld/editorial/internal/database"
	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/metrics"
	redisclient "github.com/traviworld/editorial/internal/redis"
	"github.com/traviworld/editorial/internal/search"
	"github.com/traviworld/editorial/internal/seo"
	"github.com/traviworld/editorial/internal/tagger"
	"github.com/traviworld/editorial/internal/views"
	"github.com/traviworld/editorial/internal/zonecache"
)

// Options contains configuration for creating a new App.
type Options struct {
	ConfigPath string
	Version    string
}

// App holds the shared dependencies of the editorial binaries. The API
// server, the autonomy worker and the CLI all start from the same wiring.
type App struct {
	config      *config.Config
	logger      logger.Logger
	db          *sqlx.DB
	redisClient *redis.Client
	repo        *database.Repository
	zoneCache   *zonecache.Cache
	views       *views.Counter
	search      *search.Client
	catalog     *catalog.Catalog
	tagger      *tagger.Tagger
	metrics     *metrics.Metrics
	jobs        *autonomy.Jobs
	version     string
}

// New loads configuration and connects every backing service.
func New(opts Options) (*App, error) {
	cfg, appLogger, err := loadConfigAndLogger(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	appLogger = appLogger.With(
		logger.String("service", "editorial"),
		logger.String("version", opts.Version),
	)

	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		_ = appLogger.Sync()
		return nil, fmt.Errorf("connect to Postgres: %w", err)
	}

	redisClient, err := redisclient.NewClient(redisclient.Config{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = database.Close(db)
		_ = appLogger.Sync()
		return nil, fmt.Errorf("connect to Redis: %w", err)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		_ = redisClient.Close()
		_ = database.Close(db)
		_ = appLogger.Sync()
		return nil, fmt.Errorf("load destination catalogue: %w", err)
	}
	appLogger.Info("Destination catalogue loaded",
		logger.String("path", cfg.Catalog.Path),
		logger.Int("destinations", cat.Len()),
	)

	var searchClient *search.Client
	if cfg.Elasticsearch.Enabled {
		searchClient, err = search.NewClient(search.Config{
			URL:      cfg.Elasticsearch.URL,
			Username: cfg.Elasticsearch.Username,
			Password: cfg.Elasticsearch.Password,
			Index:    cfg.Elasticsearch.Index,
		}, appLogger)
		if err != nil {
			_ = redisClient.Close()
			_ = database.Close(db)
			_ = appLogger.Sync()
			return nil, fmt.Errorf("connect to Elasticsearch: %w", err)
		}
		appLogger.Info("Search backend connected",
			logger.String("index", cfg.Elasticsearch.Index),
		)
	} else {
		appLogger.Info("Search backend disabled")
	}

	repo := database.NewRepository(db)
	m := metrics.NewMetrics(nil)
	zoneCache := zonecache.NewCache(redisClient, cfg.Cache.ZoneTTL, appLogger)
	viewCounter := views.NewCounter(redisClient, appLogger)
	auditor := seo.NewAuditor(seo.AuditorConfig{
		BaseURL:           cfg.Site.BaseURL,
		Timeout:           cfg.Worker.AuditTimeout,
		RequestsPerSecond: cfg.Worker.AuditRate,
	}, appLogger)
	jobs := autonomy.NewJobs(repo, viewCounter, zoneCache, searchClient, auditor, appLogger)

	return &App{
		config:      cfg,
		logger:      appLogger,
		db:          db,
		redisClient: redisClient,
		repo:        repo,
		zoneCache:   zoneCache,
		views:       viewCounter,
		search:      searchClient,
		catalog:     cat,
		tagger:      tagger.New(cat.Keywords()),
		metrics:     m,
		jobs:        jobs,
		version:     opts.Version,
	}, nil
}

// loadConfigAndLogger loads configuration and creates the logger.
func loadConfigAndLogger(configPath string) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	appLogger, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, appLogger, nil
}

// RunAPI serves the editorial HTTP API until a shutdown signal arrives or
// the context is cancelled.
func (a *App) RunAPI(ctx context.Context) error {
	router := api.NewRouter(api.Deps{
		Repo:      a.repo,
		Redis:     a.redisClient,
		ZoneCache: a.zoneCache,
		Views:     a.views,
		Search:    a.search,
		Catalog:   a.catalog,
		Tagger:    a.tagger,
		Metrics:   a.metrics,
		Audits:    a.jobs,
	}, a.config, a.logger)
	defer router.Close()

	return router.NewServer().RunWithGracefulShutdown(ctx)
}

// RunWorker runs the scheduled curation jobs until a shutdown signal
// arrives or the context is cancelled.
func (a *App) RunWorker(ctx context.Context) error {
	worker, err := autonomy.NewWorker(a.jobs, a.config.Worker, a.metrics, a.logger)
	if err != nil {
		return err
	}

	worker.Start()
	defer worker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.logger.Info("Shutting down gracefully",
			logger.String("signal", sig.String()),
		)
	case <-ctx.Done():
		a.logger.Info("Context cancelled, shutting down")
	}

	return nil
}

// RunTrendingOnce executes a single trending refill outside the schedule.
func (a *App) RunTrendingOnce(ctx context.Context) (int, error) {
	return a.jobs.RunTrending(ctx)
}

// RunReindexOnce rebuilds the search index outside the schedule.
func (a *App) RunReindexOnce(ctx context.Context) (int, error) {
	return a.jobs.RunReindex(ctx)
}

// FlushCache drops every cached zone payload.
func (a *App) FlushCache(ctx context.Context) (int, error) {
	return a.zoneCache.FlushAll(ctx)
}

// Repo exposes the repository for administrative commands.
func (a *App) Repo() *database.Repository {
	return a.repo
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() logger.Logger {
	return a.logger
}

// Version returns the build version the app was started with.
func (a *App) Version() string {
	return a.version
}

// Close releases database and Redis connections.
func (a *App) Close() error {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("Failed to close Redis client", logger.Error(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("Failed to close database", logger.Error(err))
		}
	}
	return a.logger.Sync()
}
