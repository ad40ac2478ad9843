// Package main is the entrypoint for the Company Catalog API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/orgcatalog/orgcatalog/internal/cache"
	"github.com/orgcatalog/orgcatalog/internal/config"
	"github.com/orgcatalog/orgcatalog/internal/handler"
	"github.com/orgcatalog/orgcatalog/internal/metrics"
	"github.com/orgcatalog/orgcatalog/internal/middleware"
	"github.com/orgcatalog/orgcatalog/internal/repository"
	"github.com/orgcatalog/orgcatalog/internal/server"
	"github.com/orgcatalog/orgcatalog/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	if cfg.MigrateOnStart {
		if err := repo.Migrate(ctx); err != nil {
			logger.Error("failed to apply schema", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("schema applied")
	}

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	recorder := metrics.NewInMemory()
	buildingService := service.NewBuildingService(repo, recorder)
	activityService := service.NewActivityService(repo, recorder)
	orgService := service.NewOrganizationService(repo, cacheClient, cfg.MaxSearchRadiusKM, recorder)
	apiKeyService := service.NewAPIKeyService(repo, recorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	buildingHandler := handler.NewBuildingHandler(buildingService, logger, cfg.MaxRequestBodySize)
	activityHandler := handler.NewActivityHandler(activityService, logger, cfg.MaxRequestBodySize)
	orgHandler := handler.NewOrganizationHandler(orgService, logger, cfg.MaxRequestBodySize)
	searchHandler := handler.NewSearchHandler(orgService, logger)
	apiKeyHandler := handler.NewAPIKeyHandler(apiKeyService, logger, cfg.MaxRequestBodySize)
	metricsHandler := handler.NewMetricsHandler(recorder)

	r := setupRouter(routerDeps{
		base:     h,
		health:   healthHandler,
		building: buildingHandler,
		activity: activityHandler,
		org:      orgHandler,
		search:   searchHandler,
		apiKey:   apiKeyHandler,
		metrics:  metricsHandler,
		repo:     repo,
		cache:    cacheClient,
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything setupRouter needs.
type routerDeps struct {
	base     *handler.Handler
	health   *handler.HealthHandler
	building *handler.BuildingHandler
	activity *handler.ActivityHandler
	org      *handler.OrganizationHandler
	search   *handler.SearchHandler
	apiKey   *handler.APIKeyHandler
	metrics  *handler.MetricsHandler
	repo     *repository.Repository
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))

	if origins := deps.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	authCfg := middleware.AuthConfig{
		Logger:     deps.logger,
		Repository: deps.repo,
		Cache:      deps.cache,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:        deps.logger,
		Cache:         deps.cache,
		APIEnabled:    deps.cfg.RateLimitAPIEnabled,
		SearchEnabled: deps.cfg.RateLimitSearchEnabled,
		SearchRPM:     deps.cfg.RateLimitSearchRPM,
		SearchBurst:   deps.cfg.RateLimitSearchBurst,
	}

	// API v1 routes (require authentication)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))
		r.Use(middleware.RateLimitAPI(rateLimitCfg))

		searchLimit := middleware.RateLimitSearch(rateLimitCfg)

		r.Route("/buildings", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", deps.building.List)
			r.With(middleware.RequireRead()).Get("/{id}", deps.building.Get)
			r.With(middleware.RequireRead(), searchLimit).Get("/{id}/organizations", deps.search.ByBuilding)
			r.With(middleware.RequireWrite()).Post("/", deps.building.Create)
		})

		r.Route("/activities", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", deps.activity.Tree)
			r.With(middleware.RequireRead()).Get("/{id}", deps.activity.Get)
			r.With(middleware.RequireRead(), searchLimit).Get("/{id}/organizations", deps.search.ByActivity)
			r.With(middleware.RequireWrite()).Post("/", deps.activity.Create)
		})

		r.Route("/organizations", func(r chi.Router) {
			// Flat search routes; the nested forms under /buildings
			// and /activities are aliases.
			r.With(middleware.RequireRead(), searchLimit).Get("/building/{id}", deps.search.ByBuilding)
			r.With(middleware.RequireRead(), searchLimit).Get("/activity/{id}", deps.search.ByActivity)
			r.With(middleware.RequireRead(), searchLimit).Get("/radius", deps.search.ByRadius)
			r.With(middleware.RequireRead(), searchLimit).Get("/bbox", deps.search.ByBBox)
			r.With(middleware.RequireRead(), searchLimit).Get("/search/radius", deps.search.ByRadius)
			r.With(middleware.RequireRead(), searchLimit).Get("/search/bbox", deps.search.ByBBox)
			r.With(middleware.RequireRead(), searchLimit).Get("/search/name", deps.search.ByName)
			r.With(middleware.RequireRead()).Get("/{id}", deps.org.Get)
			r.With(middleware.RequireWrite()).Post("/", deps.org.Create)
			r.With(middleware.RequireWrite()).Patch("/{id}", deps.org.Update)
			r.With(middleware.RequireAdmin()).Delete("/{id}", deps.org.Delete)
		})

		// API key management
		r.Route("/api-keys", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", deps.apiKey.List)
			r.With(middleware.RequireAdmin()).Post("/", deps.apiKey.Create)
			r.With(middleware.RequireAdmin()).Delete("/{id}", deps.apiKey.Revoke)
		})

		// Metrics exposition
		r.With(middleware.RequireAdmin()).Get("/admin/metrics", deps.metrics.Metrics)
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
