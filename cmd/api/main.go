package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"resumehost/docs"
	"resumehost/internal/ai"
	"resumehost/internal/assist"
	"resumehost/internal/bridge"
	"resumehost/internal/config"
	"resumehost/internal/database"
	"resumehost/internal/database/migration"
	"resumehost/internal/filestore"
	handlers "resumehost/internal/http/handler"
	"resumehost/internal/http/middleware"
	"resumehost/internal/identity"
	"resumehost/internal/logging"
	"resumehost/internal/otel"
	"resumehost/internal/repository"
	"resumehost/internal/repository/postgres"
	"resumehost/internal/service"
	"resumehost/internal/storage"
)

// @title Resume Host API
// @version 1.0
// @description WOPI file host and resume assistant for the embedded document editor.
// @BasePath /
func main() {
	cfg := config.Load()
	loc := cfg.Location()
	logger := logging.New(cfg.LogLevel, loc)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		fatal(logger, "tracing_init_failed", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	objStore, err := storage.New(cfg.Storage, cfg.MinIO)
	if err != nil {
		fatal(logger, "storage_init_failed", err)
	}

	// The journal lives in Postgres when one is configured, in memory otherwise.
	var (
		db        *sql.DB
		revisions repository.RevisionRepository = repository.NewMemoryRevisions()
	)
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			fatal(logger, "database_connect_failed", err)
		}
		defer db.Close()
		if err := migration.EnsureMigrated(ctx, db, logger, dbLabel(cfg.Database)); err != nil {
			fatal(logger, "database_migration_failed", err)
		}
		revisions = postgres.NewRevisionPostgres(db)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	files := filestore.New()
	metrics, err := service.NewMetrics(reg, files)
	if err != nil {
		fatal(logger, "metrics_init_failed", err)
	}
	wopiSvc := service.NewWOPIService(files, objStore, revisions, identity.NewStatic(cfg.Identity),
		service.WithLogger(logger),
		service.WithMetrics(metrics),
	)

	completer, err := ai.NewCompleter(ctx, cfg.Gemini, logger)
	if err != nil {
		fatal(logger, "generative_service_init_failed", err)
	}
	limiter := middleware.NewLimiterManager(cfg.Assist.RatePerMin, cfg.Assist.Burst, 10*time.Minute, logger)
	defer limiter.Close()

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(logger, "metrics_init_failed", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// PutFile bodies are whole documents.
		BodyLimit: cfg.BodyLimitMB * 1024 * 1024,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())
	app.Use(middleware.CORS(cfg.AllowOrigins))

	deps := handlers.Deps{
		Journal:        revisions,
		Files:          wopiSvc,
		Launcher:       bridge.NewLauncher(cfg.Editor, cfg.AppHost),
		ReadyGrace:     cfg.Editor.ReadyGrace,
		Assistant:      assist.New(completer),
		AssistLimiter:  limiter,
		Gatherer:       reg,
		RequestTimeout: cfg.RequestTimeout,
	}
	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			logger.Error("server_shutdown_failed", "error", err.Error())
		}
	}()

	logger.Info("server_starting",
		"port", cfg.Port,
		"wopi_base", cfg.AppHost,
		"editor_url", cfg.Editor.URL,
		"storage_driver", cfg.Storage.Driver,
		"journal", journalKind(db),
	)
	if err := app.Listen(":" + cfg.Port); err != nil && !errors.Is(err, context.Canceled) {
		fatal(logger, "server_start_failed", err)
	}
	logger.Info("server_stopped")
}

func journalKind(db *sql.DB) string {
	if db == nil {
		return "memory"
	}
	return "postgres"
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err.Error())
	os.Exit(1)
}

// dbLabel names the database in logs without leaking URL credentials.
func dbLabel(c config.DatabaseConfig) string {
	if c.URL == "" {
		return c.Host
	}
	if u, err := url.Parse(c.URL); err == nil {
		return u.Hostname()
	}
	return "postgres"
}
