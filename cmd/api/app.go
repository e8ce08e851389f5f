package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"crmapi/docs"
	"crmapi/internal/config"
	"crmapi/internal/database"
	"crmapi/internal/database/migration"
	"crmapi/internal/engagement"
	handlers "crmapi/internal/http/handler"
	"crmapi/internal/http/middleware"
	"crmapi/internal/logging"
	"crmapi/internal/numbering"
	"crmapi/internal/otel"
	"crmapi/internal/repository/postgres"
	"crmapi/internal/service"
	"crmapi/internal/storage"
)

const (
	shutdownTimeout = 10 * time.Second
	// Multipart framing on top of the file itself.
	bodyOverhead = 1 << 20
)

func loadConfig() (*config.AppConfig, *slog.Logger, error) {
	cfg := config.Load()
	log := logging.Default(cfg.Location())
	slog.SetDefault(log)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, log, nil
}

func migrate(ctx context.Context, _ *cli.Command) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return migration.Migrate(ctx, db, log, cfg.Database.Host)
}

func serve(ctx context.Context, _ *cli.Command) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error("tracing_shutdown_failed", "error", err.Error())
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	contactRepo := postgres.NewContactPostgres(db)
	eventRepo := postgres.NewCalendarEventPostgres(db)
	taskRepo := postgres.NewTaskPostgres(db)

	calc := engagement.NewCalculator(eventRepo, taskRepo, engagement.Policy{
		MaxEventDuration: cfg.Engagement.MaxEventDuration,
		RateThreshold:    decimal.NewFromFloat(cfg.Engagement.RateThreshold),
		Location:         loc,
	})

	tickets := service.NewTicketService(
		postgres.NewTicketPostgres(db),
		postgres.NewAttachmentPostgres(db),
		contactRepo,
		objStore,
	)
	documents := service.NewSalesDocumentService(
		postgres.NewSalesDocumentPostgres(db, numbering.NewSequencer(loc)),
		contactRepo,
		calc,
	)

	services := handlers.Services{
		Contacts:       service.NewContactService(contactRepo),
		Documents:      documents,
		Projects:       service.NewProjectService(postgres.NewProjectPostgres(db), contactRepo, calc),
		Scheduling:     service.NewSchedulingService(eventRepo, taskRepo, contactRepo),
		Tickets:        tickets,
		MaxUploadBytes: int64(cfg.MaxUploadBytes),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.MaxUploadBytes + bodyOverhead,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	app.Get("/swagger/*", swaggerHandler)

	handlers.RegisterRoutes(app, db, services)

	addr := ":" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server_listening", "addr", addr, "app_host", cfg.AppHost)
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("server_shutdown", "reason", context.Cause(gctx).Error())
		return app.ShutdownWithContext(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// swaggerHandler serves the UI with host and scheme taken from the request.
func swaggerHandler(c *fiber.Ctx) error {
	scheme := c.Protocol()
	if proto := c.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	docs.SwaggerInfo.Host = c.Get("Host")
	docs.SwaggerInfo.Schemes = []string{scheme}

	return swagger.HandlerDefault(c)
}
