package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrriyous/storefront-backend/internal/catalog"
	"github.com/mrriyous/storefront-backend/internal/cron"
	"github.com/mrriyous/storefront-backend/internal/notifications"
	transactionsvc "github.com/mrriyous/storefront-backend/internal/transactions"
	"github.com/mrriyous/storefront-backend/pkg/config"
	"github.com/mrriyous/storefront-backend/pkg/db"
	"github.com/mrriyous/storefront-backend/pkg/logger"
	"github.com/mrriyous/storefront-backend/pkg/mailer"
	"github.com/mrriyous/storefront-backend/pkg/metrics"
	"github.com/mrriyous/storefront-backend/pkg/migrate"
	"github.com/mrriyous/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sender, err := mailer.New(cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}

	trackerService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notification tracker", err)
		os.Exit(1)
	}

	lowStockJob, err := cron.NewLowStockJob(cron.LowStockJobParams{
		Logger:   logg,
		Products: catalog.NewRepository(dbClient.DB()),
		Tracker:  trackerService,
		Sender:   sender,
		Renderer: sender,
		Store:    cfg.Store,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create low stock job", err)
		os.Exit(1)
	}

	reportJob, err := cron.NewDailyReportJob(cron.DailyReportJobParams{
		Logger:       logg,
		Transactions: transactionsvc.NewRepository(dbClient.DB()),
		Tracker:      trackerService,
		Sender:       sender,
		Renderer:     sender,
		Store:        cfg.Store,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create daily report job", err)
		os.Exit(1)
	}

	reportHour, reportMinute, err := cfg.Cron.DailyReportTime()
	if err != nil {
		logg.Error(context.Background(), "invalid daily report time", err)
		os.Exit(1)
	}

	lowStockLock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lowStockJob.Name()), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create low stock lock", err)
		os.Exit(1)
	}
	reportLock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(reportJob.Name()), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create report lock", err)
		os.Exit(1)
	}

	schedules := []cron.Schedule{
		{Job: lowStockJob, Lock: lowStockLock, Interval: cfg.Cron.LowStockInterval},
		{Job: reportJob, Lock: reportLock, Daily: true, DailyHour: reportHour, DailyMinute: reportMinute},
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:    logg,
		Metrics:   metricsCollector,
		Schedules: schedules,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	go serveMetrics(ctx, cfg.Cron.MetricsPort, logg)

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func serveMetrics(ctx context.Context, port string, logg *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: ":" + port, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "metrics server stopped unexpectedly", err)
	}
}
