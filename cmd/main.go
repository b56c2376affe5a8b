package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/novortex/wallet-backoffice/config"
	"github.com/novortex/wallet-backoffice/data"
	"github.com/novortex/wallet-backoffice/data/cache"
	"github.com/novortex/wallet-backoffice/data/repository/postgres"
	"github.com/novortex/wallet-backoffice/data/session"
	"github.com/novortex/wallet-backoffice/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/novortex/wallet-backoffice/internal/externalApi/executionApi"
	"github.com/novortex/wallet-backoffice/internal/externalApi/rebalanceCalcApi"
	"github.com/novortex/wallet-backoffice/internal/externalApi/walletDataApi"
	"github.com/novortex/wallet-backoffice/internal/notifier/telegramNotifier"
	"github.com/novortex/wallet-backoffice/internal/reportGenerator/xlsxGenerator"
	"github.com/novortex/wallet-backoffice/internal/scheduler"
	"github.com/novortex/wallet-backoffice/internal/service/walletService"
	transport "github.com/novortex/wallet-backoffice/internal/transport/http"
)

func main() {
	ctx := context.Background()

	cfg := config.MustLoad()

	setupLogger(cfg)

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	repo := postgres.NewPostgres(cfg, pgClient)
	redisCache := cache.NewRedisCache(redisClient, cfg)
	sessionStore := session.NewRedisSession(redisClient, cfg)

	rebalanceApi := rebalanceCalcApi.New(cfg)
	walletsApi := walletDataApi.New(cfg)
	execApi := executionApi.New(cfg)

	reportGen := xlsxGenerator.New()
	driveApi := googleDriveApi.New(ctx, cfg)
	opsNotifier := telegramNotifier.New(cfg)

	service := walletService.New(
		cfg,
		repo,
		redisCache,
		sessionStore,
		rebalanceApi,
		walletsApi,
		execApi,
		reportGen,
		driveApi,
		opsNotifier,
	)

	jobScheduler := scheduler.New()
	jobScheduler.NewCrontabJob("notifyMonthClosings", service.NotifyMonthClosings, cfg.Jobs.ClosingsScanCrontab, false)
	jobScheduler.NewIntervalJob("notifyOverdueRebalances", service.NotifyOverdueRebalances, cfg.Jobs.OverdueScanInterval, false)
	jobScheduler.NewIntervalJob("driveCleanup", driveApi.DeleteOldFiles, cfg.Jobs.DriveCleanupInterval, false)
	jobScheduler.Start()
	defer jobScheduler.Stop()

	controller := transport.NewController(service)
	router := transport.NewRouter(cfg, controller)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		slog.Info("http server listening", slog.Int("port", cfg.HTTP.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", slog.String("err", err.Error()))
	}

	slog.Info("shutdown complete")
}

func setupLogger(cfg *config.Config) {
	var level slog.Level

	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
