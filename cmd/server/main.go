package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cropadvisor/internal/adapters/discord"
	"cropadvisor/internal/adapters/httpapi"
	"cropadvisor/internal/application"
	"cropadvisor/internal/config"
	"cropadvisor/internal/domain/agronomy"
	"cropadvisor/internal/infrastructure/database"
	"cropadvisor/internal/infrastructure/i18n"
	"cropadvisor/internal/infrastructure/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	return zc.Build()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	translator, err := i18n.NewTranslator(cfg.DefaultLocale, logger)
	if err != nil {
		return err
	}
	builder := agronomy.DefaultBuilder()
	if missing := translator.Missing(builder.Keys()); len(missing) > 0 {
		return fmt.Errorf("catalog %q is missing recommendation keys: %s", cfg.DefaultLocale, strings.Join(missing, ", "))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	predictionMetrics, err := metrics.NewPredictionMetrics(registry, knownCrops(cfg.Yield))
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	farmRepo := database.NewFarmRepository(pool)
	userRepo := database.NewUserRepository(pool)
	predictionRepo := database.NewPredictionRepository(pool)

	predictions := application.NewPredictionService(
		agronomy.NewBaselineEstimator(cfg.Yield),
		builder,
		application.NewLocalizer(translator, cfg.DefaultLocale),
		predictionRepo,
		farmRepo,
		predictionMetrics,
		logger,
	)
	users := application.NewUserService(userRepo)

	e := httpapi.NewRouter(
		httpapi.NewHandler(predictions, logger),
		users,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		logger,
	)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.DiscordEnabled() {
		bot, err := discord.NewBot(cfg.DiscordToken, predictions, users, translator, logger)
		if err != nil {
			return err
		}
		go func() {
			if err := bot.Start(ctx); err != nil {
				errCh <- err
			}
		}()
	} else {
		logger.Info("DISCORD_TOKEN not set, Discord bot disabled")
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown failed", zap.Error(err))
	}
	return runErr
}

func knownCrops(t agronomy.YieldTable) []string {
	crops := make([]string, 0, len(t.BaseYields))
	for crop := range t.BaseYields {
		crops = append(crops, agronomy.NormalizeCrop(crop))
	}
	sort.Strings(crops)
	return crops
}
