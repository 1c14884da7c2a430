package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"headshots/internal/adapter/repo"
	"headshots/internal/db"
	"headshots/internal/http/handlers"
	"headshots/internal/http/httpapi"
	"headshots/internal/infra"
	"headshots/internal/infra/geoip"
	"headshots/internal/middleware"
	"headshots/internal/notify"
	"headshots/internal/provider/replicate"
	"headshots/internal/storage"
	"headshots/internal/webhook"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	orders := repo.NewOrderRepository(pool)
	jobs := repo.NewJobRepository(pool)
	assets := repo.NewAssetRepository(pool)
	training := repo.NewTrainingJobRepository(pool)

	fileStore, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	provider, err := replicate.NewClient(replicate.Options{
		APIToken:       cfg.ProviderAPIToken,
		BaseURL:        cfg.ProviderBaseURL,
		WebhookURL:     cfg.WebhookURL,
		TrainerVersion: cfg.TrainerVersion,
		Logger:         &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure provider client")
	}

	notifier := notify.NewLogNotifier(logger)
	reconciler := webhook.NewReconciler(orders, jobs, assets, training, fileStore, notifier, provider, cfg.PublicBaseURL, logger)

	app := handlers.NewApp(logger, orders, jobs, assets, training, reconciler, provider)

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip resolver unavailable")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:         logger,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  lookup,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
