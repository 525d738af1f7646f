package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"rakta/internal/adapter/repo"
	"rakta/internal/auth"
	"rakta/internal/dashboard"
	"rakta/internal/http/handlers"
	httpapi "rakta/internal/http/httpapi"
	"rakta/internal/infra"
	"rakta/internal/infra/credentials"
	"rakta/internal/infra/geoip"
	"rakta/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg, "api")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	metrics := infra.NewMetrics()
	runner := infra.NewSQLRunner(dbpool, logger).
		WithObserver(metrics).
		WithSlowThreshold(cfg.SQLSlowThreshold)

	storagePath := cfg.StoragePath
	if abs, err := filepath.Abs(storagePath); err == nil {
		storagePath = abs
	}
	fileStore, err := storage.NewFileStore(storagePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
		resolver = nil
	}
	defer resolver.Close()

	usage := repo.NewUsageRepository(runner)
	tokenStore := credentials.NewStore(runner)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	app := &handlers.App{
		Users:      repo.NewUserRepository(runner),
		Donations:  repo.NewDonationRepository(runner),
		Requests:   repo.NewRequestRepository(runner),
		BloodBanks: repo.NewBloodBankRepository(runner),
		Stats:      repo.NewStatsRepository(runner),
		Tokens:     tokenStore,
		Dashboard: dashboard.NewService(usage, dashboard.Options{
			PastDays:   cfg.DashboardPastDays,
			FutureDays: cfg.DashboardFutureDays,
			Logger:     logger,
			Recorder:   metrics,
		}),
		Pictures:          fileStore,
		Issuer:            tokens,
		Passwords:         auth.NewHasher(),
		Logger:            logger,
		DB:                dbpool,
		ResetTokenTTL:     cfg.ResetTokenTTL,
		ExposeResetTokens: cfg.AppEnv == "development",
		MaxUploadBytes:    cfg.MaxUploadBytes,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:             logger,
		Requests:           metrics,
		Registry:           metrics.Registry,
		Verifier:           tokens,
		Revocations:        tokenStore,
		CountryLookup:      geoip.Lookup(resolver),
		DefaultLocale:      "en",
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimit:      cfg.RateLimitPerMin,
		StaticDir:          storagePath,
	})

	server := infra.NewHTTPServer(":"+cfg.Port, cfg, router)
	logger.Info().Str("addr", server.Addr()).Msg("API listening")
	if err := server.Run(ctx, cfg.HTTPIdleTimeout); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}
