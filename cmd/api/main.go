package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"adstudio/internal/adapter/repo"
	"adstudio/internal/http/handlers"
	"adstudio/internal/http/httpapi"
	"adstudio/internal/infra"
	"adstudio/internal/infra/geoip"
	"adstudio/internal/middleware"
	"adstudio/internal/pipeline"
	imageprovider "adstudio/internal/providers/image"
	promptprovider "adstudio/internal/providers/prompt"
	"adstudio/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	accounts := repo.NewAccountRepository(dbpool)
	ads := repo.NewAdRepository(dbpool)

	artifacts, err := storage.NewSupabaseStore(cfg.StorageURL, cfg.StorageServiceKey, cfg.StorageBucket)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init artifact store")
	}

	author, err := promptprovider.NewOpenAIAuthor(promptprovider.OpenAIOptions{
		APIKey:       cfg.OpenAIAPIKey,
		Model:        cfg.OpenAIModel,
		BaseURL:      cfg.OpenAIBaseURL,
		Organization: cfg.OpenAIOrg,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init prompt author")
	}

	synth, err := imageprovider.NewOpenAISynthesizer(imageprovider.OpenAIOptions{
		APIKey:       cfg.OpenAIAPIKey,
		Model:        cfg.OpenAIModel,
		BaseURL:      cfg.OpenAIBaseURL,
		Organization: cfg.OpenAIOrg,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init image synthesizer")
	}

	orchestrator := pipeline.New(pipeline.Options{
		Accounts:  accounts,
		Ads:       ads,
		Artifacts: artifacts,
		Author:    author,
		Synth:     synth,
		Cost:      cfg.GenerationCost,
		Logger:    logger.With().Str("component", "pipeline").Logger(),
	})

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	app := handlers.NewApp(orchestrator, accounts, ads, logger)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		CountryLookup:  countryLookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
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
