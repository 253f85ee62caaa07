package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"server/internal/cart"
	"server/internal/catalog"
	"server/internal/coach"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/providers/genai"
	"server/internal/storage"
	"server/internal/stylist"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	spool, err := storage.NewSpool(cfg.MediaSpoolPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure media spool")
	}

	// Fight clips take a while to transfer and analyze; the client timeout
	// has to cover the slowest single call, not the whole workflow.
	httpClient := &http.Client{Timeout: 10 * time.Minute}
	geminiClient, err := genai.NewClient(genai.Options{
		APIKey:        cfg.GeminiAPIKey,
		BaseURL:       cfg.GeminiBaseURL,
		UploadBaseURL: cfg.GeminiUploadURL,
		Model:         cfg.GeminiModel,
		HTTPClient:    httpClient,
		Logger:        &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure gemini client")
	}

	analyzer := coach.NewAnalyzer(geminiClient, logger, coach.Options{
		PollInterval: cfg.PollInterval,
		PollTimeout:  cfg.PollTimeout,
	})
	runs := coach.NewRegistry(analyzer, logger)

	cat := catalog.New(catalog.DefaultProducts)
	carts := cart.NewStore()
	sty := stylist.New(geminiClient, cat, logger)

	app := handlers.NewApp(logger, cat, carts, runs, sty, spool)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
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
