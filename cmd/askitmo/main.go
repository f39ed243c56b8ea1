package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/askitmo/askitmo/internal/answer"
	"github.com/askitmo/askitmo/internal/config"
	"github.com/askitmo/askitmo/internal/llm"
	"github.com/askitmo/askitmo/internal/logger"
	"github.com/askitmo/askitmo/internal/news"
	"github.com/askitmo/askitmo/internal/pprof"
	"github.com/askitmo/askitmo/internal/search"
	"github.com/askitmo/askitmo/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to JSON config file")
	flag.Parse()

	// Missing .env is fine: configuration can come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(logger.ParseLevel(cfg.LogLevel))

	if cfg.PprofAddr != "" {
		prof := pprof.NewHandler(cfg.PprofAddr)
		if err := prof.Start(); err != nil {
			return fmt.Errorf("failed to start pprof: %w", err)
		}
		defer prof.Stop()
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	logger.Info("Using %s model %s", cfg.LLMProvider, client.ModelName())

	scraper := search.NewScraper(cfg.ScrapeTimeout(), cfg.MaxPageTextLen)
	searchProvider := search.Cached(
		search.NewYandexProvider(cfg.FolderID, cfg.SearchAPIKey, cfg.SearchLanguages, scraper),
		cfg.CacheTTL(),
		cfg.SearchLanguages...,
	)
	if err := searchProvider.Validate(); err != nil {
		return fmt.Errorf("search provider misconfigured: %w", err)
	}

	newsProvider := news.NewProvider(cfg.NewsFeedURL, cfg.CacheTTL())
	synth := answer.NewSynthesizer(client)

	srv := server.New(cfg, synth, searchProvider, newsProvider)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("Received %s, shutting down", sig)
		if err := srv.Stop(); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return <-errCh
	}
}
