package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tradebot/internal/advisor"
	"tradebot/internal/advisor/advisorobs"
	"tradebot/internal/interfaces"
	"tradebot/internal/logger"
	"tradebot/internal/marketdata"
	"tradebot/internal/marketdata/marketobs"
	"tradebot/internal/news"
	"tradebot/internal/news/newsobs"
	"tradebot/internal/sentiment"
	"tradebot/internal/sentiment/sentimentobs"
	"tradebot/internal/store"
	"tradebot/internal/trace"
)

// initializeSystem loads .env and initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// shutdownSystem flushes traces and logs
func shutdownSystem(ctx context.Context) {
	if err := trace.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shut down tracer: %v\n", err)
	}
	logger.Sync()
}

// loadConfig loads the config file, falling back to built-in defaults when
// it does not exist
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn(ctx, "Config file not found, using built-in defaults", "path", path)
		return store.Default(), nil
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeHeadlineSource builds the configured headline source with observability
func initializeHeadlineSource(ctx context.Context, cfg *store.Config) (interfaces.HeadlineSource, error) {
	src, err := news.NewSource(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.News.Provider == "NEWSAPI" && os.Getenv(cfg.News.NewsAPI.APIKeyEnv) == "" {
		logger.Warn(ctx, "NewsAPI key is not set; headline acquisition will fail", "env", cfg.News.NewsAPI.APIKeyEnv)
	}
	logger.Info(ctx, "Headline source ready", "source", src.Name())
	return newsobs.Wrap(src), nil
}

// initializeScorer builds the configured sentiment scorer with observability
func initializeScorer(ctx context.Context, cfg *store.Config) (interfaces.Scorer, error) {
	scorer, err := sentiment.NewScorer(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Sentiment scorer ready", "scorer", scorer.Name())
	return sentimentobs.Wrap(scorer), nil
}

// initializePriceSource builds the configured price source with observability
func initializePriceSource(ctx context.Context, cfg *store.Config) (interfaces.PriceSource, error) {
	prices, err := marketdata.NewSource(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Price source ready", "source", prices.Name())
	return marketobs.Wrap(prices), nil
}

// initializeAdvisor wires every collaborator into an advisor with observability
func initializeAdvisor(ctx context.Context, cfg *store.Config, recorder interfaces.Recorder) (interfaces.Advisor, error) {
	src, err := initializeHeadlineSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("headline source: %w", err)
	}
	scorer, err := initializeScorer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sentiment scorer: %w", err)
	}
	prices, err := initializePriceSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("price source: %w", err)
	}

	adv := advisor.New(src, scorer, prices, advisor.Options{
		Registry:     cfg.Registry,
		Keywords:     cfg.Keywords,
		Thresholds:   &cfg.Thresholds,
		TopHeadlines: cfg.TopHeadlines,
		Concurrency:  cfg.Concurrency,
	}, recorder)

	return advisorobs.Wrap(adv), nil
}
