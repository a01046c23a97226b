// Package main boots the MindCare chat API and wires application dependencies.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/easeaico/mindcare/internal/chat"
	"github.com/easeaico/mindcare/internal/config"
	"github.com/easeaico/mindcare/internal/mood"
	"github.com/easeaico/mindcare/internal/sentiment"
	"github.com/easeaico/mindcare/internal/server"
	"github.com/easeaico/mindcare/internal/storage"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	slog.Info("configuration loaded", "port", cfg.Port, "sentiment_provider", cfg.SentimentProvider, "sentiment_model", cfg.SentimentModel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.AutoMigrate(ctx); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	scorer, err := sentiment.New(ctx, sentiment.Options{
		Provider:      cfg.SentimentProvider,
		Model:         cfg.SentimentModel,
		GoogleAPIKey:  cfg.GoogleAPIKey,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		Timeout:       cfg.SentimentTimeout,
	})
	if err != nil {
		log.Fatalf("failed to create sentiment scorer: %v", err)
	}

	engine := mood.NewEngine(mood.WithScorer(scorer), mood.WithLogger(logger))
	service := chat.NewService(engine, store.Sessions, store.Messages, store.Analytics, chat.Options{
		HistoryLimit:    cfg.HistoryLimit,
		MaxMessageRunes: cfg.MaxMessageRunes,
	})

	srv := server.New(service, server.Options{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		CORSOrigin:     cfg.CORSOrigin,
		RateLimitRPM:   cfg.RateLimitRPM,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustProxy:     cfg.TrustProxy,
		HealthCheck:    store.Ping,
	})

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server failed: %v", err)
	}
	slog.Info("server stopped")
}
