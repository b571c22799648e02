// Copyright (c) 2024 cblomart
// Licensed under the MIT License

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"feedtagger/internal/aggregator"
	"feedtagger/internal/api"
	"feedtagger/internal/articles"
	"feedtagger/internal/cache"
	"feedtagger/internal/config"
	"feedtagger/internal/keywords"
	"feedtagger/internal/models"
	"feedtagger/internal/poller"
	"feedtagger/internal/storage"
	"feedtagger/internal/tagstore"

	"github.com/spf13/cobra"
)

var Version = "dev"

// app holds the wired services shared by every command
type app struct {
	cfg        *config.Config
	storage    storage.Storage
	keywords   *keywords.Store
	vocabulary *tagstore.Vocabulary
	articles   *articles.Service
	poller     *poller.Poller
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "feedtagger",
		Short:   "Keyword-tagged RSS ingestion service",
		Version: Version,
		RunE:    runServe,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(ingestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the background poller",
		RunE:  runServe,
	}
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run a single ingestion pass and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.storage.Close()

			result, err := a.poller.RunNow(cmd.Context())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode run result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if result.Status != models.RunCommitted {
				return fmt.Errorf("ingestion run %s rolled back: %s", result.RunID, result.Error)
			}
			return nil
		},
	}
}

func bootstrap(ctx context.Context) (*app, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize persistent storage
	storageManager, err := storage.NewStorage(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if cfg.ResetArticles {
		log.Printf("RESET_ARTICLES set, clearing stored articles")
		if err := storageManager.ResetArticles(ctx); err != nil {
			storageManager.Close()
			return nil, fmt.Errorf("failed to reset articles: %w", err)
		}
	}

	keywordStore := keywords.New(storageManager)
	if _, err := keywordStore.Bootstrap(ctx, cfg.SeedKeywords); err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to seed keywords: %w", err)
	}

	// Initialize cache for hot data
	cacheManager := cache.NewManager(cfg.CacheTTL)

	agg := aggregator.New(cacheManager, storageManager, keywordStore, aggregator.NewRSSFetcher(cfg.FetchTimeout), aggregator.Options{
		Feeds:     cfg.Feeds,
		DaysLimit: cfg.DaysLimit,
		Workers:   cfg.FetchWorkers,
	})

	tagFile := tagstore.NewFileStore(filepath.Join(cfg.DataDir, "canonical_tags.json"))

	return &app{
		cfg:        cfg,
		storage:    storageManager,
		keywords:   keywordStore,
		vocabulary: tagstore.NewVocabulary(tagFile, storageManager, cacheManager),
		articles:   articles.NewService(storageManager),
		poller:     poller.New(agg, cfg.PollInterval),
	}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.storage.Close()

	// Start background polling; the first run begins immediately
	a.poller.Start()

	server := api.NewServer(a.keywords, a.articles, a.vocabulary, a.poller, a.storage, a.cfg)

	log.Printf("Starting feedtagger server on port %d", a.cfg.Port)
	log.Printf("Data directory: %s", a.cfg.DataDir)
	log.Printf("Feed sources: %d", len(a.cfg.Feeds))
	log.Printf("Background polling interval: %v", a.poller.Interval())

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping services...")
		a.poller.Stop()
		cancel()
	}()

	if err := server.StartWithContext(ctx); err != nil && err != context.Canceled {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
