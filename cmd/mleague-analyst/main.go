package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/user/mleague-analyst/internal/api"
	"github.com/user/mleague-analyst/internal/api/middleware"
	"github.com/user/mleague-analyst/internal/config"
	"github.com/user/mleague-analyst/internal/database"
	"github.com/user/mleague-analyst/internal/llm"
	"github.com/user/mleague-analyst/internal/logging"
	"github.com/user/mleague-analyst/internal/metrics"
	"github.com/user/mleague-analyst/internal/pkg/paths"
	"github.com/user/mleague-analyst/internal/repository"
	"github.com/user/mleague-analyst/internal/service"
	"github.com/user/mleague-analyst/internal/version"
	"go.uber.org/zap"
)

const logFile = "mleague-analyst.log"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v":
			fmt.Println(version.Info())
			os.Exit(0)
		case "--init":
			if err := runInit(); err != nil {
				log.Fatalf("init: %v", err)
			}
			os.Exit(0)
		case "--help", "-h":
			printUsage()
			os.Exit(0)
		}
	}
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func printUsage() {
	fmt.Printf("M.League Analyst - %s\n\n", version.Short())
	fmt.Println("Usage: mleague-analyst [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --init         Generate config.example.yaml configuration template")
	fmt.Println("  --version, -v  Show version information")
	fmt.Println("  --help, -h     Show this help message")
	fmt.Println()
	fmt.Println("Without options, starts the chat server.")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  MLEAGUE_CONFIG=path/to/config.yaml selects a YAML file;")
	fmt.Println("  MLEAGUE_<SECTION>__<KEY> environment variables override it.")
	fmt.Println("  OPENAI_API_KEY (or ANTHROPIC_API_KEY) enables answering.")
	fmt.Println("  Fill the cache first with mleague-scraper.")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Server.LogLevel, paths.GetLogDir(), logFile, cfg.LogRotation)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting mleague-analyst",
		zap.String("version", version.Short()),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("db", cfg.Database.Path),
	)

	// The read-only pool cannot create the file, so migrate through a
	// short-lived read-write handle first.
	if err := migrate(cfg.Database.Path, logger); err != nil {
		return err
	}

	readDB, err := database.NewReadOnly(cfg.Database.Path, database.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("init read-only database: %w", err)
	}
	defer readDB.Close()

	leagueRepo := repository.NewLeagueRepository(readDB)
	metricsManager := metrics.NewManager()

	client, err := llm.NewClient(cfg.LLM, logger)
	switch {
	case errors.Is(err, llm.ErrMissingCredential):
		logger.Warn("no API key configured, /chat will answer with a configuration error",
			zap.String("provider", cfg.LLM.Provider))
		client = nil
	case err != nil:
		return fmt.Errorf("init llm client: %w", err)
	default:
		logger.Info("llm client ready",
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", client.Model()))
	}

	chat := service.NewChatService(service.ChatServiceDeps{
		Vocabulary: service.NewVocabularyCache(leagueRepo, cfg.Vocabulary, metricsManager, logger),
		Fetcher:    service.NewDataFetcher(leagueRepo, metricsManager, logger),
		LLM:        client,
		LLMConfig:  cfg.LLM,
		Pipeline:   cfg.Pipeline,
		Metrics:    metricsManager,
		Logger:     logger,
	})

	server := api.NewServer(api.ServerDeps{
		Chat:          chat,
		Inspector:     leagueRepo,
		DB:            readDB,
		DBPath:        cfg.Database.Path,
		LLMConfigured: client != nil,
		Model:         cfg.LLM.Model,
		Metrics:       metricsManager,
		RateLimit:     middleware.NewRateLimitConfig(cfg.RateLimit),
		Logger:        logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("addr", addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func migrate(path string, logger *zap.Logger) error {
	db, err := database.New(path)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
