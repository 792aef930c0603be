package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"newslens/internal/analyzer"
	"newslens/internal/collector"
	"newslens/internal/config"
	delivery "newslens/internal/delivery/http"
	"newslens/internal/feeds"
	"newslens/internal/repository"
	"newslens/internal/scheduler"
	"newslens/pkg/logger"
	"newslens/pkg/sqlite"
	"newslens/pkg/telegram"
)

var configPath string

// app bundles everything the commands need after wiring.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *sqlite.DB
	collector *collector.Service
	analyzer  *analyzer.Service
	cpRepo    repository.CheckpointRepository
	artRepo   repository.ArticleRepository
	anRepo    repository.AnalysisRepository
	mediaRepo repository.MediaSourceRepository
	notifier  telegram.Notifier
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := sqlite.NewDB(sqlite.Config{
		Path:          cfg.Database.Path,
		BusyTimeoutMS: cfg.Database.BusyTimeoutMS,
		CacheSizeKB:   cfg.Database.CacheSizeKB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sourceRepo := repository.NewSourceRepository(db.DB)
	artRepo := repository.NewArticleRepository(db.DB)
	anRepo := repository.NewAnalysisRepository(db.DB)
	mediaRepo := repository.NewMediaSourceRepository(db.DB)
	cpRepo := repository.NewCheckpointRepository(db.DB)

	registry := feeds.NewRegistry()
	registry.Register("rss", feeds.NewRSSParser())

	collectorSvc := collector.NewService(cfg.Collector, registry, sourceRepo, artRepo, mediaRepo, appLogger)
	if err := collectorSvc.ValidateSources(); err != nil {
		return nil, fmt.Errorf("invalid collector configuration: %w", err)
	}

	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case "deepseek":
		aiRepo = repository.NewDeepSeekAIRepository(cfg.DeepSeek, cfg.Analyzer.CharsPerToken, appLogger)
	case "gemini":
		aiRepo, err = repository.NewGeminiAIRepository(ctx, cfg.Gemini, cfg.Analyzer.CharsPerToken, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}

	analyzerSvc := analyzer.NewService(cfg.Analyzer, sourceRepo, artRepo, anRepo, aiRepo, appLogger)

	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Warn("Failed to initialize Telegram notifier, continuing without it", logger.ErrorField(err))
			notifier = nil
		}
	}

	return &app{
		cfg:       cfg,
		log:       appLogger,
		db:        db,
		collector: collectorSvc,
		analyzer:  analyzerSvc,
		cpRepo:    cpRepo,
		artRepo:   artRepo,
		anRepo:    anRepo,
		mediaRepo: mediaRepo,
		notifier:  notifier,
	}, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler loop and the read API",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() { _ = a.log.Sync() }()

	a.log.Info("Starting newslens",
		logger.StringField("name", a.cfg.App.Name),
		logger.StringField("version", a.cfg.App.Version))

	sched, err := scheduler.New(a.cfg, a.collector, a.analyzer, a.cpRepo, a.db, a.notifier, a.log)
	if err != nil {
		a.log.Fatal("Failed to initialize scheduler", logger.ErrorField(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	apiV1 := e.Group("/api/v1")
	delivery.NewArticleHandler(a.artRepo, a.log).RegisterRoutes(apiV1.Group("/articles"))
	delivery.NewAnalysisHandler(a.anRepo, a.log).RegisterRoutes(apiV1.Group("/analyses"))
	delivery.NewMediaSourceHandler(a.mediaRepo, a.log).RegisterRoutes(apiV1.Group("/media-sources"))

	go func() {
		addr := fmt.Sprintf("%s:%d", a.cfg.API.Host, a.cfg.API.Port)
		a.log.Info("Read API listening", logger.StringField("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			a.log.Error("Read API stopped", logger.ErrorField(err))
		}
	}()

	schedErr := make(chan error, 1)
	go func() {
		schedErr <- sched.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		a.log.Info("Shutdown signal received")
	case err := <-schedErr:
		if err != nil {
			shutdownServer(e, a)
			a.log.Fatal("Scheduler exited", logger.ErrorField(err))
		}
	}

	shutdownServer(e, a)
	a.log.Info("Shutdown complete")
}

func shutdownServer(e *echo.Echo, a *app) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Read API shutdown failed", logger.ErrorField(err))
	}
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run a single collection pass and exit",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer func() { _ = a.log.Sync() }()

		saved, err := a.collector.Collect(ctx, a.cfg.Collector.Lookback)
		if err != nil {
			a.log.Fatal("Collection failed", logger.ErrorField(err))
		}
		for source, n := range saved {
			a.log.Info("Collection result", logger.StringField("source", source), logger.IntField("saved", n))
		}
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a single analysis pass for the target day and exit",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer func() { _ = a.log.Sync() }()

		target := a.analyzer.TargetDate(time.Now())
		if err := a.analyzer.Analyze(ctx, target); err != nil {
			a.log.Fatal("Analysis failed", logger.ErrorField(err))
		}
	},
}

var seedMediaCmd = &cobra.Command{
	Use:   "seed-media",
	Short: "Register the configured outlets in media_sources and exit",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer func() { _ = a.log.Sync() }()

		seeded, err := a.collector.SeedMediaSources(ctx)
		if err != nil {
			a.log.Fatal("Media source seeding failed", logger.ErrorField(err))
		}
		a.log.Info("Media source seeding completed", logger.IntField("seeded", seeded))
	},
}

var rootCmd = &cobra.Command{
	Use:   "newslens",
	Short: "News feed collector and media analysis service",
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to config file")
	rootCmd.AddCommand(serveCmd, collectCmd, analyzeCmd, seedMediaCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
