package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"rivalscan/internal/config"
	"rivalscan/internal/handler"
	"rivalscan/internal/metrics"
	"rivalscan/pkg/analysis"
	"rivalscan/pkg/logger"
	"rivalscan/pkg/ratelimit"
	"rivalscan/pkg/serp"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (optional, env vars and defaults otherwise)")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	// Local development convenience only; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.NewManager().Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Logger.Level
	if *debug {
		level = "debug"
	}
	log := logger.New(logger.Config{
		Level:      level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	logger.SetGlobalLogger(log)
	log = log.Component("main")

	serperClient := serp.NewSerperClient(serp.SerperConfig{
		Endpoint:   cfg.Serper.Endpoint,
		APIKey:     cfg.Serper.APIKey,
		Timeout:    cfg.Serper.Timeout(),
		MaxRetries: cfg.Serper.MaxRetries,
		RetryDelay: cfg.Serper.RetryDelay(),
		CacheTTL:   cfg.Serper.CacheTTL(),
		CacheSize:  cfg.Serper.CacheSize,
	})
	client := metrics.InstrumentSerpClient(serperClient)

	if !serperClient.Configured() {
		log.Warn("SERPER API key not set, analyses will return serper_not_configured")
	}

	engine := analysis.NewEngine(client, ratelimit.NewGate(cfg.Analysis.RequestInterval()), analysis.Options{
		Region:            cfg.Serper.Region,
		ResultCount:       cfg.Serper.ResultCount,
		KeywordLimit:      cfg.Analysis.KeywordLimit,
		PositionWindow:    cfg.Analysis.PositionWindow,
		MinSharedKeywords: cfg.Analysis.MinSharedKeywords,
		MinOverlapPercent: cfg.Analysis.MinOverlapPercent,
		MaxCompetitors:    cfg.Analysis.MaxCompetitors,
	})

	app := fiber.New(fiber.Config{
		AppName:      "rivalscan",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Analysis.RequestTimeout() + 30*time.Second,
	})
	app.Use(recover.New())

	handler.New(engine, client, cfg.Analysis.RequestTimeout()).Register(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	g.Go(func() error {
		log.WithField("addr", addr).Info("Starting server")
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server exited with error")
		os.Exit(1)
	}
}
