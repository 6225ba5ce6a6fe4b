package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mukul54/where-do-i-publish/config"
	"github.com/mukul54/where-do-i-publish/internal/analyzer"
	"github.com/mukul54/where-do-i-publish/internal/handler"
	"github.com/mukul54/where-do-i-publish/internal/loader"
	"github.com/mukul54/where-do-i-publish/internal/metrics"
	"github.com/mukul54/where-do-i-publish/internal/source"
)

func main() {
	// Load .env if present.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	ldr := loader.New(loader.Options{
		MaxAttempts:   cfg.LoadMaxAttempts,
		GrowthTimeout: cfg.GrowthTimeout,
		SettleDelay:   cfg.SettleDelay,
		Logger:        logger,
	})
	anl := analyzer.New(ldr, logger, m)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	factory := func(ctx context.Context, user string) (source.Source, error) {
		src, err := source.NewScholarSource(user, source.ScholarOptions{
			BaseURL: cfg.ScholarBaseURL,
			Client:  httpClient,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		if err := src.Open(ctx); err != nil {
			return nil, err
		}
		return src, nil
	}

	venueHandler := handler.NewVenueHandler(anl, factory, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(corsMiddleware)
	venueHandler.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
