// Command server starts the résumé×job matching HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	httpserver "github.com/fairyhunter13/resume-job-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-job-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/resume-job-matcher/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-job-matcher/internal/app"
	"github.com/fairyhunter13/resume-job-matcher/internal/config"
	"github.com/fairyhunter13/resume-job-matcher/internal/embedding"
	"github.com/fairyhunter13/resume-job-matcher/internal/feedback"
	"github.com/fairyhunter13/resume-job-matcher/internal/orchestrator"
	"github.com/fairyhunter13/resume-job-matcher/internal/token"
)

// redisPinger adapts *redis.Client's Ping (which returns a *StatusCmd) to
// the app.CachePinger interface's plain error return.
type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	resumeRepo := postgres.NewResumeRepo(pool)
	jobRepo := postgres.NewJobRepo(pool)
	sentenceStore := postgres.NewSentenceStore(pool)

	embedMaxElapsed, embedInitial, embedMaxInterval, embedMultiplier := cfg.GetEmbeddingBackoffConfig()
	embeddingClient := embedding.New(cfg.EmbeddingServiceURL, cfg.EmbeddingTimeout,
		embedding.WithChunking(cfg.EmbeddingMaxChars, cfg.EmbeddingMaxChunks),
		embedding.WithBackoff(embedMaxElapsed, embedInitial, embedMaxInterval, embedMultiplier),
		embedding.WithConcurrency(cfg.EmbeddingConcurrency),
	)

	feedbackClient := feedback.New(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.FeedbackModel, cfg.FeedbackTimeout, cfg.FeedbackMaxTokens)

	tokenCodec := token.NewCodec(cfg.JWTSecretKey)

	var cacheBackend orchestrator.CacheBackend
	var cachePinger app.CachePinger
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid redis url", slog.Any("error", err))
			os.Exit(1)
		}
		redisClient := redis.NewClient(opts)
		defer func() { _ = redisClient.Close() }()
		cacheBackend = orchestrator.NewRedisCacheBackend(redisClient, 10*time.Second)
		cachePinger = redisPinger{client: redisClient}
		slog.Info("sentence cache backed by redis")
	} else {
		slog.Info("sentence cache running in-process only, no redis configured")
	}
	sentenceCache := orchestrator.NewSentenceCache(sentenceStore, cacheBackend)

	orc := &orchestrator.Orchestrator{
		Resumes:          resumeRepo,
		Jobs:             jobRepo,
		Sentences:        sentenceCache,
		Embedding:        embeddingClient,
		Feedback:         feedbackClient,
		Tokens:           tokenCodec,
		AggregateConfig:  cfg.AggregateConfig(),
		AlgorithmVersion: cfg.AlgorithmVersion,
		WorkerPoolSize:   cfg.WorkerPoolSize,
	}

	dbCheck, embeddingCheck, cacheCheck := app.BuildReadinessChecks(cfg, pool, cachePinger)

	srv := httpserver.NewServer(cfg, orc, resumeRepo, jobRepo, sentenceStore, dbCheck, embeddingCheck, cacheCheck)

	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
