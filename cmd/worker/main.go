// Command worker runs an optional async front-end to the orchestrator,
// consuming search_jobs_for_resume tasks so a caller can fan a search
// out to a worker pool instead of blocking the HTTP request goroutine.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fairyhunter13/resume-job-matcher/internal/adapter/observability"
	queueasynq "github.com/fairyhunter13/resume-job-matcher/internal/adapter/queue/asynq"
	"github.com/fairyhunter13/resume-job-matcher/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-job-matcher/internal/config"
	"github.com/fairyhunter13/resume-job-matcher/internal/embedding"
	"github.com/fairyhunter13/resume-job-matcher/internal/feedback"
	"github.com/fairyhunter13/resume-job-matcher/internal/orchestrator"
	"github.com/fairyhunter13/resume-job-matcher/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9090", mux); err != nil {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	if cfg.RedisURL == "" {
		slog.Error("worker requires REDIS_URL to consume the async task queue")
		os.Exit(1)
	}
	redisConnOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid redis url", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := postgres.NewPool(context.Background(), cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
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

	sentenceCache := orchestrator.NewSentenceCache(sentenceStore, nil)
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

	handler := &queueasynq.Handler{Orchestrator: orc}
	mux := queueasynq.NewServeMux(handler)

	srv := asynq.NewServer(redisConnOpt, asynq.Config{
		Concurrency: cfg.WorkerPoolSize,
		Logger:      slogAsynqLogger{},
	})

	slog.Info("starting worker, consuming", slog.String("task_type", queueasynq.TypeSearchJobsForResume))
	if err := srv.Run(mux); err != nil {
		slog.Error("worker error", slog.Any("error", err))
		os.Exit(1)
	}
}

// slogAsynqLogger adapts asynq's logging interface to the process's slog
// default logger.
type slogAsynqLogger struct{}

func (slogAsynqLogger) Debug(args ...interface{}) { slog.Debug(fmtArgs(args)) }
func (slogAsynqLogger) Info(args ...interface{})  { slog.Info(fmtArgs(args)) }
func (slogAsynqLogger) Warn(args ...interface{})  { slog.Warn(fmtArgs(args)) }
func (slogAsynqLogger) Error(args ...interface{}) { slog.Error(fmtArgs(args)) }
func (slogAsynqLogger) Fatal(args ...interface{}) { slog.Error(fmtArgs(args)) }

func fmtArgs(args []interface{}) string {
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			return s
		}
	}
	return fmt.Sprint(args...)
}
