package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cutekitek/rankode-judge/internal/config"
	"github.com/cutekitek/rankode-judge/internal/files"
	"github.com/cutekitek/rankode-judge/internal/handler"
	"github.com/cutekitek/rankode-judge/internal/rabbitmq"
	"github.com/cutekitek/rankode-judge/internal/runner/judge0"
	"github.com/cutekitek/rankode-judge/internal/store"
	"github.com/cutekitek/rankode-judge/internal/validator"
	"github.com/redis/go-redis/v9"
)

func panicErr(err error) {
	if err != nil {
		panic(err)
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "info":
		slog.SetLogLoggerLevel(slog.LevelInfo)
	case "warn":
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		slog.SetLogLoggerLevel(slog.LevelError)
	default:
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}
}

func main() {
	cfg, err := config.NewConfig()
	panicErr(err)
	setLogLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := judge0.NewClient(judge0.ClientConfig{
		BaseURL:        cfg.Judge0URL,
		APIKey:         cfg.Judge0APIKey,
		APIHost:        cfg.Judge0APIHost,
		RequestTimeout: cfg.Judge0RequestTimeout,
		PollInterval:   cfg.Judge0PollInterval,
		PollAttempts:   cfg.Judge0PollAttempts,
	}, nil)

	fileStorage, err := files.NewFileStorage(files.Config{
		Url:      cfg.MinIOHost,
		Login:    cfg.MinIOLogin,
		Password: cfg.MinIOPassword,
		Bucket:   cfg.MinIOBucket,
		Secure:   cfg.MinIOSecure,
	})
	panicErr(err)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Warn("redis is unavailable, validation statuses will not be stored", "error", err)
	}
	statuses := store.NewRedisStatusStore(redisClient, cfg.StatusTTL)

	proc := rabbitmq.NewProcessor(validator.NewValidator(client), fileStorage, statuses)
	listener := rabbitmq.NewRabbitMQHandler(rabbitmq.RabbitMqHandlerConfig{
		Login:        cfg.RabbitMQUser,
		Password:     cfg.RabbitMQPassword,
		Host:         cfg.RabbitMQHost,
		Port:         cfg.RabbitMQPort,
		WorkersCount: cfg.WorkersCount,
	}, proc)

	jobsCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	panicErr(listener.Start(jobsCtx))

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewHandler(statuses).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	slog.Info("app started", "workers", cfg.WorkersCount, "http", cfg.HTTPAddr)
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to stop http server", "error", err)
	}
	listener.Close()
}
