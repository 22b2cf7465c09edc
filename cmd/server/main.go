package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"moodline.app/pulse/common/id"
	"moodline.app/pulse/common/llm"
	"moodline.app/pulse/common/logger"
	"moodline.app/pulse/common/otel"
	"moodline.app/pulse/core/config"
	"moodline.app/pulse/core/db"
	"moodline.app/pulse/internal/cache"
	"moodline.app/pulse/internal/classifier"
	"moodline.app/pulse/internal/http/middleware"
	httprouter "moodline.app/pulse/internal/http/router"
	"moodline.app/pulse/internal/metrics"
	"moodline.app/pulse/internal/queue"
	"moodline.app/pulse/internal/service"
	"moodline.app/pulse/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "pulse api starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Queue.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Queue.RedisStream)

	producer := queue.NewRedisProducer(redisClient, cfg.Queue.RedisStream, nil)
	defer producer.Close()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		slog.ErrorContext(ctx, "failed to register metrics", "error", err)
		os.Exit(1)
	}

	services := buildServices(ctx, cfg, database, redisClient, producer)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func buildServices(ctx context.Context, cfg config.Config, database *db.DB, redisClient *redis.Client, producer queue.Producer) *service.Services {
	stores := store.NewStores(database.Pool())

	var cacheProvider cache.Provider = cache.NoopProvider{}
	if cfg.Cache.Enabled() {
		cacheProvider = cache.NewRedisProvider(redisClient)
		slog.InfoContext(ctx, "trend report cache enabled", "ttl_seconds", cfg.Cache.TTLSeconds)
	}

	return service.NewServices(
		stores,
		buildClassifier(ctx, cfg.Classifier),
		buildReplies(ctx, cfg.ReplyLLM),
		buildSummaryLLM(ctx, cfg.SummaryLLM),
		producer,
		cacheProvider,
		cfg.Analytics,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		cfg.SummaryLLM.MaxTokens,
	)
}

// buildClassifier prefers the structured-output OpenAI classifier and falls
// back to the offline lexicon when no usable key is configured.
func buildClassifier(ctx context.Context, cfg config.ClassifierConfig) classifier.Classifier {
	if cfg.Enabled() {
		client, err := llm.New(llm.Config{
			Provider: cfg.Provider,
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
		})
		if err == nil {
			slog.InfoContext(ctx, "openai classifier configured", "model", cfg.Model)
			return classifier.NewOpenAI(client)
		}
		slog.WarnContext(ctx, "classifier llm unavailable, falling back to lexicon", "error", err)
	} else {
		slog.InfoContext(ctx, "no classifier configured, using lexicon classifier")
	}
	return classifier.NewLexicon()
}

func buildReplies(ctx context.Context, cfg config.LLMConfig) service.ReplyGenerator {
	if !cfg.Enabled() {
		slog.InfoContext(ctx, "no reply llm configured, echoing user messages")
		return service.NewDisabledReplyGenerator()
	}

	client, err := llm.NewChatClient(llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
	})
	if err != nil {
		slog.WarnContext(ctx, "reply llm unavailable, echoing user messages", "error", err)
		return service.NewDisabledReplyGenerator()
	}

	slog.InfoContext(ctx, "reply llm configured", "provider", cfg.Provider, "model", cfg.Model)
	return service.NewReplyGenerator(client, cfg.MaxTokens)
}

// buildSummaryLLM returns nil when the rewrite is not configured; the
// analytics service then keeps its template summaries.
func buildSummaryLLM(ctx context.Context, cfg config.LLMConfig) llm.ChatClient {
	if !cfg.Enabled() {
		return nil
	}

	client, err := llm.NewChatClient(llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
	})
	if err != nil {
		slog.WarnContext(ctx, "summary llm unavailable, keeping template summaries", "error", err)
		return nil
	}

	slog.InfoContext(ctx, "summary llm configured", "provider", cfg.Provider, "model", cfg.Model)
	return client
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services)

	return router
}

const banner = `
██████╗ ██╗   ██╗██╗     ███████╗███████╗
██╔══██╗██║   ██║██║     ██╔════╝██╔════╝
██████╔╝██║   ██║██║     ███████╗█████╗
██╔═══╝ ██║   ██║██║     ╚════██║██╔══╝
██║     ╚██████╔╝███████╗███████║███████╗
╚═╝      ╚═════╝ ╚══════╝╚══════╝╚══════╝
`
