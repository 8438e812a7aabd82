package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/suPer8Hu/health-chat/internal/ai"
	"github.com/suPer8Hu/health-chat/internal/chat"
	"github.com/suPer8Hu/health-chat/internal/config"
	"github.com/suPer8Hu/health-chat/internal/db"
	"github.com/suPer8Hu/health-chat/internal/httpapi"
	"github.com/suPer8Hu/health-chat/internal/httpapi/handlers"
	"github.com/suPer8Hu/health-chat/internal/observability"
	"github.com/suPer8Hu/health-chat/internal/store/rabbitmq"
	"github.com/suPer8Hu/health-chat/internal/store/redisstore"
)

func newRegistry(cfg config.Config) *ai.Registry {
	reg := ai.NewRegistry()

	reg.Register("gemini", func(ctx context.Context, model string) (ai.Provider, error) {
		return ai.NewGeminiProvider(ctx, cfg.GeminiAPIKey, model)
	})
	reg.Register("anthropic", func(_ context.Context, model string) (ai.Provider, error) {
		return ai.NewAnthropicProvider(cfg.AnthropicAPIKey, model)
	})
	reg.Register("ollama", func(_ context.Context, model string) (ai.Provider, error) {
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})
	reg.Register("openrouter", func(_ context.Context, model string) (ai.Provider, error) {
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OpenRouterModel
		}
		return ai.NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, m,
			cfg.OpenRouterSiteURL, cfg.OpenRouterAppName), nil
	})
	return reg
}

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb := db.Connect(cfg.DBDriver, cfg.DBDSN)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics("healthchat", promReg)

	provider, err := newRegistry(cfg).Get(ctx, cfg.AIProvider, cfg.AIModel)
	if err != nil {
		log.Fatalf("ai provider: %v", err)
	}
	if closer, ok := provider.(io.Closer); ok {
		defer closer.Close()
	}
	log.Printf("ai provider=%s model=%q timeout=%s", cfg.AIProvider, cfg.AIModel, cfg.AITimeout)

	opts := chat.Options{
		HistoryLimit: cfg.ChatHistoryLimit,
		Metrics:      metrics,
	}

	if cfg.RedisAddr != "" {
		cache := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := cache.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		defer cache.Close()
		opts.Cache = cache
		log.Printf("history cache enabled addr=%s", cfg.RedisAddr)
	}

	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Fatalf("rabbit publisher: %v", err)
		}
		defer pub.Close()
		opts.Events = pub
		log.Printf("turn events enabled queue=%s", cfg.RabbitQueue)
	}

	sessions := chat.NewSessionStore(
		chat.NewSessionFactory(provider, cfg.AITimeout),
		cfg.SessionCapacity,
		cfg.SessionIdleTTL,
		metrics,
	)
	svc := chat.NewService(chat.NewRepo(gdb), sessions, opts)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handlers.NewHandler(svc), cfg, metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("http listening addr=%s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
