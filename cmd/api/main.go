package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/cmd/mainconfig"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/agents"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/api/router"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/booking"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/bookings"
	appconfig "github.com/Nishanth-S1142001/rebel-ai-sub003/internal/config"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/conversation"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/feedback"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/knowledge"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/messaging"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/notify"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/observability/metrics"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking agents API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	chatMetrics := metrics.NewChatMetrics(registry)

	agentsRepo := agents.NewPostgresRepository(pool)

	notifier := notify.NewService(buildEmailSender(ctx, cfg, logger), buildSMSSender(cfg, logger), logger)

	bookingsRepo := bookings.NewRepository(pool)
	bookingsService := bookings.NewService(bookingsRepo, notifier, logger)

	sessionStore := booking.NewSessionStore(redisClient, cfg.BookingSessionTTL)
	flow := booking.NewController(sessionStore, bookingsService, logger)

	var searcher knowledge.Searcher = knowledge.NoopSearcher{}
	if cfg.KnowledgeBaseURL != "" {
		kbClient, err := knowledge.NewHTTPClient(knowledge.Config{
			BaseURL: cfg.KnowledgeBaseURL,
			APIKey:  cfg.KnowledgeBaseAPIKey,
		})
		if err != nil {
			logger.Error("failed to create knowledge base client", "error", err)
			os.Exit(1)
		}
		searcher = kbClient
	} else {
		logger.Warn("KNOWLEDGE_BASE_URL not set, knowledge retrieval disabled")
	}

	if cfg.GeminiAPIKey == "" {
		logger.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	llmClient, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	if err != nil {
		logger.Error("failed to create LLM client", "error", err)
		os.Exit(1)
	}
	defer func() { _ = llmClient.Close() }()

	historyStore := conversation.NewHistoryStore(redisClient, conversation.DefaultHistoryTTL)
	chatService := conversation.NewService(
		agentsRepo,
		flow,
		historyStore,
		llmClient,
		searcher,
		conversation.LLMSettings{
			Model:       cfg.GeminiModelID,
			MaxTokens:   int32(cfg.LLMMaxTokens),
			Temperature: float32(cfg.LLMTemperature),
		},
		chatMetrics,
		logger,
	)

	agentsHandler := agents.NewHandler(agentsRepo, logger)
	chatHandler := conversation.NewHandler(chatService, logger)
	bookingsHandler := bookings.NewHandler(bookingsRepo, logger)
	feedbackHandler := feedback.NewHandler(feedback.NewRepository(pool), logger)

	var messagingHandler *messaging.Handler
	if cfg.TwilioAgentID != "" {
		messagingHandler = messaging.NewHandler(messaging.HandlerConfig{
			AuthToken:          cfg.TwilioAuthToken,
			WebhookURL:         strings.TrimRight(cfg.PublicBaseURL, "/") + "/messaging/twilio/webhook",
			AgentID:            cfg.TwilioAgentID,
			SkipSignatureCheck: cfg.Env == "development",
		}, chatService, chatMetrics, logger)
	} else {
		logger.Warn("TWILIO_AGENT_ID not set, inbound SMS disabled")
	}

	r := router.New(&router.Config{
		Logger:           logger,
		AgentsHandler:    agentsHandler,
		ChatHandler:      chatHandler,
		BookingsHandler:  bookingsHandler,
		FeedbackHandler:  feedbackHandler,
		MessagingHandler: messagingHandler,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),

		JWTSecret:          cfg.JWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildEmailSender picks the configured email provider, falling back to the
// stub sender that only logs.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("sendgrid selected but not configured, falling back to stub email sender")
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("ses selected but not configured, falling back to stub email sender")
	}
	return notify.NewStubEmailSender(logger)
}

// buildSMSSender returns a Twilio sender when credentials are present.
func buildSMSSender(cfg *appconfig.Config, logger *logging.Logger) notify.SMSSender {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
		logger.Warn("twilio credentials not set, SMS notifications disabled")
		return nil
	}
	return messaging.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
}
