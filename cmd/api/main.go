package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/lexaid/lexaid-ai-platform/cmd/mainconfig"
	"github.com/lexaid/lexaid-ai-platform/internal/api/router"
	"github.com/lexaid/lexaid-ai-platform/internal/chat"
	"github.com/lexaid/lexaid-ai-platform/internal/compliance"
	appconfig "github.com/lexaid/lexaid-ai-platform/internal/config"
	"github.com/lexaid/lexaid-ai-platform/internal/http/handlers"
	"github.com/lexaid/lexaid-ai-platform/internal/llm"
	"github.com/lexaid/lexaid-ai-platform/internal/observability/metrics"
	"github.com/lexaid/lexaid-ai-platform/internal/privacy"
	"github.com/lexaid/lexaid-ai-platform/pkg/logging"
)

func main() {
	// Load .env for local development; absence is fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lexaid-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
	)

	ctx := context.Background()

	client, err := buildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize model client", "error", err)
		os.Exit(1)
	}
	if client == nil {
		logger.Warn("no model client configured, running pattern-only")
	}

	privacyMetrics := metrics.NewPrivacyMetrics(nil)

	var heuristic *privacy.HeuristicAdapter
	if client != nil {
		heuristic = privacy.NewHeuristicAdapter(client, privacy.HeuristicConfig{
			Model:       collaboratorModel(cfg),
			PrefixLimit: cfg.CollaboratorPrefix,
			Timeout:     cfg.CollaboratorTimeout,
		}, logger)
	}
	engine := privacy.NewEngine(heuristic, privacyMetrics, logger)

	var analyzer *compliance.Analyzer
	if client != nil {
		analyzerModel := cfg.AnalyzerModelID
		if analyzerModel == "" {
			analyzerModel = collaboratorModel(cfg)
		}
		analyzer = compliance.NewAnalyzer(client, compliance.AnalyzerConfig{
			Model:       analyzerModel,
			PrefixLimit: cfg.AnalyzerPrefixLimit,
			Timeout:     cfg.AnalyzerTimeout,
		}, logger)
	}

	db := connectPostgres(cfg.DatabaseURL, logger)
	if db != nil {
		defer func() { _ = db.Close() }()
	}
	auditService := compliance.NewAuditService(db)

	redisClient := connectRedis(cfg)
	transcriptStore := chat.NewTranscriptStore(redisClient)
	chatService := chat.NewService(transcriptStore, client, engine, collaboratorModel(cfg), logger)

	routerCfg := &router.Config{
		Logger:             logger,
		Privacy:            handlers.NewPrivacyHandler(engine, auditService, logger),
		Chat:               handlers.NewChatHandler(chatService, logger),
		AdminAudit:         handlers.NewAdminAuditHandler(auditService, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: 10,
		RateLimitBurst:     20,
	}
	if analyzer != nil {
		routerCfg.Compliance = handlers.NewComplianceHandler(analyzer, auditService, logger)
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
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

// buildLLMClient wires the configured provider, preferring a fallback chain
// when both Bedrock and Gemini are available.
func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (llm.Client, error) {
	var bedrock llm.Client
	if cfg.LLMProvider == "bedrock" || cfg.LLMProvider == "auto" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		bedrock = llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg))
	}

	var gemini llm.Client
	if cfg.GeminiAPIKey != "" && (cfg.LLMProvider == "gemini" || cfg.LLMProvider == "auto") {
		g, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		gemini = g
	}

	switch {
	case bedrock != nil && gemini != nil:
		return llm.NewFallbackClient(bedrock, gemini, logger), nil
	case bedrock != nil:
		return bedrock, nil
	case gemini != nil:
		return gemini, nil
	default:
		return nil, nil
	}
}

func collaboratorModel(cfg *appconfig.Config) string {
	if cfg.CollaboratorModelID != "" {
		return cfg.CollaboratorModelID
	}
	if cfg.LLMProvider == "gemini" {
		return cfg.GeminiModelID
	}
	return cfg.BedrockModelID
}

func connectPostgres(databaseURL string, logger *logging.Logger) *sql.DB {
	if databaseURL == "" {
		logger.Warn("DATABASE_URL not set, audit logging disabled")
		return nil
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		logger.Error("failed to open postgres connection", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to ping postgres", "error", err)
		_ = db.Close()
		return nil
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db
}

func connectRedis(cfg *appconfig.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}
