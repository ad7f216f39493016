package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lexaid/lexaid-ai-platform/internal/http/handlers"
	httpmiddleware "github.com/lexaid/lexaid-ai-platform/internal/http/middleware"
	"github.com/lexaid/lexaid-ai-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Privacy            *handlers.PrivacyHandler
	Compliance         *handlers.ComplianceHandler
	Chat               *handlers.ChatHandler
	AdminAudit         *handlers.AdminAuditHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimitPerSecond caps per-IP request rate on the API routes.
	// Zero disables rate limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// API endpoints
	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimitPerSecond > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		}

		if cfg.Privacy != nil {
			api.Route("/privacy", func(r chi.Router) {
				r.Post("/detect", cfg.Privacy.Detect)
				r.Post("/redact", cfg.Privacy.Redact)
				if cfg.Compliance != nil {
					r.Post("/bias", cfg.Compliance.Bias)
					r.Post("/gdpr", cfg.Compliance.GDPR)
					r.Post("/policy", cfg.Compliance.Policy)
				}
			})
		}

		if cfg.Chat != nil {
			api.Post("/chat", cfg.Chat.Send)
			api.Get("/chat/{sessionID}/history", cfg.Chat.History)
			api.Delete("/chat/{sessionID}", cfg.Chat.Forget)
		}
	})

	// Admin endpoints (JWT protected)
	if cfg.AdminAudit != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/audit/events", cfg.AdminAudit.ListEvents)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
