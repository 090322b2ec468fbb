package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/agents"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/bookings"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/conversation"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/feedback"
	httpmiddleware "github.com/Nishanth-S1142001/rebel-ai-sub003/internal/http/middleware"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/messaging"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	AgentsHandler    *agents.Handler
	ChatHandler      *conversation.Handler
	BookingsHandler  *bookings.Handler
	FeedbackHandler  *feedback.Handler
	MessagingHandler *messaging.Handler
	MetricsHandler   http.Handler

	JWTSecret          string
	CORSAllowedOrigins []string

	// Rate limiting for chat and feedback routes.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MessagingHandler != nil {
			public.Route("/messaging", func(r chi.Router) {
				r.Post("/twilio/webhook", cfg.MessagingHandler.Webhook)
			})
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Authenticated API
	r.Group(func(api chi.Router) {
		api.Use(httpmiddleware.UserJWT(cfg.JWTSecret))

		var rateLimited func(http.Handler) http.Handler
		if cfg.RateLimitPerSecond > 0 {
			rateLimited = httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst, cfg.Logger)
		}

		api.Route("/agents", func(r chi.Router) {
			r.Post("/", cfg.AgentsHandler.Create)
			r.Get("/", cfg.AgentsHandler.List)
			r.Route("/{agentID}", func(r chi.Router) {
				r.Get("/", cfg.AgentsHandler.Get)
				r.Put("/", cfg.AgentsHandler.Update)
				r.Delete("/", cfg.AgentsHandler.Delete)
				if cfg.ChatHandler != nil {
					if rateLimited != nil {
						r.With(rateLimited).Post("/chat", cfg.ChatHandler.Chat)
					} else {
						r.Post("/chat", cfg.ChatHandler.Chat)
					}
				}
				if cfg.BookingsHandler != nil {
					r.Get("/bookings", cfg.BookingsHandler.ListByAgent)
				}
			})
		})

		if cfg.BookingsHandler != nil {
			api.Get("/bookings/{bookingID}", cfg.BookingsHandler.Get)
		}
		if cfg.FeedbackHandler != nil {
			if rateLimited != nil {
				api.With(rateLimited).Post("/feedback", cfg.FeedbackHandler.Submit)
			} else {
				api.Post("/feedback", cfg.FeedbackHandler.Submit)
			}
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
