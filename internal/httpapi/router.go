package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vntrieu/deception/internal/httpapi/handler"
	"github.com/vntrieu/deception/internal/prefs"
	"github.com/vntrieu/deception/internal/ratelimit"
	"github.com/vntrieu/deception/internal/session"
	"github.com/vntrieu/deception/internal/websocket"
)

// RouterConfig collects the collaborators the router wires together.
type RouterConfig struct {
	Manager     *session.Manager
	WSHandler   *websocket.WSHandler
	TokenSecret []byte

	// RateLimiter guards room create/join by IP; nil disables limiting.
	RateLimiter ratelimit.Limiter

	// AllowedOrigins for CORS; empty allows every origin (dev mode).
	AllowedOrigins []string

	// Prefs is the stored host profile backing create-room defaults;
	// nil disables it.
	Prefs *prefs.Store
}

// NewRouter builds the root HTTP router with basic middleware, the room
// REST endpoints, and the room websocket route.
func NewRouter(cfg RouterConfig) http.Handler {
	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", handler.Healthz)

	// Per-room WebSocket (token auth; all game actions flow through it)
	r.Get("/ws/rooms/{code}", cfg.WSHandler.HandleRoomWebSocket)

	rateLimitByIP := RateLimitMiddleware(limiter, RateLimitKeyByIP)

	roomHandler := handler.NewRoomHandler(cfg.Manager, cfg.TokenSecret, cfg.Prefs)
	r.Route("/api/rooms", func(r chi.Router) {
		r.Use(LimitRequestBody(DefaultMaxBodyBytes))
		r.With(rateLimitByIP).Post("/", roomHandler.CreateRoom)
		r.Get("/{code}", roomHandler.GetRoom)
		r.With(rateLimitByIP).Post("/{code}/join", roomHandler.JoinRoom)
	})

	return r
}

// DefaultRateLimiter returns an in-memory rate limiter for create/join/chat:
// 20 requests per minute per IP. For multi-instance, replace with a shared backend.
func DefaultRateLimiter() ratelimit.Limiter {
	return ratelimit.NewTokenBucket(20, time.Minute)
}
