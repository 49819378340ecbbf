package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vntrieu/deception/internal/config"
	"github.com/vntrieu/deception/internal/games"
	"github.com/vntrieu/deception/internal/httpapi"
	"github.com/vntrieu/deception/internal/logger"
	"github.com/vntrieu/deception/internal/narrative"
	"github.com/vntrieu/deception/internal/prefs"
	"github.com/vntrieu/deception/internal/ratelimit"
	"github.com/vntrieu/deception/internal/session"
	"github.com/vntrieu/deception/internal/store"
	"github.com/vntrieu/deception/internal/websocket"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lgr := logger.Init(cfg.Env, cfg.LogLevel)
	defer lgr.Sync()

	var gen narrative.Generator = narrative.Disabled{}
	var clues narrative.ClueEvaluator = narrative.Disabled{}
	if cfg.NarrativeURL != "" {
		client := narrative.NewClient(cfg.NarrativeURL, cfg.NarrativeAPIKey)
		gen, clues = client, client
	}

	hub := websocket.NewHub(lgr)
	go hub.Run()

	prefStore := prefs.Open(cfg.PrefsPath, lgr)
	defaultSettings := prefStore.RoomSettings()

	manager := session.NewManager(store.NewRoomStore(nil), games.DefaultConfig(), hub, session.Options{
		TickInterval: time.Second,
		Settings:     &defaultSettings,
		Narrative:    gen,
		Clues:        clues,
		Logger:       lgr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.StartJanitor(ctx, cfg.JanitorInterval, cfg.RoomIdleTimeout)

	// Room creation and chat wear very different traffic; size their
	// buckets separately.
	var limiter, chatLimiter ratelimit.Limiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = ratelimit.NewTokenBucket(cfg.RateLimitPerMinute, time.Minute)
		chatLimiter = ratelimit.NewTokenBucket(cfg.RateLimitPerMinute*6, time.Minute)
	}

	tokenSecret := []byte(cfg.TokenSecret)
	wsHandler := websocket.NewWSHandler(hub, manager, tokenSecret, chatLimiter, lgr)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Manager:        manager,
		WSHandler:      wsHandler,
		TokenSecret:    tokenSecret,
		RateLimiter:    limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		Prefs:          prefStore,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		lgr.Info("deception backend listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lgr.Fatal("http server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lgr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
