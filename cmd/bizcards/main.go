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

	"bizcards/internal/geocode"
	"bizcards/internal/notify"
	"bizcards/internal/session"
	"bizcards/internal/views"
	"bizcards/internal/web"
	rredis "bizcards/pkg/redis"
	"bizcards/pkg/rest"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 1. Configuration ──
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
	ttl := duration("SESSION_TTL", session.DefaultTTL)
	timeout := duration("HTTP_TIMEOUT", 15*time.Second)

	// ── 2. Redis (optional) ──
	var redisClient *rredis.Client
	if addr := env("REDIS_ADDR", ""); addr != "" {
		c, err := rredis.NewClient(addr)
		if err != nil {
			log.Fatal(err)
		}
		defer c.Close()
		redisClient = c
	}

	// ── 3. Backend client ──
	api := rest.NewClient(env("BIZCARDS_API", "http://localhost:8181/api"), timeout)

	// ── 4. Geocoder ──
	var cache geocode.Cache
	if redisClient != nil {
		cache = redisClient
	}
	var locator views.Locator = geocode.NewClient(env("GEOCODER_URL", geocode.DefaultURL), timeout, cache)

	// ── 5. Sessions + notification hub ──
	var sessions *session.Manager
	hub := notify.NewHub(func(r *http.Request) (string, bool) { return web.SessionOf(sessions)(r) })
	sessions = session.NewManager(session.Deps{
		API:      api,
		Redis:    redisClient,
		Hub:      hub,
		Geocoder: locator,
		TTL:      ttl,
	})
	sessions.Start(ctx, time.Minute)

	// ── 6. HTTP router ──
	r := web.NewRouter(sessions, hub)

	// ── 7. Start server ──
	port := env("PORT", "8080")
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		log.Printf("bizcards listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// ── 8. Graceful shutdown ──
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	srv.Shutdown(shutCtx)
	cancel() // stop the session sweeper
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	v := env(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
