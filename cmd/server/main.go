package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmursyidd/pesanin/internal/config"
	httpHandler "github.com/mmursyidd/pesanin/internal/delivery/http"
	"github.com/mmursyidd/pesanin/internal/delivery/ws"
	"github.com/mmursyidd/pesanin/internal/metrics"
	"github.com/mmursyidd/pesanin/internal/middleware"
	"github.com/mmursyidd/pesanin/internal/pubsub"
	"github.com/mmursyidd/pesanin/internal/registry"
	"github.com/mmursyidd/pesanin/internal/store"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	// Reload config after loading .env
	config.AppConfig = config.LoadFromEnv()
	cfg := config.AppConfig

	if cfg.LogLevel == "silent" || cfg.LogLevel == "off" {
		log.SetOutput(io.Discard)
	}

	// Initialize dependencies
	bus := pubsub.New()
	reg := registry.New()
	st := store.New()
	router := ws.NewRouter(reg, st, bus, cfg.MaxFrameSize)
	handler := httpHandler.NewHandler(router)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	collector := metrics.NewCollector(promReg)
	collector.Attach(bus)

	// Rate limiters
	wsLimiter := middleware.NewIPRateLimiter(cfg.RateLimitWS, 10)
	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAPI, 20)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", middleware.RateLimitFunc(wsLimiter, handler.HandleWebSocket))
	mux.HandleFunc("/health", middleware.RateLimitFunc(apiLimiter, handler.HandleHealth))
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

	securedHandler := middleware.SecurityHeaders(mux)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      securedHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("pesanin relay running at http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
