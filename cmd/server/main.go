package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shortscope-backend/internal/config"
	"shortscope-backend/internal/database"
	"shortscope-backend/internal/handlers"
	"shortscope-backend/internal/middleware"
	"shortscope-backend/internal/router"
	"shortscope-backend/internal/services"
	"shortscope-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting ShortScope Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✗ Configuration error: %v", err)
	}
	log.Println("✓ Environment variables loaded")

	ctx := context.Background()

	// ──── Step 2: Initialize Redis Clients (optional) ────
	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		redisClients, err = database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClients.Close()
		log.Println("✓ Redis connected")
	} else {
		log.Println("  Redis not configured, using in-process rate limiting and progress")
	}

	// ──── Step 3: Initialize YouTube Client ────
	yt, err := services.NewYouTubeClient(ctx, cfg.YouTubeAPIKey, cfg.YouTubeRequestsPerSec)
	if err != nil {
		log.Fatalf("✗ YouTube client initialization failed: %v", err)
	}
	log.Println("✓ YouTube Data API client initialized")

	// ──── Step 4: Initialize Sheets Export (optional) ────
	var sheetWriter services.SheetWriter
	if cfg.ExportEnabled() {
		w, err := services.NewSheetsWriter(ctx, cfg.GoogleServiceAccount)
		if err != nil {
			log.Fatalf("✗ Sheets client initialization failed: %v", err)
		}
		sheetWriter = w
		log.Println("✓ Sheets export enabled")
	} else {
		log.Println("  Sheets export disabled (GOOGLE_SA_JSON, SHEETS_PARENT_SPREADSHEET_ID)")
	}
	exporter := services.NewExporter(sheetWriter, cfg.SpreadsheetID)

	// ──── Step 5: Start WebSocket Hub ────
	var hub *websocket.Hub
	if redisClients != nil {
		hub = websocket.NewHub(redisClients.PubSub)
	} else {
		hub = websocket.NewHub(nil)
	}
	log.Println("✓ WebSocket hub started")

	// ──── Initialize Services ────
	analyzer := services.NewAnalyzer(yt, yt, yt, services.AnalyzerConfig{
		PageSize:    services.MaxPageSize,
		BatchSize:   services.MaxBatchSize,
		Concurrency: cfg.DetailFetchConcurrency,
		Weights:     services.ScoreWeights{Views: cfg.ScoreViewWeight, Likes: cfg.ScoreLikeWeight},
	}, services.WithProgress(hub))

	// ──── Initialize Handlers ────
	searchHandler := handlers.NewSearchHandler(analyzer, exporter, hub, cfg.RequestTimeout)
	exportHandler := handlers.NewExportHandler(exporter)
	metaHandler := handlers.NewMetaHandler()

	var limiter middleware.Limiter
	if redisClients != nil {
		limiter = middleware.NewRedisRateLimiter(redisClients.Commands, cfg.RateLimitPerMinute, time.Minute)
	} else {
		memLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		defer memLimiter.Close()
		limiter = memLimiter
	}

	// ──── Step 6: Start HTTP Server ────
	r := router.New(searchHandler, exportHandler, metaHandler, hub.HandleWebSocket, router.Options{
		AllowedOrigin: cfg.AllowedOrigin,
		WebhookSecret: cfg.WebhookSecret,
		APILimiter:    limiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	if cfg.WebhookSecret == "" {
		log.Println("  Webhook disabled (WEBHOOK_SECRET not set)")
	}
	log.Printf("✓ ShortScope Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/search_shorts", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws?run_id=<uuid>", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
