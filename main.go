package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock_tracker_backend/config"
	"stock_tracker_backend/routes"
	"stock_tracker_backend/services/marketdata"
	"stock_tracker_backend/services/predictor"
	"stock_tracker_backend/services/stream"
	"stock_tracker_backend/services/tracker"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("==============================================")
	log.Println("  Stock Tracker Backend - Starting...")
	log.Println("==============================================")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Config load issue: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Build the data pipeline: providers -> cache -> market data source ->
	// predictor -> tracking scheduler -> stream hub
	cache := marketdata.NewQuoteCache(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	source := marketdata.NewService(cache, cfg.UseMockData, buildProviders(cfg)...)
	if cfg.UseMockData {
		log.Println("Mock data mode enabled, provider network calls are skipped")
	}

	hub := stream.NewHub()
	trackerService := tracker.NewService(source, predictor.New(), tracker.Config{
		RefreshInterval:    time.Duration(cfg.RefreshIntervalSeconds) * time.Second,
		SeriesPoints:       cfg.SeriesPoints,
		PredictionsEnabled: cfg.PredictionsEnabled,
		OnRefresh:          hub.BroadcastSnapshots,
	})

	// Create Gin router
	router := gin.New()

	// Add middlewares
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestLogger())

	setupHealthEndpoints(router)
	routes.SetupRoutes(router, trackerService, hub)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	go func() {
		log.Printf("Server listening on 0.0.0.0:%s", cfg.Port)
		log.Println("==============================================")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(server, trackerService, hub)
}

// buildProviders assembles the provider fallback chain from configuration.
// Providers without an API key are skipped; with no usable provider the
// market data source serves synthetic data only.
func buildProviders(cfg *config.Config) []marketdata.Provider {
	var providers []marketdata.Provider
	if cfg.PrimaryProviderAPIKey != "" {
		providers = append(providers,
			marketdata.NewAlphaVantageProvider(cfg.PrimaryProviderURL, cfg.PrimaryProviderAPIKey, 10*time.Second))
	}
	if cfg.SecondaryProviderAPIKey != "" {
		providers = append(providers,
			marketdata.NewFinnhubProvider(cfg.SecondaryProviderURL, cfg.SecondaryProviderAPIKey, 10*time.Second))
	}
	if len(providers) == 0 && !cfg.UseMockData {
		log.Println("No provider API keys configured, all fetches will fall back to synthetic data")
	}
	return providers
}

// setupHealthEndpoints sets up health check endpoints
func setupHealthEndpoints(router *gin.Engine) {
	// Root endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Stock Tracker Backend",
			"version": "1.0.0",
		})
	})

	// Liveness probe - always returns OK if server is running
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}

// corsMiddleware returns a CORS middleware handler
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger returns a request logging middleware
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip logging for health checks to reduce noise
		path := c.Request.URL.Path
		if path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		// Only log errors or slow requests
		if c.Writer.Status() >= 400 || duration > 1*time.Second {
			log.Printf("%s %s %d %v", c.Request.Method, path, c.Writer.Status(), duration)
		}
	}
}

// gracefulShutdown handles graceful shutdown of the server
func gracefulShutdown(server *http.Server, trackerService *tracker.Service, hub *stream.Hub) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-quit
	log.Printf("Received signal %v, shutting down gracefully...", sig)

	// Stop the refresh interval first, then drop WebSocket clients
	trackerService.Stop()
	hub.Shutdown()

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
