package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"view-tracker/internal/adapter"
	"view-tracker/internal/config"
	"view-tracker/internal/handler"
	"view-tracker/internal/middleware"
	"view-tracker/internal/repository/sqlite"
	"view-tracker/internal/seed"
	"view-tracker/internal/service"
	"view-tracker/internal/task"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Log configuration (excluding secrets)
	cfg.LogConfiguration()

	// Initialize SQLite database with WAL mode and connection pooling
	db, err := sqlite.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations to ensure schema is up to date
	if err := sqlite.Migrate(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize data access layer (repositories)
	videoRepo := sqlite.NewVideoRepository(db)
	sampleRepo := sqlite.NewSampleRepository(db)
	targetRepo := sqlite.NewTargetRepository(db)

	// Initialize platform adapter for the YouTube Data API
	youtubeAdapter := adapter.NewYouTubeAdapter(cfg.YouTubeAPIKey)

	// Optionally seed demo videos with synthetic history
	if cfg.SeedDemoData {
		seeder := seed.NewSeeder(videoRepo, sampleRepo, cfg.Location)
		if _, err := seeder.SeedDemoVideos(context.Background()); err != nil {
			log.Printf("WARNING: demo seeding failed: %v", err)
		}
	}

	// Initialize business logic layer (services)
	videoService := service.NewVideoService(videoRepo, sampleRepo, targetRepo, youtubeAdapter)
	targetService := service.NewTargetService(videoRepo, sampleRepo, targetRepo, cfg.TargetInterval)
	seriesService := service.NewSeriesService(sampleRepo, targetService)
	statsService := service.NewStatsService(sampleRepo)

	// Start the background poller that samples view counts at wall-clock
	// interval marks in the configured zone
	poller := task.NewPoller(videoRepo, sampleRepo, youtubeAdapter, cfg.PollInterval, cfg.Location)
	poller.Start(context.Background())
	defer poller.Stop()

	// Initialize handlers
	dashboardHandler := handler.NewDashboardHandler(videoService, seriesService, targetService, cfg.Location)
	apiHandler := handler.NewAPIHandler(videoService, seriesService, statsService, cfg.Location)

	// Set up HTTP routing
	mux := http.NewServeMux()

	// Dashboard routes (server-rendered HTML)
	mux.HandleFunc("GET /{$}", dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /video/{id}", dashboardHandler.HandleVideoDetail)
	mux.HandleFunc("POST /videos", dashboardHandler.HandleAddVideo)
	mux.HandleFunc("POST /video/{id}/remove", dashboardHandler.HandleRemoveVideo)
	mux.HandleFunc("POST /video/{id}/tracking", dashboardHandler.HandleSetTracking)
	mux.HandleFunc("POST /video/{id}/targetable", dashboardHandler.HandleSetTargetable)
	mux.HandleFunc("POST /video/{id}/target", dashboardHandler.HandleSetTarget)
	mux.HandleFunc("POST /video/{id}/target/clear", dashboardHandler.HandleClearTarget)

	// API routes (JSON responses)
	mux.HandleFunc("GET /api/views", apiHandler.HandleViewsToday)
	mux.HandleFunc("GET /api/views/{date}", apiHandler.HandleViewsByDate)
	mux.HandleFunc("GET /api/views/{date}/total", apiHandler.HandleDailyTotals)
	mux.HandleFunc("GET /api/views/{date}/{videoID}", apiHandler.HandleViewsByDateAndVideo)

	// Static file serving for CSS, JavaScript, and images
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Configure HTTP server with timeouts to prevent resource exhaustion
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.RequestLogger(mux),
		ReadTimeout:  15 * time.Second, // Max time to read request
		WriteTimeout: 15 * time.Second, // Max time to write response
		IdleTimeout:  60 * time.Second, // Max time for keep-alive connections
	}

	// Start server in background goroutine
	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Gracefully shutdown server with 30-second timeout
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
