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
	"view-tracker/internal/handler"
	"view-tracker/internal/middleware"
	"view-tracker/internal/repository/sqlite"
	"view-tracker/internal/service"
	"view-tracker/internal/task"
)

func main() {
	// Initialize SQLite database with WAL mode and connection pooling
	db, err := sqlite.NewDB("./data/view-tracker.db")
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
	// Note: the API key should be set via environment variables in production
	youtubeAdapter := adapter.NewYouTubeAdapter(os.Getenv("YOUTUBE_API_KEY"))

	// Initialize business logic layer (services)
	videoService := service.NewVideoService(videoRepo, sampleRepo, targetRepo, youtubeAdapter)
	targetService := service.NewTargetService(videoRepo, sampleRepo, targetRepo, 5*time.Minute)
	seriesService := service.NewSeriesService(sampleRepo, targetService)
	statsService := service.NewStatsService(sampleRepo)

	// Start the background poller on the default 5-minute cadence
	poller := task.NewPoller(videoRepo, sampleRepo, youtubeAdapter, 5*time.Minute, time.UTC)
	poller.Start(context.Background())
	defer poller.Stop()

	// Initialize handlers
	dashboardHandler := handler.NewDashboardHandler(videoService, seriesService, targetService, time.UTC)
	apiHandler := handler.NewAPIHandler(videoService, seriesService, statsService, time.UTC)

	// Set up HTTP routing
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /video/{id}", dashboardHandler.HandleVideoDetail)
	mux.HandleFunc("POST /videos", dashboardHandler.HandleAddVideo)
	mux.HandleFunc("POST /video/{id}/remove", dashboardHandler.HandleRemoveVideo)
	mux.HandleFunc("POST /video/{id}/tracking", dashboardHandler.HandleSetTracking)
	mux.HandleFunc("POST /video/{id}/targetable", dashboardHandler.HandleSetTargetable)
	mux.HandleFunc("POST /video/{id}/target", dashboardHandler.HandleSetTarget)
	mux.HandleFunc("POST /video/{id}/target/clear", dashboardHandler.HandleClearTarget)

	mux.HandleFunc("GET /api/views", apiHandler.HandleViewsToday)
	mux.HandleFunc("GET /api/views/{date}", apiHandler.HandleViewsByDate)
	mux.HandleFunc("GET /api/views/{date}/total", apiHandler.HandleDailyTotals)
	mux.HandleFunc("GET /api/views/{date}/{videoID}", apiHandler.HandleViewsByDateAndVideo)

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Configure HTTP server with timeouts to prevent resource exhaustion
	server := &http.Server{
		Addr:         ":8080",
		Handler:      middleware.RequestLogger(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
