package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"time"

	"view-tracker/internal/domain"
)

// APIHandler serves the JSON views API
type APIHandler struct {
	videoService  domain.VideoService
	seriesService domain.SeriesService
	statsService  domain.StatsService
	location      *time.Location
}

// NewAPIHandler creates a new APIHandler. location determines what "today"
// means for the undated views route.
func NewAPIHandler(
	videoService domain.VideoService,
	seriesService domain.SeriesService,
	statsService domain.StatsService,
	location *time.Location,
) *APIHandler {
	if location == nil {
		location = time.UTC
	}
	return &APIHandler{
		videoService:  videoService,
		seriesService: seriesService,
		statsService:  statsService,
		location:      location,
	}
}

// sampleJSON is one sample row in API responses
type sampleJSON struct {
	VideoID   string `json:"video_id"`
	Timestamp string `json:"timestamp"`
	ViewCount int64  `json:"view_count"`
	ViewGain  int64  `json:"view_gain"`
}

// HandleViewsToday returns all samples recorded today
// GET /api/views
func (h *APIHandler) HandleViewsToday(w http.ResponseWriter, r *http.Request) {
	today := time.Now().In(h.location).Format("2006-01-02")
	h.writeViews(w, r, today, "")
}

// HandleViewsByDate returns all samples for a date
// GET /api/views/{date}
func (h *APIHandler) HandleViewsByDate(w http.ResponseWriter, r *http.Request) {
	h.writeViews(w, r, r.PathValue("date"), "")
}

// HandleViewsByDateAndVideo returns one video's samples for a date
// GET /api/views/{date}/{videoID}
func (h *APIHandler) HandleViewsByDateAndVideo(w http.ResponseWriter, r *http.Request) {
	h.writeViews(w, r, r.PathValue("date"), r.PathValue("videoID"))
}

// HandleDailyTotals returns the total view gain per video for a date
// GET /api/views/{date}/total?video_id=...
func (h *APIHandler) HandleDailyTotals(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	videoID := r.URL.Query().Get("video_id")

	totals, err := h.statsService.DailyTotals(r.Context(), date, videoID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error computing daily totals: %v", err)
		http.Error(w, "Failed to compute totals", http.StatusInternalServerError)
		return
	}

	// video_id -> total gain, matching the table layout of the dashboard
	result := make(map[string]int64, len(totals))
	for _, t := range totals {
		result[t.VideoID] = t.TotalGain
	}

	writeJSON(w, result)
}

func (h *APIHandler) writeViews(w http.ResponseWriter, r *http.Request, date, videoID string) {
	ctx := r.Context()

	var videoIDs []string
	if videoID != "" {
		videoIDs = []string{videoID}
	} else {
		videos, err := h.videoService.ListVideos(ctx)
		if err != nil {
			log.Printf("Error listing videos: %v", err)
			http.Error(w, "Failed to load views", http.StatusInternalServerError)
			return
		}
		for _, v := range videos {
			videoIDs = append(videoIDs, v.ID)
		}
	}

	rows := make([]sampleJSON, 0)
	for _, id := range videoIDs {
		points, err := h.seriesService.DaySamples(ctx, id, date)
		if err != nil {
			log.Printf("Error loading samples for video %s: %v", id, err)
			http.Error(w, "Failed to load views", http.StatusInternalServerError)
			return
		}
		for _, p := range points {
			rows = append(rows, sampleJSON{
				VideoID:   p.VideoID,
				Timestamp: p.Timestamp.Format("2006-01-02 15:04:05"),
				ViewCount: p.Views,
				ViewGain:  p.ViewGain,
			})
		}
	}

	// Chronological across videos, then by video ID, as the original
	// table consumers expect
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Timestamp != rows[j].Timestamp {
			return rows[i].Timestamp < rows[j].Timestamp
		}
		return rows[i].VideoID < rows[j].VideoID
	})

	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
