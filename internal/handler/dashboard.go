package handler

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"view-tracker/internal/domain"
)

// targetTimeLayout is the format produced by datetime-local form inputs
const targetTimeLayout = "2006-01-02T15:04"

// DashboardHandler serves the server-rendered tracking dashboard
type DashboardHandler struct {
	videoService  domain.VideoService
	seriesService domain.SeriesService
	targetService domain.TargetService
	location      *time.Location
	templates     *template.Template
}

// NewDashboardHandler creates a new DashboardHandler. location is the zone
// form datetimes are interpreted in.
func NewDashboardHandler(
	videoService domain.VideoService,
	seriesService domain.SeriesService,
	targetService domain.TargetService,
	location *time.Location,
) *DashboardHandler {
	if location == nil {
		location = time.UTC
	}
	return &DashboardHandler{
		videoService:  videoService,
		seriesService: seriesService,
		targetService: targetService,
		location:      location,
		templates:     LoadTemplates(),
	}
}

// dashboardData is the render model for the dashboard page
type dashboardData struct {
	Views     []*domain.VideoView
	FormError string
}

// HandleDashboard displays all tracked videos with their day series and
// target projections
// GET /
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, "")
}

func (h *DashboardHandler) renderDashboard(w http.ResponseWriter, r *http.Request, formError string) {
	ctx := r.Context()

	videos, err := h.videoService.ListVideos(ctx)
	if err != nil {
		log.Printf("Error listing videos: %v", err)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	data := dashboardData{FormError: formError}
	for _, video := range videos {
		view, err := h.seriesService.BuildVideoView(ctx, video)
		if err != nil {
			log.Printf("Error building view for video %s: %v", video.ID, err)
			continue
		}
		data.Views = append(data.Views, view)
	}

	// Try to render template, fallback to simple HTML if template not found
	if err := h.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		h.renderSimpleDashboard(w, data)
	}
}

// HandleVideoDetail displays one video's full history and target form
// GET /video/{id}
func (h *DashboardHandler) HandleVideoDetail(w http.ResponseWriter, r *http.Request) {
	h.renderVideoDetail(w, r, r.PathValue("id"), nil)
}

func (h *DashboardHandler) renderVideoDetail(w http.ResponseWriter, r *http.Request, videoID string, outcome *domain.TargetOutcome) {
	ctx := r.Context()

	if videoID == "" {
		http.Error(w, "Video ID is required", http.StatusBadRequest)
		return
	}

	video, err := h.videoService.GetVideo(ctx, videoID)
	if err != nil {
		log.Printf("Error getting video %s: %v", videoID, err)
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}

	view, err := h.seriesService.BuildVideoView(ctx, video)
	if err != nil {
		log.Printf("Error building view for video %s: %v", videoID, err)
		http.Error(w, "Failed to load video", http.StatusInternalServerError)
		return
	}

	// A just-submitted outcome replaces the stored one for this response
	// only. The view may be shared with concurrent requests through the
	// series cache, so never mutate it in place.
	if outcome != nil {
		scoped := *view
		scoped.Outcome = outcome
		view = &scoped
	}

	if err := h.templates.ExecuteTemplate(w, "video.html", view); err != nil {
		h.renderSimpleVideoDetail(w, view)
	}
}

// HandleAddVideo registers a new video from a submitted URL
// POST /videos
func (h *DashboardHandler) HandleAddVideo(w http.ResponseWriter, r *http.Request) {
	rawURL := r.FormValue("url")
	name := r.FormValue("name")

	_, err := h.videoService.AddVideo(r.Context(), rawURL, name)
	if err != nil {
		log.Printf("Error adding video: %v", err)
		h.renderDashboard(w, r, addVideoErrorMessage(err))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleRemoveVideo stops tracking a video and deletes its data
// POST /video/{id}/remove
func (h *DashboardHandler) HandleRemoveVideo(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")

	if err := h.videoService.RemoveVideo(r.Context(), videoID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Video not found", http.StatusNotFound)
			return
		}
		log.Printf("Error removing video %s: %v", videoID, err)
		http.Error(w, "Failed to remove video", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleSetTracking toggles polling for a video
// POST /video/{id}/tracking
func (h *DashboardHandler) HandleSetTracking(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")
	tracking := r.FormValue("tracking") == "on"

	if err := h.videoService.SetTracking(r.Context(), videoID, tracking); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Video not found", http.StatusNotFound)
			return
		}
		log.Printf("Error setting tracking for video %s: %v", videoID, err)
		http.Error(w, "Failed to update tracking", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleSetTargetable toggles target submissions for a video
// POST /video/{id}/targetable
func (h *DashboardHandler) HandleSetTargetable(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")
	targetable := r.FormValue("targetable") == "on"

	if err := h.videoService.SetTargetable(r.Context(), videoID, targetable); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Video not found", http.StatusNotFound)
			return
		}
		log.Printf("Error setting targetable for video %s: %v", videoID, err)
		http.Error(w, "Failed to update video", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/video/"+videoID, http.StatusSeeOther)
}

// HandleSetTarget validates and stores a target for a video, then renders
// the detail page with the submission outcome
// POST /video/{id}/target
func (h *DashboardHandler) HandleSetTarget(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")

	outcome := h.submitTarget(r, videoID)
	h.renderVideoDetail(w, r, videoID, outcome)
}

// submitTarget parses the target form and runs the submission. Parse
// failures become outcome error messages so they render exactly like
// projection validation failures.
func (h *DashboardHandler) submitTarget(r *http.Request, videoID string) *domain.TargetOutcome {
	targetViews, err := strconv.ParseInt(r.FormValue("target_views"), 10, 64)
	if err != nil {
		return &domain.TargetOutcome{
			VideoID:      videoID,
			ErrorMessage: "target views must be a positive integer",
		}
	}

	targetTime, err := time.ParseInLocation(targetTimeLayout, r.FormValue("target_time"), h.location)
	if err != nil {
		return &domain.TargetOutcome{
			VideoID:      videoID,
			ErrorMessage: "target time must be a valid date and time",
		}
	}

	return h.targetService.SubmitTarget(r.Context(), videoID, targetViews, targetTime)
}

// HandleClearTarget removes a video's target spec
// POST /video/{id}/target/clear
func (h *DashboardHandler) HandleClearTarget(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")

	if err := h.targetService.ClearTarget(r.Context(), videoID); err != nil {
		log.Printf("Error clearing target for video %s: %v", videoID, err)
		http.Error(w, "Failed to clear target", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/video/"+videoID, http.StatusSeeOther)
}

// addVideoErrorMessage maps add-video failures to a displayable message
func addVideoErrorMessage(err error) string {
	var friendly *domain.UserFriendlyError
	if errors.As(err, &friendly) && friendly.UserMessage != "" {
		return friendly.UserMessage
	}

	switch {
	case errors.Is(err, domain.ErrDuplicate):
		return "That video is already being tracked."
	case errors.Is(err, domain.ErrInvalidInput):
		return "Enter a YouTube video URL or an 11-character video ID."
	default:
		return "Could not add the video. Please try again."
	}
}

// renderSimpleDashboard renders a minimal HTML dashboard when templates
// are not available
func (h *DashboardHandler) renderSimpleDashboard(w http.ResponseWriter, data dashboardData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
	<title>View Tracker</title>
	<style>
		body { font-family: Arial, sans-serif; margin: 20px; }
		table { border-collapse: collapse; margin: 10px 0; }
		td, th { border: 1px solid #ccc; padding: 4px 8px; }
		.gain-positive { color: #1a7f37; }
		.gain-negative { color: #cf222e; }
		.gain-neutral { color: #57606a; }
		.form-error { color: #cf222e; }
	</style>
</head>
<body>
	<h1>View Tracker</h1>
`)

	if data.FormError != "" {
		fmt.Fprintf(w, `	<p class="form-error">%s</p>
`, template.HTMLEscapeString(data.FormError))
	}

	fmt.Fprintf(w, `	<form action="/videos" method="POST">
		<input type="text" name="url" placeholder="YouTube URL or video ID">
		<input type="text" name="name" placeholder="Display name (optional)">
		<button type="submit">Track Video</button>
	</form>
`)

	for _, view := range data.Views {
		h.writeSimpleVideo(w, view)
	}

	fmt.Fprintf(w, `</body>
</html>`)
}

// renderSimpleVideoDetail renders a minimal HTML detail page
func (h *DashboardHandler) renderSimpleVideoDetail(w http.ResponseWriter, view *domain.VideoView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
	<title>%s - View Tracker</title>
	<style>
		body { font-family: Arial, sans-serif; margin: 20px; }
		table { border-collapse: collapse; margin: 10px 0; }
		td, th { border: 1px solid #ccc; padding: 4px 8px; }
		.gain-positive { color: #1a7f37; }
		.gain-negative { color: #cf222e; }
		.gain-neutral { color: #57606a; }
		.target-error { color: #cf222e; }
	</style>
</head>
<body>
	<p><a href="/">&larr; Back to Dashboard</a></p>
`, template.HTMLEscapeString(view.Video.Name))

	h.writeSimpleVideo(w, view)

	fmt.Fprintf(w, `</body>
</html>`)
}

// writeSimpleVideo writes one video's section: heading, target outcome,
// and per-day tables with days newest-first
func (h *DashboardHandler) writeSimpleVideo(w http.ResponseWriter, view *domain.VideoView) {
	name := template.HTMLEscapeString(view.Video.Name)
	fmt.Fprintf(w, `	<h2><a href="/video/%s">%s</a></h2>
`, view.Video.ID, name)

	if view.Latest != nil {
		fmt.Fprintf(w, `	<p>Current views: %d</p>
`, view.Latest.Views)
	} else {
		fmt.Fprintf(w, `	<p>No samples recorded yet.</p>
`)
	}

	if view.Outcome != nil {
		if view.Outcome.ErrorMessage != "" {
			fmt.Fprintf(w, `	<p class="target-error">%s</p>
`, template.HTMLEscapeString(view.Outcome.ErrorMessage))
		} else if view.Outcome.Projection.AlreadyMet {
			fmt.Fprintf(w, `	<p>Target of %d views already met.</p>
`, view.Outcome.Spec.TargetViews)
		} else {
			fmt.Fprintf(w, `	<p>Required views per interval: %.2f</p>
`, view.Outcome.Projection.Rate)
		}
	}

	if view.Video.Targetable {
		fmt.Fprintf(w, `	<form action="/video/%s/target" method="POST">
		<input type="number" name="target_views" min="1" placeholder="Target views">
		<input type="datetime-local" name="target_time">
		<button type="submit">Set Target</button>
	</form>
`, view.Video.ID)
	}

	for _, day := range view.Days {
		fmt.Fprintf(w, `	<h3>%s</h3>
	<table>
		<tr><th>Time</th><th>Views</th><th>Gain</th><th>Hourly</th><th>Avg (3)</th></tr>
`, day.Date)
		// Tables list samples newest-first; charts consume the ascending order
		for i := len(day.Points) - 1; i >= 0; i-- {
			p := day.Points[i]
			class := "gain-neutral"
			if p.ViewGain > 0 {
				class = "gain-positive"
			} else if p.ViewGain < 0 {
				class = "gain-negative"
			}
			fmt.Fprintf(w, `		<tr><td>%s</td><td>%d</td><td class="%s">%d</td><td>%d</td><td>%.2f</td></tr>
`, p.Timestamp.Format("15:04"), p.Views, class, p.ViewGain, p.HourlyGain, p.RollingAvg)
		}
		fmt.Fprintf(w, `	</table>
`)
	}
}
