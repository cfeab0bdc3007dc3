package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"view-tracker/internal/domain"
	"view-tracker/internal/logger"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// maxBatchSize is the YouTube Data API limit on ids per videos.list call
const maxBatchSize = 50

// videoIDPattern matches the fixed-format YouTube video ID token
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// YouTubeAdapter implements domain.StatsAdapter against the YouTube Data API v3
type YouTubeAdapter struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewYouTubeAdapter creates a new YouTube adapter
func NewYouTubeAdapter(apiKey string) *YouTubeAdapter {
	return &YouTubeAdapter{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.Default(),
	}
}

// GetVideoStats fetches current statistics for the given video IDs,
// splitting them into videos.list calls of at most 50 ids each. Videos
// missing from the response (for example deleted ones) are absent from
// the result map.
func (y *YouTubeAdapter) GetVideoStats(ctx context.Context, videoIDs []string) (map[string]*domain.VideoStats, error) {
	stats := make(map[string]*domain.VideoStats, len(videoIDs))
	for start := 0; start < len(videoIDs); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		if err := y.fetchBatch(ctx, videoIDs[start:end], stats); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// fetchBatch runs one videos.list call and merges the items into stats
func (y *YouTubeAdapter) fetchBatch(ctx context.Context, videoIDs []string, stats map[string]*domain.VideoStats) error {
	params := url.Values{}
	params.Add("part", "statistics,snippet")
	params.Add("id", strings.Join(videoIDs, ","))
	params.Add("key", y.apiKey)

	reqURL := fmt.Sprintf("%s/videos?%s", y.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		y.logger.Error("YouTube videos.list request failed", map[string]interface{}{
			"video_count": len(videoIDs),
			"error":       err.Error(),
		})
		return fmt.Errorf("%w: %v", domain.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		y.logger.Warn("YouTube videos.list returned non-OK status", map[string]interface{}{
			"status_code": resp.StatusCode,
			"response":    string(body),
		})
		return fmt.Errorf("youtube api returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
				LikeCount string `json:"likeCount"`
			} `json:"statistics"`
		} `json:"items"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		y.logger.Error("YouTube videos.list failed to decode response", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to decode response: %w", err)
	}

	for _, item := range result.Items {
		views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		likes, _ := strconv.ParseInt(item.Statistics.LikeCount, 10, 64)
		stats[item.ID] = &domain.VideoStats{
			VideoID: item.ID,
			Title:   item.Snippet.Title,
			Views:   views,
			Likes:   likes,
		}
	}

	return nil
}

// ParseVideoID extracts the 11-character video ID from a YouTube URL.
// Accepted forms: a bare ID, watch?v= URLs, youtu.be short links, and
// /shorts/, /embed/ and /live/ paths.
func ParseVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: video URL is required", domain.ErrInvalidInput)
	}

	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: not a YouTube URL or video ID", domain.ErrInvalidInput)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	var candidate string

	switch host {
	case "youtu.be":
		candidate = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			candidate = v
			break
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 {
			switch parts[0] {
			case "shorts", "embed", "live", "v":
				candidate = parts[1]
			}
		}
	default:
		return "", fmt.Errorf("%w: not a YouTube URL or video ID", domain.ErrInvalidInput)
	}

	if !videoIDPattern.MatchString(candidate) {
		return "", fmt.Errorf("%w: could not extract a video ID from %q", domain.ErrInvalidInput, raw)
	}

	return candidate, nil
}
