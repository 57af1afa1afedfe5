package videos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"
	defaultTimeout    = 20 * time.Second
	playlistPageSize  = 50
)

// PlaylistClientConfig configures the YouTube Data API client.
type PlaylistClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// PlaylistClient reads solution-video playlists from the YouTube Data API v3.
// One page of up to 50 items is fetched per playlist.
type PlaylistClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewPlaylistClient constructs the client with defaults applied.
func NewPlaylistClient(cfg PlaylistClientConfig) *PlaylistClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &PlaylistClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type playlistItemsResponse struct {
	Items []struct {
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// PlaylistVideos fetches one page of playlist entries and maps them to the
// feed shape the matcher consumes.
func (c *PlaylistClient) PlaylistVideos(ctx context.Context, playlistID string) ([]Video, error) {
	query := url.Values{}
	query.Set("part", "snippet,contentDetails")
	query.Set("playlistId", playlistID)
	query.Set("maxResults", strconv.Itoa(playlistPageSize))
	query.Set("key", c.apiKey)

	endpoint := c.baseURL + "/playlistItems?" + query.Encode()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("videos: playlist %s: %w", playlistID, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("videos: playlist %s: unexpected status %d", playlistID, response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("videos: playlist %s: %w", playlistID, err)
	}

	var payload playlistItemsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("videos: playlist %s: decode: %w", playlistID, err)
	}

	feed := make([]Video, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ContentDetails.VideoID == "" {
			continue
		}
		var publishedAt int64
		if parsed, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			publishedAt = parsed.Unix()
		}
		feed = append(feed, Video{
			Title:              item.Snippet.Title,
			VideoID:            item.ContentDetails.VideoID,
			URL:                "https://www.youtube.com/watch?v=" + item.ContentDetails.VideoID,
			PublishedAtSeconds: publishedAt,
		})
	}
	return feed, nil
}
