package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/contesthub/backend/internal/contests"
)

const codeforcesDefaultBaseURL = "https://codeforces.com/api"

// CodeforcesConfig configures the Codeforces REST adapter.
type CodeforcesConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CodeforcesAdapter reads the public contest.list endpoint. Every phase is
// ingested; finished contests stay in the store as history.
type CodeforcesAdapter struct {
	baseURL string
	client  *http.Client
}

// NewCodeforcesAdapter constructs the adapter with defaults applied.
func NewCodeforcesAdapter(cfg CodeforcesConfig) *CodeforcesAdapter {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = codeforcesDefaultBaseURL
	}
	return &CodeforcesAdapter{
		baseURL: baseURL,
		client:  newHTTPClient(cfg.Timeout),
	}
}

// Platform identifies this adapter's source.
func (a *CodeforcesAdapter) Platform() contests.Platform {
	return contests.PlatformCodeforces
}

type codeforcesListResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  []struct {
		ID               int64  `json:"id"`
		Name             string `json:"name"`
		Phase            string `json:"phase"`
		StartTimeSeconds int64  `json:"startTimeSeconds"`
		DurationSeconds  int64  `json:"durationSeconds"`
	} `json:"result"`
}

// FetchContests retrieves and normalizes the full contest listing.
func (a *CodeforcesAdapter) FetchContests(ctx context.Context) ([]contests.Contest, error) {
	body, err := fetchBody(ctx, a.client, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/contest.list", http.NoBody)
	})
	if err != nil {
		return nil, &FetchError{Platform: a.Platform(), Err: err}
	}

	var payload codeforcesListResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Platform: a.Platform(), Err: fmt.Errorf("decode contest list: %w", err)}
	}
	if payload.Status != "OK" {
		return nil, &FetchError{Platform: a.Platform(),
			Err: fmt.Errorf("contest list status %q: %s", payload.Status, payload.Comment)}
	}

	normalized := make([]contests.Contest, 0, len(payload.Result))
	for _, entry := range payload.Result {
		// Contests without a scheduled start carry no startTimeSeconds.
		if entry.StartTimeSeconds == 0 {
			continue
		}
		id := strconv.FormatInt(entry.ID, 10)
		normalized = append(normalized, contests.Contest{
			Name:              entry.Name,
			Platform:          contests.PlatformCodeforces,
			URL:               "https://codeforces.com/contest/" + id,
			StartTimeSeconds:  entry.StartTimeSeconds,
			EndTimeSeconds:    entry.StartTimeSeconds + entry.DurationSeconds,
			DurationMinutes:   entry.DurationSeconds / 60,
			PlatformContestID: id,
		})
	}
	return normalized, nil
}
