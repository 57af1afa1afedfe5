package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/contesthub/backend/internal/contests"
)

const codechefDefaultBaseURL = "https://www.codechef.com"

// CodeChefConfig configures the CodeChef REST adapter.
type CodeChefConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CodeChefAdapter reads the combined contest listing, which splits contests
// across future/present/past arrays. Duration is derived from the start and
// end instants since the listing reports no independent duration.
type CodeChefAdapter struct {
	baseURL string
	client  *http.Client
}

// NewCodeChefAdapter constructs the adapter with defaults applied.
func NewCodeChefAdapter(cfg CodeChefConfig) *CodeChefAdapter {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = codechefDefaultBaseURL
	}
	return &CodeChefAdapter{
		baseURL: baseURL,
		client:  newHTTPClient(cfg.Timeout),
	}
}

// Platform identifies this adapter's source.
func (a *CodeChefAdapter) Platform() contests.Platform {
	return contests.PlatformCodeChef
}

type codechefContestEntry struct {
	Code         string `json:"contest_code"`
	Name         string `json:"contest_name"`
	StartDateISO string `json:"contest_start_date_iso"`
	EndDateISO   string `json:"contest_end_date_iso"`
}

type codechefListResponse struct {
	FutureContests  []codechefContestEntry `json:"future_contests"`
	PresentContests []codechefContestEntry `json:"present_contests"`
	PastContests    []codechefContestEntry `json:"past_contests"`
}

// FetchContests retrieves and normalizes every listed contest.
func (a *CodeChefAdapter) FetchContests(ctx context.Context) ([]contests.Contest, error) {
	body, err := fetchBody(ctx, a.client, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/list/contests/all", http.NoBody)
	})
	if err != nil {
		return nil, &FetchError{Platform: a.Platform(), Err: err}
	}

	var payload codechefListResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Platform: a.Platform(), Err: fmt.Errorf("decode contest list: %w", err)}
	}
	if payload.FutureContests == nil && payload.PresentContests == nil && payload.PastContests == nil {
		return nil, &FetchError{Platform: a.Platform(), Err: fmt.Errorf("contest list missing all listing sections")}
	}

	entries := make([]codechefContestEntry, 0,
		len(payload.FutureContests)+len(payload.PresentContests)+len(payload.PastContests))
	entries = append(entries, payload.FutureContests...)
	entries = append(entries, payload.PresentContests...)
	entries = append(entries, payload.PastContests...)

	normalized := make([]contests.Contest, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.Code]; ok {
			continue
		}
		seen[entry.Code] = struct{}{}

		start, err := time.Parse(time.RFC3339, entry.StartDateISO)
		if err != nil {
			return nil, &FetchError{Platform: a.Platform(),
				Err: fmt.Errorf("contest %s start date %q: %w", entry.Code, entry.StartDateISO, err)}
		}
		end, err := time.Parse(time.RFC3339, entry.EndDateISO)
		if err != nil {
			return nil, &FetchError{Platform: a.Platform(),
				Err: fmt.Errorf("contest %s end date %q: %w", entry.Code, entry.EndDateISO, err)}
		}

		normalized = append(normalized, contests.Contest{
			Name:              entry.Name,
			Platform:          contests.PlatformCodeChef,
			URL:               "https://www.codechef.com/" + entry.Code,
			StartTimeSeconds:  start.Unix(),
			EndTimeSeconds:    end.Unix(),
			DurationMinutes:   (end.Unix() - start.Unix()) / 60,
			PlatformContestID: entry.Code,
		})
	}
	return normalized, nil
}
