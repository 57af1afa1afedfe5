package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/contesthub/backend/internal/contests"
)

const leetcodeDefaultBaseURL = "https://leetcode.com"

// The upcoming listing and the all-time listing overlap; the adapter merges
// them and deduplicates by slug.
const leetcodeContestQuery = `query {
  contestUpcomingContests { title titleSlug startTime duration }
  allContests { title titleSlug startTime duration }
}`

// LeetCodeConfig configures the LeetCode GraphQL adapter.
type LeetCodeConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LeetCodeAdapter reads the public GraphQL contest listings.
type LeetCodeAdapter struct {
	baseURL string
	client  *http.Client
}

// NewLeetCodeAdapter constructs the adapter with defaults applied.
func NewLeetCodeAdapter(cfg LeetCodeConfig) *LeetCodeAdapter {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = leetcodeDefaultBaseURL
	}
	return &LeetCodeAdapter{
		baseURL: baseURL,
		client:  newHTTPClient(cfg.Timeout),
	}
}

// Platform identifies this adapter's source.
func (a *LeetCodeAdapter) Platform() contests.Platform {
	return contests.PlatformLeetCode
}

type leetcodeContestEntry struct {
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	StartTime int64  `json:"startTime"`
	Duration  int64  `json:"duration"`
}

type leetcodeGraphQLResponse struct {
	Data struct {
		ContestUpcomingContests []leetcodeContestEntry `json:"contestUpcomingContests"`
		AllContests             []leetcodeContestEntry `json:"allContests"`
	} `json:"data"`
}

// FetchContests retrieves and normalizes both contest listings.
func (a *LeetCodeAdapter) FetchContests(ctx context.Context) ([]contests.Contest, error) {
	requestBody, err := json.Marshal(map[string]any{"query": leetcodeContestQuery})
	if err != nil {
		return nil, &FetchError{Platform: a.Platform(), Err: err}
	}

	body, err := fetchBody(ctx, a.client, func() (*http.Request, error) {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/graphql", bytes.NewReader(requestBody))
		if err != nil {
			return nil, err
		}
		request.Header.Set("Content-Type", "application/json")
		return request, nil
	})
	if err != nil {
		return nil, &FetchError{Platform: a.Platform(), Err: err}
	}

	var payload leetcodeGraphQLResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Platform: a.Platform(), Err: fmt.Errorf("decode graphql response: %w", err)}
	}
	if payload.Data.ContestUpcomingContests == nil && payload.Data.AllContests == nil {
		return nil, &FetchError{Platform: a.Platform(), Err: fmt.Errorf("graphql response missing contest listings")}
	}

	entries := make([]leetcodeContestEntry, 0,
		len(payload.Data.ContestUpcomingContests)+len(payload.Data.AllContests))
	entries = append(entries, payload.Data.ContestUpcomingContests...)
	entries = append(entries, payload.Data.AllContests...)

	normalized := make([]contests.Contest, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.TitleSlug == "" {
			continue
		}
		if _, ok := seen[entry.TitleSlug]; ok {
			continue
		}
		seen[entry.TitleSlug] = struct{}{}

		normalized = append(normalized, contests.Contest{
			Name:              entry.Title,
			Platform:          contests.PlatformLeetCode,
			URL:               "https://leetcode.com/contest/" + entry.TitleSlug,
			StartTimeSeconds:  entry.StartTime,
			EndTimeSeconds:    entry.StartTime + entry.Duration,
			DurationMinutes:   entry.Duration / 60,
			PlatformContestID: entry.TitleSlug,
		})
	}
	return normalized, nil
}
