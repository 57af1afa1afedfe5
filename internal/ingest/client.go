package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultFetchTimeout = 20 * time.Second
	maxFetchAttempts    = 3
	fetchUserAgent      = "contesthub-ingest/1.0"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &http.Client{Timeout: timeout}
}

// fetchBody issues the request built by buildRequest with bounded exponential
// retry and returns the response body. The request is rebuilt per attempt so
// bodies can be re-read. Non-2xx statuses are retried like transport errors.
func fetchBody(ctx context.Context, client *http.Client, buildRequest func() (*http.Request, error)) ([]byte, error) {
	operation := func() ([]byte, error) {
		request, err := buildRequest()
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		request.Header.Set("User-Agent", fetchUserAgent)

		response, err := client.Do(request)
		if err != nil {
			return nil, err
		}
		defer response.Body.Close()

		if response.StatusCode < 200 || response.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %d", response.StatusCode)
		}
		return io.ReadAll(response.Body)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxFetchAttempts))
}
