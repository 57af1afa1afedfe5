package ingest

import (
	"context"
	"fmt"

	"github.com/contesthub/backend/internal/contests"
)

// Adapter translates one platform's public listing into normalized contests.
// Adapters are pure fetchers; persistence belongs to the Coordinator. An
// adapter that cannot produce a complete, well-formed batch fails with a
// FetchError instead of returning partial data.
type Adapter interface {
	Platform() contests.Platform
	FetchContests(ctx context.Context) ([]contests.Contest, error)
}

// FetchError reports a failed platform fetch: a transport error, a non-2xx
// response, or a payload that did not match the expected shape.
type FetchError struct {
	Platform contests.Platform
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("ingest: %s fetch failed: %v", e.Platform, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
