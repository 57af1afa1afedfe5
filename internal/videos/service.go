package videos

import (
	"context"
	"errors"

	"github.com/contesthub/backend/internal/contests"
	"go.uber.org/zap"
)

var (
	errMissingContests  = errors.New("videos: contest source is required")
	errMissingSolutions = errors.New("videos: solution sink is required")
	errMissingFeed      = errors.New("videos: playlist source is required")
)

// ContestSource supplies the contests the matcher scans.
type ContestSource interface {
	AllByPlatform(ctx context.Context, platform contests.Platform) ([]contests.Contest, error)
}

// SolutionSink persists accepted matches. It reports whether a row was
// written; contests that already carry a solution are skipped.
type SolutionSink interface {
	AttachMatched(ctx context.Context, contestID, videoURL, videoID string) (bool, error)
}

// PlaylistSource supplies the external video feed, one playlist at a time.
type PlaylistSource interface {
	PlaylistVideos(ctx context.Context, playlistID string) ([]Video, error)
}

// ServiceConfig describes one matcher service.
type ServiceConfig struct {
	// Playlists maps each platform to the playlist carrying its solution
	// videos. Platforms without a playlist are skipped.
	Playlists map[contests.Platform]string
	Contests  ContestSource
	Solutions SolutionSink
	Feed      PlaylistSource
	Logger    *zap.Logger
}

// Service runs the video-to-contest matching pass across the configured
// playlists and records accepted matches as solutions.
type Service struct {
	playlists map[contests.Platform]string
	contests  ContestSource
	solutions SolutionSink
	feed      PlaylistSource
	logger    *zap.Logger
}

// NewService validates dependencies and constructs the matcher service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Contests == nil {
		return nil, errMissingContests
	}
	if cfg.Solutions == nil {
		return nil, errMissingSolutions
	}
	if cfg.Feed == nil {
		return nil, errMissingFeed
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		playlists: cfg.Playlists,
		contests:  cfg.Contests,
		solutions: cfg.Solutions,
		feed:      cfg.Feed,
		logger:    logger,
	}, nil
}

// FetchAndMatch fetches every configured playlist, matches its videos against
// that platform's stored contests, and writes the accepted matches. A
// playlist that fails to fetch is logged and skipped; matching is best
// effort. It returns the number of solutions written.
func (s *Service) FetchAndMatch(ctx context.Context) (int, error) {
	created := 0
	for platform, playlistID := range s.playlists {
		feed, err := s.feed.PlaylistVideos(ctx, playlistID)
		if err != nil {
			s.logger.Warn("playlist fetch failed",
				zap.String("platform", platform.String()),
				zap.String("playlist_id", playlistID),
				zap.Error(err))
			continue
		}

		candidates, err := s.contests.AllByPlatform(ctx, platform)
		if err != nil {
			return created, err
		}

		for _, match := range MatchVideos(candidates, feed) {
			written, err := s.solutions.AttachMatched(ctx, match.Contest.ContestID, match.Video.URL, match.Video.VideoID)
			if err != nil {
				return created, err
			}
			if written {
				created++
			}
		}
	}
	s.logger.Info("video matching complete", zap.Int("solutions_written", created))
	return created, nil
}
