package solutions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contesthub/backend/internal/contests"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const matcherAuthor = "youtube-import"

var (
	// ErrMissingContestID indicates the request carried no contest identifier.
	ErrMissingContestID = errors.New("solutions: contest id is required")
	// ErrMissingVideoURL indicates the request carried no video URL.
	ErrMissingVideoURL = errors.New("solutions: video url is required")
	// ErrMissingAddedBy indicates the request carried no submitter name.
	ErrMissingAddedBy = errors.New("solutions: added_by is required")
	// ErrContestNotFound indicates the referenced contest does not exist.
	ErrContestNotFound = errors.New("solutions: contest not found")
	// ErrDuplicate indicates the contest already has a solution.
	ErrDuplicate = errors.New("solutions: contest already has a solution")
	// ErrNotFound indicates no solution exists for the requested contest.
	ErrNotFound = errors.New("solutions: solution not found")
)

// IDProvider issues identifiers for new solutions.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig describes the dependencies of the solution service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider IDProvider
}

// Service manages solution-video links for contests.
type Service struct {
	db         *gorm.DB
	now        func() time.Time
	idProvider IDProvider
}

// NewService constructs the solution service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("solutions: database connection required")
	}
	if cfg.IDProvider == nil {
		return nil, fmt.Errorf("solutions: id provider required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		db:         cfg.Database,
		now:        clock,
		idProvider: cfg.IDProvider,
	}, nil
}

// GetByContest returns the solution attached to a contest.
func (s *Service) GetByContest(ctx context.Context, contestID string) (Solution, error) {
	var solution Solution
	err := s.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Take(&solution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Solution{}, ErrNotFound
	}
	if err != nil {
		return Solution{}, fmt.Errorf("solutions: lookup: %w", err)
	}
	return solution, nil
}

// CreateRequest describes a manual solution submission.
type CreateRequest struct {
	ContestID string
	VideoURL  string
	VideoID   string
	AddedBy   string
}

// Create stores a manually submitted solution. The contest must exist and
// must not already carry a solution.
func (s *Service) Create(ctx context.Context, request CreateRequest) (Solution, error) {
	if strings.TrimSpace(request.ContestID) == "" {
		return Solution{}, ErrMissingContestID
	}
	if strings.TrimSpace(request.VideoURL) == "" {
		return Solution{}, ErrMissingVideoURL
	}
	if strings.TrimSpace(request.AddedBy) == "" {
		return Solution{}, ErrMissingAddedBy
	}

	var contest contests.Contest
	err := s.db.WithContext(ctx).
		Where("contest_id = ?", request.ContestID).
		Take(&contest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Solution{}, ErrContestNotFound
	}
	if err != nil {
		return Solution{}, fmt.Errorf("solutions: contest lookup: %w", err)
	}

	var existing Solution
	err = s.db.WithContext(ctx).
		Where("contest_id = ?", request.ContestID).
		Take(&existing).Error
	if err == nil {
		return Solution{}, ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Solution{}, fmt.Errorf("solutions: duplicate lookup: %w", err)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		return Solution{}, fmt.Errorf("solutions: id generation: %w", err)
	}

	solution := Solution{
		SolutionID:       id,
		ContestID:        request.ContestID,
		VideoURL:         request.VideoURL,
		VideoID:          request.VideoID,
		AddedBy:          request.AddedBy,
		AddedManually:    true,
		CreatedAtSeconds: s.now().UTC().Unix(),
	}
	if err := s.db.WithContext(ctx).Create(&solution).Error; err != nil {
		return Solution{}, fmt.Errorf("solutions: create: %w", err)
	}
	return solution, nil
}

// AttachMatched stores a matcher-produced solution. A contest that already
// carries a solution keeps it; the write is dropped and false is returned.
func (s *Service) AttachMatched(ctx context.Context, contestID, videoURL, videoID string) (bool, error) {
	if strings.TrimSpace(contestID) == "" {
		return false, ErrMissingContestID
	}
	if strings.TrimSpace(videoURL) == "" {
		return false, ErrMissingVideoURL
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		return false, fmt.Errorf("solutions: id generation: %w", err)
	}

	solution := Solution{
		SolutionID:       id,
		ContestID:        contestID,
		VideoURL:         videoURL,
		VideoID:          videoID,
		AddedBy:          matcherAuthor,
		AddedManually:    false,
		CreatedAtSeconds: s.now().UTC().Unix(),
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contest_id"}},
		DoNothing: true,
	}).Create(&solution)
	if result.Error != nil {
		return false, fmt.Errorf("solutions: attach: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
