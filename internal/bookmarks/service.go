package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contesthub/backend/internal/contests"
	"gorm.io/gorm"
)

var (
	// ErrMissingUserID indicates the request carried no user identifier.
	ErrMissingUserID = errors.New("bookmarks: user id is required")
	// ErrMissingContestID indicates the request carried no contest identifier.
	ErrMissingContestID = errors.New("bookmarks: contest id is required")
	// ErrContestNotFound indicates the referenced contest does not exist.
	ErrContestNotFound = errors.New("bookmarks: contest not found")
	// ErrDuplicate indicates the user already bookmarked the contest.
	ErrDuplicate = errors.New("bookmarks: contest already bookmarked")
	// ErrNotFound indicates no bookmark exists for the requested identifier.
	ErrNotFound = errors.New("bookmarks: bookmark not found")
	// ErrNotOwner indicates the requester does not own the bookmark.
	ErrNotOwner = errors.New("bookmarks: not the bookmark owner")
)

// IDProvider issues identifiers for new bookmarks.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig describes the dependencies of the bookmark service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider IDProvider
}

// Service manages per-user contest bookmarks.
type Service struct {
	db         *gorm.DB
	now        func() time.Time
	idProvider IDProvider
}

// NewService constructs the bookmark service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("bookmarks: database connection required")
	}
	if cfg.IDProvider == nil {
		return nil, fmt.Errorf("bookmarks: id provider required")
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

// List returns the user's bookmarks, newest first, each populated with its
// contest.
func (s *Service) List(ctx context.Context, userID string) ([]Bookmark, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUserID
	}

	var items []Bookmark
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Contest").
		Order("created_at_s DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("bookmarks: list: %w", err)
	}
	return items, nil
}

// Add bookmarks a contest for the user. The contest must exist, and the pair
// must not already be bookmarked.
func (s *Service) Add(ctx context.Context, userID, contestID string) (Bookmark, error) {
	if strings.TrimSpace(userID) == "" {
		return Bookmark{}, ErrMissingUserID
	}
	if strings.TrimSpace(contestID) == "" {
		return Bookmark{}, ErrMissingContestID
	}

	var contest contests.Contest
	err := s.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Take(&contest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Bookmark{}, ErrContestNotFound
	}
	if err != nil {
		return Bookmark{}, fmt.Errorf("bookmarks: contest lookup: %w", err)
	}

	var existing Bookmark
	err = s.db.WithContext(ctx).
		Where("contest_id = ? AND user_id = ?", contestID, userID).
		Take(&existing).Error
	if err == nil {
		return Bookmark{}, ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Bookmark{}, fmt.Errorf("bookmarks: duplicate lookup: %w", err)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		return Bookmark{}, fmt.Errorf("bookmarks: id generation: %w", err)
	}

	bookmark := Bookmark{
		BookmarkID:       id,
		ContestID:        contestID,
		UserID:           userID,
		CreatedAtSeconds: s.now().UTC().Unix(),
	}
	if err := s.db.WithContext(ctx).Create(&bookmark).Error; err != nil {
		return Bookmark{}, fmt.Errorf("bookmarks: create: %w", err)
	}

	bookmark.Contest = &contest
	return bookmark, nil
}

// Remove deletes a bookmark. Only the owning user may delete it.
func (s *Service) Remove(ctx context.Context, bookmarkID, userID string) error {
	var bookmark Bookmark
	err := s.db.WithContext(ctx).
		Where("bookmark_id = ?", bookmarkID).
		Take(&bookmark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("bookmarks: lookup: %w", err)
	}

	if bookmark.UserID != userID {
		return ErrNotOwner
	}

	if err := s.db.WithContext(ctx).Delete(&Bookmark{}, "bookmark_id = ?", bookmarkID).Error; err != nil {
		return fmt.Errorf("bookmarks: delete: %w", err)
	}
	return nil
}
