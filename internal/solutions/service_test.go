package solutions

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/contesthub/backend/internal/contests"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type sequentialIDGenerator struct {
	next int
}

func (g *sequentialIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("solution-%04d", g.next), nil
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:solutions_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&contests.Contest{}, &Solution{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	service, err := NewService(ServiceConfig{
		Database:   db,
		Clock:      func() time.Time { return time.Unix(1700100000, 0).UTC() },
		IDProvider: &sequentialIDGenerator{},
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return service, db
}

func seedContest(t *testing.T, db *gorm.DB, contestID string) {
	t.Helper()
	contest := contests.Contest{
		ContestID:         contestID,
		Name:              "Round 784",
		Platform:          contests.PlatformCodeforces,
		URL:               "https://codeforces.com/contest/784",
		StartTimeSeconds:  1700000000,
		EndTimeSeconds:    1700007200,
		DurationMinutes:   120,
		PlatformContestID: "784",
	}
	if err := db.Create(&contest).Error; err != nil {
		t.Fatalf("failed to seed contest: %v", err)
	}
}

func TestCreateStoresManualSolutionRecord(t *testing.T) {
	service, db := newTestService(t)
	seedContest(t, db, "contest-1")

	solution, err := service.Create(context.Background(), CreateRequest{
		ContestID: "contest-1",
		VideoURL:  "https://www.youtube.com/watch?v=abc123",
		VideoID:   "abc123",
		AddedBy:   "editorial-team",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !solution.AddedManually {
		t.Fatalf("manual submissions must be flagged added_manually")
	}

	stored, err := service.GetByContest(context.Background(), "contest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.VideoURL != "https://www.youtube.com/watch?v=abc123" {
		t.Fatalf("unexpected video url: %s", stored.VideoURL)
	}
}

func TestCreateRejectsUnknownContest(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), CreateRequest{
		ContestID: "missing",
		VideoURL:  "https://www.youtube.com/watch?v=abc123",
		AddedBy:   "editorial-team",
	})
	if !errors.Is(err, ErrContestNotFound) {
		t.Fatalf("expected ErrContestNotFound, got %v", err)
	}
}

func TestCreateRejectsSecondSolutionForContest(t *testing.T) {
	service, db := newTestService(t)
	seedContest(t, db, "contest-1")

	first := CreateRequest{
		ContestID: "contest-1",
		VideoURL:  "https://www.youtube.com/watch?v=abc123",
		AddedBy:   "editorial-team",
	}
	if _, err := service.Create(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := first
	second.VideoURL = "https://www.youtube.com/watch?v=def456"
	if _, err := service.Create(context.Background(), second); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateRequiresFields(t *testing.T) {
	service, _ := newTestService(t)

	if _, err := service.Create(context.Background(), CreateRequest{VideoURL: "x", AddedBy: "y"}); !errors.Is(err, ErrMissingContestID) {
		t.Fatalf("expected ErrMissingContestID, got %v", err)
	}
	if _, err := service.Create(context.Background(), CreateRequest{ContestID: "x", AddedBy: "y"}); !errors.Is(err, ErrMissingVideoURL) {
		t.Fatalf("expected ErrMissingVideoURL, got %v", err)
	}
	if _, err := service.Create(context.Background(), CreateRequest{ContestID: "x", VideoURL: "y"}); !errors.Is(err, ErrMissingAddedBy) {
		t.Fatalf("expected ErrMissingAddedBy, got %v", err)
	}
}

func TestAttachMatchedWritesAutomaticSolution(t *testing.T) {
	service, db := newTestService(t)
	seedContest(t, db, "contest-1")

	written, err := service.AttachMatched(context.Background(), "contest-1", "https://www.youtube.com/watch?v=abc123", "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !written {
		t.Fatalf("expected solution to be written")
	}

	stored, err := service.GetByContest(context.Background(), "contest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.AddedManually {
		t.Fatalf("matcher solutions must not be flagged added_manually")
	}
	if stored.AddedBy != matcherAuthor {
		t.Fatalf("unexpected added_by: %s", stored.AddedBy)
	}
}

func TestAttachMatchedKeepsExistingSolution(t *testing.T) {
	service, db := newTestService(t)
	seedContest(t, db, "contest-1")

	if _, err := service.Create(context.Background(), CreateRequest{
		ContestID: "contest-1",
		VideoURL:  "https://www.youtube.com/watch?v=manual",
		AddedBy:   "editorial-team",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	written, err := service.AttachMatched(context.Background(), "contest-1", "https://www.youtube.com/watch?v=auto", "auto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written {
		t.Fatalf("existing solution must not be overwritten")
	}

	stored, err := service.GetByContest(context.Background(), "contest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.VideoURL != "https://www.youtube.com/watch?v=manual" {
		t.Fatalf("expected the manual solution to survive, got %s", stored.VideoURL)
	}
}

func TestGetByContestNotFound(t *testing.T) {
	service, _ := newTestService(t)

	if _, err := service.GetByContest(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
