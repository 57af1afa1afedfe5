package bookmarks

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
	return fmt.Sprintf("bookmark-%04d", g.next), nil
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:bookmarks_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&contests.Contest{}, &Bookmark{}); err != nil {
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

func TestAddCreatesBookmarkWithContest(t *testing.T) {
	service, db := newTestService(t)
	seedContest(t, db, "contest-1")

	bookmark, err := service.Add(context.Background(), "user-1", "contest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bookmark.Contest == nil || bookmark.Contest.ContestID != "contest-1" {
		t.Fatalf("expected populated contest, got %+v", bookmark.Contest)
	}
}

func TestAddRejectsUnknownContest(t *testing.T) {
	service, _ := newTestService(t)

	if _, err := service.Add(context.Background(), "user-1", "missing"); !errors.Is(err, ErrContestNotFound) {
		t.Fatalf("expected ErrContestNotFound, got %v", err)
	}
}

func TestAddRejectsDuplicatePair(t *testing.T) {
	service, db := newTestService(t)
	seedContest(t, db, "contest-1")

	if _, err := service.Add(context.Background(), "user-1", "contest-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Add(context.Background(), "user-1", "contest-1"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAddAllowsSameContestForDifferentUsers(t *testing.T) {
	service, db := newTestService(t)
	seedContest(t, db, "contest-1")

	if _, err := service.Add(context.Background(), "user-1", "contest-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Add(context.Background(), "user-2", "contest-1"); err != nil {
		t.Fatalf("unexpected error for second user: %v", err)
	}
}

func TestListRequiresUserID(t *testing.T) {
	service, _ := newTestService(t)

	if _, err := service.List(context.Background(), " "); !errors.Is(err, ErrMissingUserID) {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
}

func TestListReturnsOnlyOwnBookmarks(t *testing.T) {
	service, db := newTestService(t)
	seedContest(t, db, "contest-1")

	if _, err := service.Add(context.Background(), "user-1", "contest-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Add(context.Background(), "user-2", "contest-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := service.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].UserID != "user-1" {
		t.Fatalf("expected only user-1 bookmarks, got %+v", items)
	}
	if items[0].Contest == nil {
		t.Fatalf("expected contest to be populated")
	}
}

func TestRemoveRejectsNonOwner(t *testing.T) {
	service, db := newTestService(t)
	seedContest(t, db, "contest-1")

	bookmark, err := service.Add(context.Background(), "user-1", "contest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.Remove(context.Background(), bookmark.BookmarkID, "user-2"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	var total int64
	if err := db.Model(&Bookmark{}).Count(&total).Error; err != nil {
		t.Fatalf("failed to count bookmarks: %v", err)
	}
	if total != 1 {
		t.Fatalf("bookmark should survive unauthorized delete, got %d rows", total)
	}
}

func TestRemoveDeletesOwnBookmark(t *testing.T) {
	service, db := newTestService(t)
	seedContest(t, db, "contest-1")

	bookmark, err := service.Add(context.Background(), "user-1", "contest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.Remove(context.Background(), bookmark.BookmarkID, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var total int64
	if err := db.Model(&Bookmark{}).Count(&total).Error; err != nil {
		t.Fatalf("failed to count bookmarks: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected bookmark to be deleted, got %d rows", total)
	}
}

func TestRemoveUnknownBookmark(t *testing.T) {
	service, _ := newTestService(t)

	if err := service.Remove(context.Background(), "missing", "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
