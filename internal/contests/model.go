package contests

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Platform identifies the competitive-programming site a contest belongs to.
type Platform string

const (
	PlatformCodeforces Platform = "Codeforces"
	PlatformCodeChef   Platform = "CodeChef"
	PlatformLeetCode   Platform = "LeetCode"
)

var (
	// ErrInvalidPlatform indicates an unrecognized platform name.
	ErrInvalidPlatform = errors.New("contests: invalid platform")
	// ErrInvalidStatus indicates an unrecognized status filter value.
	ErrInvalidStatus = errors.New("contests: invalid status")
)

// ParsePlatform maps raw client input to a Platform, case-insensitively.
func ParsePlatform(rawInput string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(rawInput)) {
	case "codeforces":
		return PlatformCodeforces, nil
	case "codechef":
		return PlatformCodeChef, nil
	case "leetcode":
		return PlatformLeetCode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, rawInput)
	}
}

// String returns the canonical platform name.
func (p Platform) String() string {
	return string(p)
}

// Status classifies a contest relative to a point in time. It is always
// derived from the clock at read time and never persisted.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusPast     Status = "past"
)

// ParseStatus maps raw client input to a Status.
func ParseStatus(rawInput string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(rawInput)) {
	case "upcoming":
		return StatusUpcoming, nil
	case "ongoing":
		return StatusOngoing, nil
	case "past":
		return StatusPast, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, rawInput)
	}
}

// Contest is the normalized record shared by every platform adapter.
// (platform, platform_contest_id) is the reconciliation key: a fetch that
// produces a known key fully overwrites the stored row, an unseen key inserts
// a new one. Rows are never deleted; finished contests persist as history.
type Contest struct {
	ContestID         string   `gorm:"column:contest_id;primaryKey;size:190;not null" json:"id"`
	Name              string   `gorm:"column:name;not null" json:"name"`
	Platform          Platform `gorm:"column:platform;size:32;not null;uniqueIndex:uq_contests_platform_ref,priority:1" json:"platform"`
	URL               string   `gorm:"column:url;not null" json:"url"`
	StartTimeSeconds  int64    `gorm:"column:start_time_s;not null;index:idx_contests_start" json:"start_time_s"`
	EndTimeSeconds    int64    `gorm:"column:end_time_s;not null" json:"end_time_s"`
	DurationMinutes   int64    `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	PlatformContestID string   `gorm:"column:platform_contest_id;size:190;not null;uniqueIndex:uq_contests_platform_ref,priority:2" json:"platform_contest_id"`
	CreatedAtSeconds  int64    `gorm:"column:created_at_s;not null" json:"-"`
	UpdatedAtSeconds  int64    `gorm:"column:updated_at_s;not null" json:"-"`
}

// TableName provides the explicit table binding for GORM.
func (Contest) TableName() string {
	return "contests"
}

// StatusAt classifies the contest relative to now. Both boundary instants
// count as ongoing: a contest is live from its start second through its end
// second inclusive.
func (c Contest) StatusAt(now time.Time) Status {
	seconds := now.Unix()
	switch {
	case seconds < c.StartTimeSeconds:
		return StatusUpcoming
	case seconds > c.EndTimeSeconds:
		return StatusPast
	default:
		return StatusOngoing
	}
}

// Key returns the reconciliation key used for in-batch deduplication.
func (c Contest) Key() string {
	return string(c.Platform) + ":" + c.PlatformContestID
}
