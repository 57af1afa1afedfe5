package bookmarks

import "github.com/contesthub/backend/internal/contests"

// Bookmark pins a contest for one user. (contest_id, user_id) is unique: a
// user bookmarks a contest at most once. The contest reference is a lookup
// edge only; removing a contest does not cascade here.
type Bookmark struct {
	BookmarkID       string `gorm:"column:bookmark_id;primaryKey;size:190;not null" json:"id"`
	ContestID        string `gorm:"column:contest_id;size:190;not null;uniqueIndex:uq_bookmarks_contest_user,priority:1" json:"contest_id"`
	UserID           string `gorm:"column:user_id;size:190;not null;uniqueIndex:uq_bookmarks_contest_user,priority:2;index:idx_bookmarks_user" json:"user_id"`
	CreatedAtSeconds int64  `gorm:"column:created_at_s;not null" json:"created_at_s"`

	Contest *contests.Contest `gorm:"foreignKey:ContestID;references:ContestID" json:"contest,omitempty"`
}

// TableName provides the explicit table binding for GORM.
func (Bookmark) TableName() string {
	return "bookmarks"
}
