package solutions

// Solution links one contest to one walkthrough video. contest_id is unique:
// a contest carries at most one solution, whether submitted manually or
// attached by the video matcher.
type Solution struct {
	SolutionID       string `gorm:"column:solution_id;primaryKey;size:190;not null" json:"id"`
	ContestID        string `gorm:"column:contest_id;size:190;not null;uniqueIndex:uq_solutions_contest" json:"contest_id"`
	VideoURL         string `gorm:"column:video_url;not null" json:"video_url"`
	VideoID          string `gorm:"column:video_id;size:190;not null;default:''" json:"video_id,omitempty"`
	AddedBy          string `gorm:"column:added_by;size:190;not null" json:"added_by"`
	AddedManually    bool   `gorm:"column:added_manually;not null;default:true" json:"added_manually"`
	CreatedAtSeconds int64  `gorm:"column:created_at_s;not null" json:"created_at_s"`
}

// TableName provides the explicit table binding for GORM.
func (Solution) TableName() string {
	return "solutions"
}
