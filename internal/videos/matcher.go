package videos

import (
	"strings"

	"github.com/contesthub/backend/internal/contests"
)

// Video is one entry from an external solution feed (a YouTube playlist).
type Video struct {
	Title              string `json:"title"`
	VideoID            string `json:"video_id"`
	URL                string `json:"url"`
	PublishedAtSeconds int64  `json:"published_at_s"`
}

// Match pairs a video with the contest its title appears to cover.
type Match struct {
	Contest contests.Contest
	Video   Video
}

// MatchVideos links videos to contests by case-folded substring: a video
// matches the first contest whose name or platform contest id occurs in its
// title, and contributes at most one match. Best effort only: titles that do
// not literally embed the contest name stay unmatched, and short ids can
// collide.
func MatchVideos(candidates []contests.Contest, feed []Video) []Match {
	matches := make([]Match, 0, len(feed))
	for _, video := range feed {
		title := strings.ToLower(video.Title)
		for _, contest := range candidates {
			name := strings.ToLower(contest.Name)
			ref := strings.ToLower(contest.PlatformContestID)
			if name == "" && ref == "" {
				continue
			}
			if (name != "" && strings.Contains(title, name)) ||
				(ref != "" && strings.Contains(title, ref)) {
				matches = append(matches, Match{Contest: contest, Video: video})
				break
			}
		}
	}
	return matches
}
