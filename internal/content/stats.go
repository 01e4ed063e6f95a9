package content

import "github.com/devfolio/internal/db"

// Stats summarizes the collection for the dashboard surface.
type Stats struct {
	TotalPosts int    `json:"totalPosts"`
	Published  int    `json:"published"`
	Drafts     int    `json:"drafts"`
	TotalViews uint64 `json:"totalViews"`
}

// Summarize computes dashboard stats from an in-memory snapshot, so it
// works identically over both content modes.
func Summarize(items []db.Post) Stats {
	stats := Stats{TotalPosts: len(items)}
	for _, item := range items {
		switch item.Status {
		case db.StatusPublished:
			stats.Published++
		case db.StatusDraft:
			stats.Drafts++
		}
		stats.TotalViews += item.Views
	}
	return stats
}
