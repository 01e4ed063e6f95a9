package content

import (
	"sort"
	"strings"
	"time"

	"github.com/devfolio/internal/db"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortCreated SortKey = "created"
	SortUpdated SortKey = "updated"
	SortTitle   SortKey = "title"
	SortViews   SortKey = "views"
)

// FilterAll is the permissive value for the status and category dimensions.
const FilterAll = "all"

// FilterState describes the active search/filter/sort configuration.
// The zero value is fully permissive: every item passes and the default
// ordering (newest created first) applies.
type FilterState struct {
	Query    string
	Status   string
	Category string
	MinViews *uint64
	MaxViews *uint64
	From     *time.Time
	To       *time.Time
	SortKey  SortKey
	SortDesc bool
}

// ActiveCount reports how many filter dimensions deviate from their
// permissive default. The sort order is an ordering choice, not a filter,
// and is not counted.
func (s FilterState) ActiveCount() int {
	count := 0
	if strings.TrimSpace(s.Query) != "" {
		count++
	}
	if filterSet(s.Status) {
		count++
	}
	if filterSet(s.Category) {
		count++
	}
	if s.MinViews != nil || s.MaxViews != nil {
		count++
	}
	if s.From != nil && s.To != nil {
		count++
	}
	return count
}

func filterSet(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && !strings.EqualFold(v, FilterAll)
}

// Derive applies the filter pipeline to items and returns the ordered
// subset. Stages run in a fixed order with the sort last; the input slice
// is never mutated. An empty result is a valid outcome.
func Derive(items []db.Post, state FilterState) []db.Post {
	result := make([]db.Post, 0, len(items))

	query := strings.ToLower(strings.TrimSpace(state.Query))
	for _, item := range items {
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		if filterSet(state.Status) && !strings.EqualFold(item.Status, state.Status) {
			continue
		}
		if filterSet(state.Category) && !strings.EqualFold(item.Category, state.Category) {
			continue
		}
		if state.MinViews != nil && item.Views < *state.MinViews {
			continue
		}
		if state.MaxViews != nil && item.Views > *state.MaxViews {
			continue
		}
		// The date range only applies once both bounds are set.
		if state.From != nil && state.To != nil {
			if item.CreatedAt.Before(*state.From) || item.CreatedAt.After(*state.To) {
				continue
			}
		}
		result = append(result, item)
	}

	sortItems(result, state)
	return result
}

func matchesQuery(item db.Post, query string) bool {
	return strings.Contains(strings.ToLower(item.Title), query) ||
		strings.Contains(strings.ToLower(item.Description), query) ||
		strings.Contains(strings.ToLower(item.Slug), query)
}

func sortItems(items []db.Post, state FilterState) {
	key := state.SortKey
	desc := state.SortDesc
	if key == "" {
		// Default ordering mirrors the list endpoints: newest first.
		key = SortCreated
		desc = true
	}

	less := func(a, b db.Post) bool {
		switch key {
		case SortUpdated:
			return a.UpdatedAt.Before(b.UpdatedAt)
		case SortTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortViews:
			return a.Views < b.Views
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
