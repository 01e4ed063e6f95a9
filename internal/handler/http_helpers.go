package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devfolio/internal/content"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// parseFilterState maps list query parameters onto a FilterState.
// Malformed values fall back to the permissive default for that dimension.
func parseFilterState(c *gin.Context) content.FilterState {
	state := content.FilterState{
		Query:    strings.TrimSpace(c.Query("q")),
		Status:   strings.TrimSpace(c.Query("status")),
		Category: strings.TrimSpace(c.Query("category")),
		SortKey:  content.SortKey(strings.TrimSpace(c.Query("sort"))),
		SortDesc: !strings.EqualFold(c.Query("order"), "asc"),
	}

	if raw := c.Query("min_views"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			state.MinViews = &v
		}
	}
	if raw := c.Query("max_views"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			state.MaxViews = &v
		}
	}
	if t, _, ok := parseDateQuery(c.Query("from")); ok {
		state.From = &t
	}
	if t, dateOnly, ok := parseDateQuery(c.Query("to")); ok {
		// A date-only upper bound means "through the end of that day".
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		state.To = &t
	}

	switch state.SortKey {
	case content.SortCreated, content.SortUpdated, content.SortTitle, content.SortViews:
	default:
		state.SortKey = content.SortCreated
	}

	return state
}

func parseDateQuery(raw string) (t time.Time, dateOnly, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true, true
	}
	return time.Time{}, false, false
}
