package content

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/devfolio/internal/db"
)

// ErrNotFound is returned by repositories when a slug resolves to nothing.
var ErrNotFound = errors.New("post not found")

// PostInput carries the fields accepted when creating or updating a post.
type PostInput struct {
	Title         string
	Description   string
	Content       string
	FeaturedImage string
	Status        string
	Category      string
	Author        string
	AuthorImage   string
	Website       string
	Tags          []string
}

// Repository abstracts the content store. The database mode and the
// GitHub file mode both implement it; callers never know which is active.
type Repository interface {
	List(ctx context.Context) ([]db.Post, error)
	GetBySlug(ctx context.Context, slug string) (*db.Post, error)
	Create(ctx context.Context, input PostInput) (*db.Post, error)
	Update(ctx context.Context, slug string, input PostInput) (*db.Post, error)
	Delete(ctx context.Context, slug string) error
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a title into a URL-safe slug.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugInvalid.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// NormalizeStatus maps arbitrary input onto a known status, defaulting to draft.
func NormalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case db.StatusPublished:
		return db.StatusPublished
	case db.StatusUnpublished:
		return db.StatusUnpublished
	default:
		return db.StatusDraft
	}
}

// NormalizeCategory maps arbitrary input onto a known category, defaulting to blog.
func NormalizeCategory(category string) string {
	if strings.EqualFold(strings.TrimSpace(category), db.CategoryProject) {
		return db.CategoryProject
	}
	return db.CategoryBlog
}
