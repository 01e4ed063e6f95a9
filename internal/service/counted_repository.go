package service

import (
	"context"
	"errors"

	"github.com/devfolio/internal/content"
	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
)

// CountedRepository layers the relational view counters onto any content
// repository. Both content modes are wrapped with it, so posts carry the
// tracked count no matter where their bodies live, and deleting a post
// removes its counter and audit history in the same place for both modes.
type CountedRepository struct {
	inner content.Repository
	db    *gorm.DB
}

// NewCountedRepository wraps a content repository with view-count hydration.
func NewCountedRepository(inner content.Repository, gdb *gorm.DB) *CountedRepository {
	return &CountedRepository{inner: inner, db: gdb}
}

var _ content.Repository = (*CountedRepository)(nil)

// List delegates to the inner repository and fills in Views from the
// counter table. Posts without a counter row report zero.
func (r *CountedRepository) List(ctx context.Context) ([]db.Post, error) {
	posts, err := r.inner.List(ctx)
	if err != nil || len(posts) == 0 {
		return posts, err
	}

	slugs := make([]string, 0, len(posts))
	for _, post := range posts {
		slugs = append(slugs, post.Slug)
	}

	var counters []db.ViewCounter
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&counters).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]uint64, len(counters))
	for _, counter := range counters {
		counts[counter.Slug] = counter.Views
	}
	for i := range posts {
		posts[i].Views = counts[posts[i].Slug]
	}
	return posts, nil
}

// GetBySlug delegates and fills in Views for the single post.
func (r *CountedRepository) GetBySlug(ctx context.Context, slug string) (*db.Post, error) {
	post, err := r.inner.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	views, err := r.viewsFor(ctx, post.Slug)
	if err != nil {
		return nil, err
	}
	post.Views = views
	return post, nil
}

// Create delegates; a new post starts with no counter row, so Views is zero.
func (r *CountedRepository) Create(ctx context.Context, input content.PostInput) (*db.Post, error) {
	return r.inner.Create(ctx, input)
}

// Update delegates and re-hydrates the count on the result.
func (r *CountedRepository) Update(ctx context.Context, slug string, input content.PostInput) (*db.Post, error) {
	post, err := r.inner.Update(ctx, slug, input)
	if err != nil {
		return nil, err
	}

	views, err := r.viewsFor(ctx, post.Slug)
	if err != nil {
		return nil, err
	}
	post.Views = views
	return post, nil
}

// Delete removes the post from the inner store, then its counter and view
// history. A failed inner delete leaves the tracking rows untouched.
func (r *CountedRepository) Delete(ctx context.Context, slug string) error {
	if err := r.inner.Delete(ctx, slug); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ?", slug).Delete(&db.PostView{}).Error; err != nil {
			return err
		}
		return tx.Where("slug = ?", slug).Delete(&db.ViewCounter{}).Error
	})
}

func (r *CountedRepository) viewsFor(ctx context.Context, slug string) (uint64, error) {
	var counter db.ViewCounter
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&counter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return counter.Views, nil
}
