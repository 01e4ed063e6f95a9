package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devfolio/internal/content"
	"github.com/devfolio/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrSlugTaken is returned when a new post's slug collides with a live post.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrTitleRequired is returned when a post is created without a title.
	ErrTitleRequired = errors.New("title is required")
)

// PostService is the database-backed content repository.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// List returns all posts ordered by created time descending.
func (s *PostService) List(ctx context.Context) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.WithContext(ctx).Preload("Tags").Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetBySlug fetches a post by its slug with tags preloaded.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.WithContext(ctx).Preload("Tags").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, content.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a post and associates tags in a transaction.
// The slug is derived from the title and must be unique among live posts.
func (s *PostService) Create(ctx context.Context, input content.PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	slug := content.Slugify(title)

	var count int64
	if err := s.db.WithContext(ctx).Model(&db.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	post := db.Post{
		GUID:          uuid.NewString(),
		Slug:          slug,
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		Content:       input.Content,
		FeaturedImage: strings.TrimSpace(input.FeaturedImage),
		Status:        content.NormalizeStatus(input.Status),
		Category:      content.NormalizeCategory(input.Category),
		Author:        strings.TrimSpace(input.Author),
		AuthorImage:   strings.TrimSpace(input.AuthorImage),
		Website:       strings.TrimSpace(input.Website),
	}

	if err := s.saveWithTags(ctx, &post, input.Tags); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update applies updates to an existing post. The slug stays stable across
// edits so published URLs never break; status moves wherever the input says.
func (s *PostService) Update(ctx context.Context, slug string, input content.PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, content.ErrNotFound
		}
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		existing.Title = title
	}
	existing.Description = strings.TrimSpace(input.Description)
	existing.Content = input.Content
	existing.FeaturedImage = strings.TrimSpace(input.FeaturedImage)
	existing.Status = content.NormalizeStatus(input.Status)
	existing.Category = content.NormalizeCategory(input.Category)
	existing.Author = strings.TrimSpace(input.Author)
	existing.AuthorImage = strings.TrimSpace(input.AuthorImage)
	existing.Website = strings.TrimSpace(input.Website)

	if err := s.saveWithTags(ctx, &existing, input.Tags); err != nil {
		return nil, err
	}
	return &existing, nil
}

// Delete removes a post. Hard delete, no tombstone. View history and the
// counter row live in the tracking tables and are cleaned up by the
// counting wrapper, which owns them for both content modes.
func (s *PostService) Delete(ctx context.Context, slug string) error {
	var post db.Post
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return content.ErrNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("clearing tag associations: %w", err)
		}
		return tx.Delete(&post).Error
	})
}

func (s *PostService) saveWithTags(ctx context.Context, post *db.Post, tagNames []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}

		tags := make([]db.Tag, 0, len(tagNames))
		for _, name := range tagNames {
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				continue
			}
			var tag db.Tag
			if err := tx.Where("name = ?", trimmed).FirstOrCreate(&tag, db.Tag{Name: trimmed}).Error; err != nil {
				return fmt.Errorf("resolving tag %q: %w", trimmed, err)
			}
			tags = append(tags, tag)
		}

		if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
			return err
		}
		post.Tags = tags
		return nil
	})
}
