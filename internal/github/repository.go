package github

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/devfolio/internal/content"
	"github.com/devfolio/internal/db"
	"github.com/google/uuid"
)

const (
	blogDir    = "content/blogs"
	projectDir = "content/projects"
)

// Repository stores posts as Markdown files with YAML front matter,
// implementing the same contract as the database mode.
type Repository struct {
	client *Client
}

// NewRepository wraps a contents API client as a content repository.
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

var _ content.Repository = (*Repository)(nil)

// List reads every post under both content directories. A directory that
// does not exist yet is treated as empty, not as an error.
func (r *Repository) List(ctx context.Context) ([]db.Post, error) {
	var posts []db.Post
	for _, dir := range []string{blogDir, projectDir} {
		entries, err := r.client.ListDir(ctx, dir)
		if errors.Is(err, ErrFileNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.Type != "file" || !strings.HasSuffix(entry.Name, ".md") {
				continue
			}
			post, err := r.readPost(ctx, entry.Path)
			if err != nil {
				return nil, err
			}
			posts = append(posts, *post)
		}
	}
	return posts, nil
}

// GetBySlug resolves a slug against both content directories.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*db.Post, error) {
	filePath, _, err := r.locate(ctx, slug)
	if err != nil {
		return nil, err
	}
	return r.readPost(ctx, filePath)
}

// Create writes a new Markdown document. The file name is the slug, so
// slug uniqueness within a category falls out of the file system.
func (r *Repository) Create(ctx context.Context, input content.PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("title is required")
	}

	slug := content.Slugify(title)
	if _, _, err := r.locate(ctx, slug); err == nil {
		return nil, fmt.Errorf("slug %q already in use", slug)
	} else if !errors.Is(err, content.ErrNotFound) {
		return nil, err
	}

	fm := frontMatterFromInput(input)
	fm.ID = uuid.NewString()
	fm.Title = title
	fm.Date = time.Now().UTC()

	doc, err := content.ComposeDocument(fm, input.Content)
	if err != nil {
		return nil, err
	}

	filePath := path.Join(categoryDir(input.Category), slug+".md")
	message := fmt.Sprintf("Add post: %s", title)
	if err := r.client.PutFile(ctx, filePath, message, []byte(doc), ""); err != nil {
		return nil, fmt.Errorf("writing %s: %w", filePath, err)
	}

	post := postFromDocument(filePath, fm, input.Content)
	return &post, nil
}

// Update rewrites an existing document in place, carrying the stored id
// forward and leaving the slug untouched.
func (r *Repository) Update(ctx context.Context, slug string, input content.PostInput) (*db.Post, error) {
	filePath, sha, err := r.locate(ctx, slug)
	if err != nil {
		return nil, err
	}

	existing, err := r.readPost(ctx, filePath)
	if err != nil {
		return nil, err
	}

	fm := frontMatterFromInput(input)
	fm.ID = existing.GUID
	fm.Title = strings.TrimSpace(input.Title)
	if fm.Title == "" {
		fm.Title = existing.Title
	}
	fm.Date = existing.CreatedAt

	doc, err := content.ComposeDocument(fm, input.Content)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Update post: %s", fm.Title)
	targetPath := path.Join(categoryDir(input.Category), path.Base(filePath))
	if targetPath == filePath {
		if err := r.client.PutFile(ctx, filePath, message, []byte(doc), sha); err != nil {
			return nil, fmt.Errorf("writing %s: %w", filePath, err)
		}
	} else {
		// A category change moves the file between directories: write the
		// new location first, then drop the old one.
		if err := r.client.PutFile(ctx, targetPath, message, []byte(doc), ""); err != nil {
			return nil, fmt.Errorf("writing %s: %w", targetPath, err)
		}
		if err := r.client.DeleteFile(ctx, filePath, message, sha); err != nil {
			return nil, fmt.Errorf("removing %s: %w", filePath, err)
		}
	}

	post := postFromDocument(targetPath, fm, input.Content)
	return &post, nil
}

// Delete removes the document from the repository. Hard delete.
func (r *Repository) Delete(ctx context.Context, slug string) error {
	filePath, sha, err := r.locate(ctx, slug)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Delete post: %s", slug)
	if err := r.client.DeleteFile(ctx, filePath, message, sha); err != nil {
		return fmt.Errorf("deleting %s: %w", filePath, err)
	}
	return nil
}

func (r *Repository) locate(ctx context.Context, slug string) (string, string, error) {
	name := slug + ".md"
	for _, dir := range []string{blogDir, projectDir} {
		filePath := path.Join(dir, name)
		file, err := r.client.GetFile(ctx, filePath)
		if errors.Is(err, ErrFileNotFound) {
			continue
		}
		if err != nil {
			return "", "", err
		}
		return file.Path, file.SHA, nil
	}
	return "", "", content.ErrNotFound
}

func (r *Repository) readPost(ctx context.Context, filePath string) (*db.Post, error) {
	file, err := r.client.GetFile(ctx, filePath)
	if errors.Is(err, ErrFileNotFound) {
		return nil, content.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	fm, body, err := content.ParseDocument(string(file.Content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	post := postFromDocument(filePath, fm, body)
	return &post, nil
}

func frontMatterFromInput(input content.PostInput) content.FrontMatter {
	return content.FrontMatter{
		Description:   strings.TrimSpace(input.Description),
		Status:        content.NormalizeStatus(input.Status),
		Tags:          input.Tags,
		Author:        strings.TrimSpace(input.Author),
		AuthorImage:   strings.TrimSpace(input.AuthorImage),
		FeaturedImage: strings.TrimSpace(input.FeaturedImage),
		Website:       strings.TrimSpace(input.Website),
	}
}

func postFromDocument(filePath string, fm content.FrontMatter, body string) db.Post {
	slug := strings.TrimSuffix(path.Base(filePath), ".md")

	category := db.CategoryBlog
	if strings.HasPrefix(filePath, projectDir) {
		category = db.CategoryProject
	}

	tags := make([]db.Tag, 0, len(fm.Tags))
	for _, name := range fm.Tags {
		trimmed := strings.TrimSpace(name)
		if trimmed != "" {
			tags = append(tags, db.Tag{Name: trimmed})
		}
	}

	return db.Post{
		GUID:          fm.ID,
		Slug:          slug,
		Title:         fm.Title,
		Description:   fm.Description,
		Content:       body,
		FeaturedImage: fm.FeaturedImage,
		Status:        content.NormalizeStatus(fm.Status),
		Category:      category,
		Author:        fm.Author,
		AuthorImage:   fm.AuthorImage,
		Website:       fm.Website,
		Tags:          tags,
		CreatedAt:     fm.Date,
		UpdatedAt:     fm.Date,
	}
}

func categoryDir(category string) string {
	if content.NormalizeCategory(category) == db.CategoryProject {
		return projectDir
	}
	return blogDir
}
