package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/devfolio/internal/content"
	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

type postResponse struct {
	ID            uint      `json:"id"`
	GUID          string    `json:"guid,omitempty"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Status        string    `json:"status"`
	Category      string    `json:"category"`
	Author        string    `json:"author,omitempty"`
	AuthorImage   string    `json:"authorImage,omitempty"`
	FeaturedImage string    `json:"featuredImage,omitempty"`
	Website       string    `json:"website,omitempty"`
	Views         uint64    `json:"views"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type postDetailResponse struct {
	postResponse
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
}

type postPayload struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Content       string   `json:"content"`
	FeaturedImage string   `json:"featuredImage"`
	Status        string   `json:"status"`
	Category      string   `json:"category"`
	Author        string   `json:"author"`
	AuthorImage   string   `json:"authorImage"`
	Website       string   `json:"website"`
	Tags          []string `json:"tags"`
}

func toResponse(post db.Post) postResponse {
	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, tag.Name)
	}
	return postResponse{
		ID:            post.ID,
		GUID:          post.GUID,
		Slug:          post.Slug,
		Title:         post.Title,
		Description:   post.Description,
		Status:        post.Status,
		Category:      post.Category,
		Author:        post.Author,
		AuthorImage:   post.AuthorImage,
		FeaturedImage: post.FeaturedImage,
		Website:       post.Website,
		Views:         post.Views,
		Tags:          tags,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
}

func toResponses(posts []db.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, toResponse(post))
	}
	return out
}

func (p postPayload) toInput() content.PostInput {
	return content.PostInput{
		Title:         p.Title,
		Description:   p.Description,
		Content:       p.Content,
		FeaturedImage: p.FeaturedImage,
		Status:        p.Status,
		Category:      p.Category,
		Author:        p.Author,
		AuthorImage:   p.AuthorImage,
		Website:       p.Website,
		Tags:          p.Tags,
	}
}

// ListPublishedPosts 返回公开内容列表，仅包含已发布文章。
func (a *API) ListPublishedPosts(c *gin.Context) {
	items, err := a.repo.List(c.Request.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("listing posts failed")
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	state := parseFilterState(c)
	state.Status = db.StatusPublished

	posts := content.Derive(items, state)
	c.JSON(http.StatusOK, gin.H{"posts": toResponses(posts)})
}

// GetPublishedPost 返回单篇已发布文章，正文渲染为净化后的 HTML。
func (a *API) GetPublishedPost(c *gin.Context) {
	post, err := a.repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		a.logger.Error().Err(err).Msg("fetching post failed")
		respondError(c, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	if post.Status != db.StatusPublished {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	html, err := service.RenderMarkdown(post.Content)
	if err != nil {
		a.logger.Error().Err(err).Str("slug", post.Slug).Msg("rendering markdown failed")
		html = ""
	}

	c.JSON(http.StatusOK, gin.H{"post": postDetailResponse{
		postResponse: toResponse(*post),
		Content:      post.Content,
		HTML:         html,
	}})
}

// ListPosts 返回后台列表，支持搜索、筛选与排序参数。
func (a *API) ListPosts(c *gin.Context) {
	items, err := a.repo.List(c.Request.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("listing posts failed")
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	state := parseFilterState(c)
	posts := content.Derive(items, state)

	c.JSON(http.StatusOK, gin.H{
		"posts":         toResponses(posts),
		"total":         len(items),
		"activeFilters": state.ActiveCount(),
	})
}

// GetPost 返回后台单篇文章（含原始 Markdown）。
func (a *API) GetPost(c *gin.Context) {
	post, err := a.repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		a.logger.Error().Err(err).Msg("fetching post failed")
		respondError(c, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": postDetailResponse{
		postResponse: toResponse(*post),
		Content:      post.Content,
	}})
}

// CreatePost 创建新文章
func (a *API) CreatePost(c *gin.Context) {
	var payload postPayload
	if !bindJSON(c, &payload, "invalid post payload") {
		return
	}

	post, err := a.repo.Create(c.Request.Context(), payload.toInput())
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) || errors.Is(err, service.ErrSlugTaken) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error().Err(err).Msg("creating post failed")
		respondError(c, http.StatusInternalServerError, "failed to create post")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": toResponse(*post)})
}

// UpdatePost 更新文章
func (a *API) UpdatePost(c *gin.Context) {
	var payload postPayload
	if !bindJSON(c, &payload, "invalid post payload") {
		return
	}

	post, err := a.repo.Update(c.Request.Context(), c.Param("slug"), payload.toInput())
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		a.logger.Error().Err(err).Msg("updating post failed")
		respondError(c, http.StatusInternalServerError, "failed to update post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": toResponse(*post)})
}

// DeletePost 删除文章
func (a *API) DeletePost(c *gin.Context) {
	if err := a.repo.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		a.logger.Error().Err(err).Msg("deleting post failed")
		respondError(c, http.StatusInternalServerError, "failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// Stats 返回仪表盘聚合指标。
func (a *API) Stats(c *gin.Context) {
	items, err := a.repo.List(c.Request.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("listing posts failed")
		respondError(c, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, content.Summarize(items))
}
