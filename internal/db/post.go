package db

import "time"

// Post statuses. Transitions are unconstrained: an update may move a post
// from any status to any other.
const (
	StatusDraft       = "draft"
	StatusPublished   = "published"
	StatusUnpublished = "unpublished"
)

// Post categories, matching the two halves of the site.
const (
	CategoryBlog    = "blog"
	CategoryProject = "project"
)

// Post 定义了文章模型，博客文章与项目介绍共用一张表。
type Post struct {
	ID            uint   `gorm:"primaryKey"`
	GUID          string `gorm:"size:36;index"`
	Slug          string `gorm:"size:255;uniqueIndex"`
	Title         string `gorm:"size:255"`
	Description   string
	Content       string
	FeaturedImage string
	Status        string `gorm:"size:32;index;default:draft"`
	Category      string `gorm:"size:32;index;default:blog"`
	Author        string
	AuthorImage   string
	Website       string
	// Views 不落在 posts 表中：计数由 view_counters 表按 slug 维护，
	// 读取时填充，这样 GitHub 文件模式的文章也能携带计数。
	Views uint64 `gorm:"-"`
	Tags  []Tag `gorm:"many2many:post_tags;"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
