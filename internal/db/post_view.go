package db

import "time"

// PostView 记录一次被接受的去重浏览，作为审计日志保留，只插入不更新。
// 以 slug 作为键，因此两种内容模式共用同一份浏览历史。
type PostView struct {
	ID         uint   `gorm:"primaryKey"`
	Slug       string `gorm:"size:255;index:idx_slug_viewer_time"`
	ViewerHash string `gorm:"size:64;index:idx_slug_viewer_time"`
	IP         string `gorm:"size:64"`
	UserAgent  string
	Referrer   string
	ViewedAt   time.Time `gorm:"index:idx_slug_viewer_time"`
	CreatedAt  time.Time
}

// TableName 指定自定义表名。
func (PostView) TableName() string {
	return "post_views"
}
