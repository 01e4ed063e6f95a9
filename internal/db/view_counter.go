package db

import "time"

// ViewCounter 保存每篇文章的去重浏览总数。计数始终落在关系型数据库中，
// 以 slug 作为键，与内容存储在哪种模式下无关。
type ViewCounter struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"size:255;uniqueIndex"`
	Views     uint64 `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定自定义表名。
func (ViewCounter) TableName() string {
	return "view_counters"
}
