package service

import (
	"context"
	"errors"
	"time"

	"github.com/devfolio/internal/content"
	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/visitor"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Dedup is a trailing window from "now" at check time, not a calendar day.
const defaultDedupWindow = 24 * time.Hour

// Rejection reasons for the view tracking path. All are non-fatal; the
// caller treats every rejection as "do not display an incremented count".
const (
	ReasonBotDetected   = "bot_detected"
	ReasonUnknownIP     = "unknown_ip"
	ReasonPostNotFound  = "post_not_found"
	ReasonDuplicateView = "duplicate_view"
	ReasonServerError   = "server_error"
)

var errDuplicateView = errors.New("duplicate view inside dedup window")

// ViewRequest carries the request attributes the tracking decision needs.
type ViewRequest struct {
	Slug      string
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ViewResult is the tagged outcome of RecordView. It never carries an
// error: unexpected failures are logged server-side and collapse to
// ReasonServerError.
type ViewResult struct {
	Accepted bool
	Reason   string
	Views    uint64
}

// ViewService 负责处理文章浏览去重与计数。
// 文章是否存在通过 content.Repository 判定，计数与审计行始终落在
// 关系型数据库中，与内容存储模式无关。
type ViewService struct {
	db          *gorm.DB
	repo        content.Repository
	dedupWindow time.Duration
	logger      zerolog.Logger
}

// NewViewService creates a ViewService with the default 24h dedup window.
func NewViewService(gdb *gorm.DB, repo content.Repository, logger zerolog.Logger) *ViewService {
	return &ViewService{db: gdb, repo: repo, dedupWindow: defaultDedupWindow, logger: logger}
}

// WithDedupWindow 允许在测试或特定场景下调整去重窗口。
func (s *ViewService) WithDedupWindow(d time.Duration) *ViewService {
	if d <= 0 {
		return s
	}
	s.dedupWindow = d
	return s
}

// RecordView accepts at most one view per (post, fingerprint) inside the
// trailing dedup window. The audit insert and the counter increment happen
// in one transaction: either both land or neither does.
func (s *ViewService) RecordView(ctx context.Context, req ViewRequest, now time.Time) ViewResult {
	if visitor.IsBot(req.UserAgent) {
		return ViewResult{Reason: ReasonBotDetected}
	}
	if req.ClientIP == "" || req.ClientIP == visitor.UnknownIP {
		return ViewResult{Reason: ReasonUnknownIP}
	}

	if _, err := s.repo.GetBySlug(ctx, req.Slug); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return ViewResult{Reason: ReasonPostNotFound}
		}
		s.logger.Error().Err(err).Str("slug", req.Slug).Msg("resolving post failed")
		return ViewResult{Reason: ReasonServerError}
	}

	hash := visitor.Fingerprint(req.ClientIP, req.UserAgent)

	var views uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter db.ViewCounter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("slug = ?", req.Slug).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = db.ViewCounter{Slug: req.Slug}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var prior int64
		if err := tx.Model(&db.PostView{}).
			Where("slug = ? AND viewer_hash = ? AND viewed_at >= ?", req.Slug, hash, now.Add(-s.dedupWindow)).
			Count(&prior).Error; err != nil {
			return err
		}
		if prior > 0 {
			return errDuplicateView
		}

		view := db.PostView{
			Slug:       req.Slug,
			ViewerHash: hash,
			IP:         req.ClientIP,
			UserAgent:  req.UserAgent,
			Referrer:   req.Referrer,
			ViewedAt:   now,
		}
		if err := tx.Create(&view).Error; err != nil {
			return err
		}

		if err := tx.Model(&db.ViewCounter{}).
			Where("slug = ?", req.Slug).
			UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
			return err
		}

		// Post-increment value without a second read.
		views = counter.Views + 1
		return nil
	})

	switch {
	case err == nil:
		return ViewResult{Accepted: true, Views: views}
	case errors.Is(err, errDuplicateView):
		return ViewResult{Reason: ReasonDuplicateView}
	default:
		s.logger.Error().Err(err).Str("slug", req.Slug).Msg("record view failed")
		return ViewResult{Reason: ReasonServerError}
	}
}

// ViewCount returns the stored row count of accepted views for a post.
func (s *ViewService) ViewCount(slug string) (int64, error) {
	var count int64
	err := s.db.Model(&db.PostView{}).Where("slug = ?", slug).Count(&count).Error
	return count, err
}
