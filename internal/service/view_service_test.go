package service

import (
	"context"
	"testing"
	"time"

	"github.com/devfolio/internal/db"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	browserUA = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	testIP    = "1.2.3.4"
)

func seedPost(t *testing.T, gdb *gorm.DB, slug string, views uint64) *db.Post {
	t.Helper()
	post := db.Post{Slug: slug, Title: slug, Status: db.StatusPublished}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	if err := gdb.Create(&db.ViewCounter{Slug: slug, Views: views}).Error; err != nil {
		t.Fatalf("failed to seed counter: %v", err)
	}
	return &post
}

func newViewService(gdb *gorm.DB) *ViewService {
	return NewViewService(gdb, NewPostService(gdb), zerolog.Nop())
}

func counterViews(t *testing.T, gdb *gorm.DB, slug string) uint64 {
	t.Helper()
	var counter db.ViewCounter
	if err := gdb.Where("slug = ?", slug).First(&counter).Error; err != nil {
		t.Fatalf("loading counter failed: %v", err)
	}
	return counter.Views
}

func TestRecordViewRejectsBots(t *testing.T) {
	gdb := setupTestDB(t)
	seedPost(t, gdb, "a", 5)
	svc := newViewService(gdb)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	result := svc.RecordView(ctx, ViewRequest{Slug: "a", ClientIP: testIP, UserAgent: "curl/8.0"}, now)
	if result.Accepted || result.Reason != ReasonBotDetected {
		t.Fatalf("expected bot_detected, got %+v", result)
	}

	result = svc.RecordView(ctx, ViewRequest{Slug: "a", ClientIP: testIP, UserAgent: ""}, now)
	if result.Accepted || result.Reason != ReasonBotDetected {
		t.Fatalf("expected bot_detected for empty UA, got %+v", result)
	}

	if views := counterViews(t, gdb, "a"); views != 5 {
		t.Fatalf("bot traffic must not change the counter, got %d", views)
	}
}

func TestRecordViewRejectsUnknownIP(t *testing.T) {
	gdb := setupTestDB(t)
	seedPost(t, gdb, "a", 0)
	svc := newViewService(gdb)

	result := svc.RecordView(context.Background(), ViewRequest{Slug: "a", ClientIP: "unknown", UserAgent: browserUA}, time.Now())
	if result.Accepted || result.Reason != ReasonUnknownIP {
		t.Fatalf("expected unknown_ip, got %+v", result)
	}
}

func TestRecordViewPostNotFound(t *testing.T) {
	svc := newViewService(setupTestDB(t))

	result := svc.RecordView(context.Background(), ViewRequest{Slug: "missing", ClientIP: testIP, UserAgent: browserUA}, time.Now())
	if result.Accepted || result.Reason != ReasonPostNotFound {
		t.Fatalf("expected post_not_found, got %+v", result)
	}
}

func TestRecordViewDedupWindow(t *testing.T) {
	gdb := setupTestDB(t)
	seedPost(t, gdb, "a", 5)
	svc := newViewService(gdb)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	req := ViewRequest{Slug: "a", ClientIP: testIP, UserAgent: browserUA}

	first := svc.RecordView(ctx, req, base)
	if !first.Accepted || first.Views != 6 {
		t.Fatalf("expected accepted view with count 6, got %+v", first)
	}

	// Same viewer inside the window: rejected, counter untouched.
	second := svc.RecordView(ctx, req, base.Add(23*time.Hour))
	if second.Accepted || second.Reason != ReasonDuplicateView {
		t.Fatalf("expected duplicate_view, got %+v", second)
	}
	if views := counterViews(t, gdb, "a"); views != 6 {
		t.Fatalf("expected counter 6 after duplicate, got %d", views)
	}

	// Past the trailing window the same viewer counts again.
	third := svc.RecordView(ctx, req, base.Add(25*time.Hour))
	if !third.Accepted || third.Views != 7 {
		t.Fatalf("expected accepted view with count 7, got %+v", third)
	}
}

func TestRecordViewDistinctViewers(t *testing.T) {
	gdb := setupTestDB(t)
	seedPost(t, gdb, "a", 0)
	svc := newViewService(gdb)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	first := svc.RecordView(ctx, ViewRequest{Slug: "a", ClientIP: testIP, UserAgent: browserUA}, now)
	if !first.Accepted {
		t.Fatalf("first viewer rejected: %+v", first)
	}

	// Different IP means a different fingerprint.
	second := svc.RecordView(ctx, ViewRequest{Slug: "a", ClientIP: "5.6.7.8", UserAgent: browserUA}, now)
	if !second.Accepted || second.Views != 2 {
		t.Fatalf("expected second distinct viewer accepted with count 2, got %+v", second)
	}
}

// Posts resolved through a content repository that never touches the posts
// table must still be trackable: the counter and audit rows are keyed by
// slug, independent of where the post body lives.
func TestRecordViewTracksFileBackedPosts(t *testing.T) {
	gdb := setupTestDB(t)
	repo := &fakeRepository{items: []db.Post{
		{Slug: "hello-world", Title: "Hello World", Status: db.StatusPublished, Category: db.CategoryBlog},
	}}
	svc := NewViewService(gdb, repo, zerolog.Nop())
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	first := svc.RecordView(ctx, ViewRequest{Slug: "hello-world", ClientIP: testIP, UserAgent: browserUA}, now)
	if !first.Accepted || first.Views != 1 {
		t.Fatalf("expected accepted view with count 1, got %+v", first)
	}

	dup := svc.RecordView(ctx, ViewRequest{Slug: "hello-world", ClientIP: testIP, UserAgent: browserUA}, now.Add(time.Hour))
	if dup.Accepted || dup.Reason != ReasonDuplicateView {
		t.Fatalf("expected duplicate_view, got %+v", dup)
	}

	if views := counterViews(t, gdb, "hello-world"); views != 1 {
		t.Fatalf("expected counter row for file-backed post, got %d", views)
	}

	missing := svc.RecordView(ctx, ViewRequest{Slug: "nope", ClientIP: testIP, UserAgent: browserUA}, now)
	if missing.Accepted || missing.Reason != ReasonPostNotFound {
		t.Fatalf("expected post_not_found, got %+v", missing)
	}
}

func TestRecordViewCounterMatchesAuditRows(t *testing.T) {
	gdb := setupTestDB(t)
	seedPost(t, gdb, "a", 0)
	svc := newViewService(gdb).WithDedupWindow(time.Hour)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	requests := []struct {
		ip string
		ua string
		at time.Time
	}{
		{testIP, browserUA, base},
		{testIP, browserUA, base.Add(10 * time.Minute)}, // duplicate
		{"5.6.7.8", browserUA, base.Add(20 * time.Minute)},
		{testIP, browserUA, base.Add(2 * time.Hour)}, // window expired
		{testIP, "curl/8.0", base.Add(2 * time.Hour)}, // bot
	}

	for _, r := range requests {
		svc.RecordView(ctx, ViewRequest{Slug: "a", ClientIP: r.ip, UserAgent: r.ua}, r.at)
	}

	rows, err := svc.ViewCount("a")
	if err != nil {
		t.Fatalf("view count failed: %v", err)
	}

	views := counterViews(t, gdb, "a")
	if uint64(rows) != views {
		t.Fatalf("counter drifted from audit log: views=%d rows=%d", views, rows)
	}
	if views != 3 {
		t.Fatalf("expected 3 accepted views, got %d", views)
	}
}

func TestRecordViewStoresAuditFields(t *testing.T) {
	gdb := setupTestDB(t)
	seedPost(t, gdb, "a", 0)
	svc := newViewService(gdb)

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.RecordView(context.Background(), ViewRequest{
		Slug:      "a",
		ClientIP:  testIP,
		UserAgent: browserUA,
		Referrer:  "https://news.ycombinator.com/",
	}, now)

	var view db.PostView
	if err := gdb.Where("slug = ?", "a").First(&view).Error; err != nil {
		t.Fatalf("audit row missing: %v", err)
	}

	if view.IP != testIP || view.UserAgent != browserUA {
		t.Fatalf("unexpected audit fields: %+v", view)
	}
	if view.Referrer != "https://news.ycombinator.com/" {
		t.Fatalf("unexpected referrer %q", view.Referrer)
	}
	if !view.ViewedAt.Equal(now) {
		t.Fatalf("unexpected ViewedAt %v", view.ViewedAt)
	}
	if len(view.ViewerHash) != 64 {
		t.Fatalf("expected sha256 hex hash, got %q", view.ViewerHash)
	}
}
