package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/devfolio/internal/content"
	"github.com/devfolio/internal/db"
	"github.com/rs/zerolog"
)

type fakeRepository struct {
	items []db.Post
	err   error
}

func (f *fakeRepository) List(ctx context.Context) ([]db.Post, error) {
	return f.items, f.err
}

func (f *fakeRepository) GetBySlug(ctx context.Context, slug string) (*db.Post, error) {
	for i := range f.items {
		if f.items[i].Slug == slug {
			return &f.items[i], nil
		}
	}
	return nil, content.ErrNotFound
}

func (f *fakeRepository) Create(ctx context.Context, input content.PostInput) (*db.Post, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRepository) Update(ctx context.Context, slug string, input content.PostInput) (*db.Post, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRepository) Delete(ctx context.Context, slug string) error {
	for i := range f.items {
		if f.items[i].Slug == slug {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return content.ErrNotFound
}

type scriptedDoer struct {
	responses []string
	requests  [][]byte
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	d.requests = append(d.requests, body)

	if len(d.responses) == 0 {
		return nil, errors.New("no scripted response left")
	}
	next := d.responses[0]
	d.responses = d.responses[1:]

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte(next))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func chatTestRepo() *fakeRepository {
	return &fakeRepository{items: []db.Post{
		{Slug: "go-profiling", Title: "Profiling Go Services", Description: "pprof in production", Status: db.StatusPublished, Category: db.CategoryBlog},
		{Slug: "secret-draft", Title: "Unfinished Go Draft", Status: db.StatusDraft, Category: db.CategoryBlog},
	}}
}

func TestChatResolvesToolCalls(t *testing.T) {
	doer := &scriptedDoer{responses: []string{
		`{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"search_posts","arguments":"{\"query\":\"go\"}"}}]}}]}`,
		`{"choices":[{"message":{"role":"assistant","content":"See the profiling article."}}]}`,
	}}

	svc := NewChatService("test-key", "test-model", "https://example.test/v1", chatTestRepo(), zerolog.Nop())
	svc.SetHTTPClient(doer)

	reply, err := svc.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "anything about Go?"}})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if reply != "See the profiling article." {
		t.Fatalf("unexpected reply %q", reply)
	}

	if len(doer.requests) != 2 {
		t.Fatalf("expected 2 API calls, got %d", len(doer.requests))
	}

	// The second request must carry the tool result with the matching call id,
	// and the search must not leak unpublished drafts.
	var second chatCompletionRequest
	if err := json.Unmarshal(doer.requests[1], &second); err != nil {
		t.Fatalf("failed to decode second request: %v", err)
	}

	var toolMsg *chatMessage
	for i := range second.Messages {
		if second.Messages[i].Role == "tool" {
			toolMsg = &second.Messages[i]
		}
	}
	if toolMsg == nil {
		t.Fatal("expected a tool message in the follow-up request")
	}
	if toolMsg.ToolCallID != "call_1" {
		t.Fatalf("unexpected tool_call_id %q", toolMsg.ToolCallID)
	}
	if !strings.Contains(toolMsg.Content, "go-profiling") {
		t.Fatalf("expected published post in tool result, got %q", toolMsg.Content)
	}
	if strings.Contains(toolMsg.Content, "secret-draft") {
		t.Fatalf("draft leaked into tool result: %q", toolMsg.Content)
	}
}

func TestChatWithoutToolCalls(t *testing.T) {
	doer := &scriptedDoer{responses: []string{
		`{"choices":[{"message":{"role":"assistant","content":"Hello!"}}]}`,
	}}

	svc := NewChatService("test-key", "test-model", "", chatTestRepo(), zerolog.Nop())
	svc.SetHTTPClient(doer)

	reply, err := svc.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if reply != "Hello!" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestChatRequiresAPIKey(t *testing.T) {
	svc := NewChatService("", "test-model", "", chatTestRepo(), zerolog.Nop())

	if svc.Enabled() {
		t.Fatal("service without a key must report disabled")
	}
	if _, err := svc.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}); !errors.Is(err, ErrAPIKeyMissing) {
		t.Fatalf("expected ErrAPIKeyMissing, got %v", err)
	}
}

func TestChatToolRoundLimit(t *testing.T) {
	loop := `{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[{"id":"call_x","type":"function","function":{"name":"search_posts","arguments":"{\"query\":\"go\"}"}}]}}]}`
	doer := &scriptedDoer{responses: []string{loop, loop, loop, loop, loop}}

	svc := NewChatService("test-key", "test-model", "", chatTestRepo(), zerolog.Nop())
	svc.SetHTTPClient(doer)

	if _, err := svc.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected an error once the tool round limit is exceeded")
	}
}
