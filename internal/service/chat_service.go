package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/devfolio/internal/content"
	"github.com/devfolio/internal/db"
	"github.com/rs/zerolog"
)

const chatSystemPrompt = "You are the assistant on a personal blog and portfolio site. " +
	"Answer questions about the site's articles and projects. " +
	"Use the search_posts tool to look up content before answering; " +
	"if nothing relevant exists, say so instead of guessing."

// maxToolRounds bounds the tool-call loop so a misbehaving model cannot
// keep the request open indefinitely.
const maxToolRounds = 3

const searchResultLimit = 5

// ChatMessage is one turn of conversation history as the API accepts it.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type searchResult struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
}

// ChatService answers visitor questions, grounding replies in site content
// through a search tool the model can call.
type ChatService struct {
	client *chatClient
	repo   content.Repository
	logger zerolog.Logger
}

// NewChatService creates a ChatService. An empty apiKey leaves the service
// constructed but disabled.
func NewChatService(apiKey, model, baseURL string, repo content.Repository, logger zerolog.Logger) *ChatService {
	return &ChatService{
		client: newChatClient(apiKey, model, baseURL),
		repo:   repo,
		logger: logger,
	}
}

// SetHTTPClient swaps the underlying HTTP client; tests use this.
func (s *ChatService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// Enabled reports whether an API key is configured.
func (s *ChatService) Enabled() bool {
	return s.client.enabled()
}

// Chat runs one exchange, resolving tool calls against the content
// repository before returning the model's final reply.
func (s *ChatService) Chat(ctx context.Context, history []ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", errors.New("empty chat history")
	}

	messages := make([]chatMessage, 0, len(history)+1)
	messages = append(messages, chatMessage{Role: "system", Content: chatSystemPrompt})
	for _, m := range history {
		role := strings.TrimSpace(m.Role)
		if role != "user" && role != "assistant" {
			continue
		}
		messages = append(messages, chatMessage{Role: role, Content: m.Content})
	}

	tools := []toolDefinition{searchPostsTool()}

	for round := 0; round <= maxToolRounds; round++ {
		reply, err := s.client.complete(ctx, messages, tools)
		if err != nil {
			return "", err
		}

		if len(reply.ToolCalls) == 0 {
			return strings.TrimSpace(reply.Content), nil
		}

		messages = append(messages, reply)
		for _, call := range reply.ToolCalls {
			result := s.executeTool(ctx, call)
			messages = append(messages, chatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	return "", fmt.Errorf("chat exceeded %d tool rounds", maxToolRounds)
}

func searchPostsTool() toolDefinition {
	return toolDefinition{
		Type: "function",
		Function: toolFunction{
			Name:        "search_posts",
			Description: "Search published blog posts and projects by keyword.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Keywords to match against titles, descriptions and slugs.",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

func (s *ChatService) executeTool(ctx context.Context, call toolCall) string {
	if call.Function.Name != "search_posts" {
		return fmt.Sprintf(`{"error":"unknown tool %q"}`, call.Function.Name)
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return `{"error":"invalid tool arguments"}`
	}

	results, err := s.searchPosts(ctx, args.Query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", args.Query).Msg("search tool failed")
		return `{"error":"search failed"}`
	}

	encoded, err := json.Marshal(results)
	if err != nil {
		return `{"error":"search failed"}`
	}
	return string(encoded)
}

func (s *ChatService) searchPosts(ctx context.Context, query string) ([]searchResult, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := content.Derive(items, content.FilterState{
		Query:  query,
		Status: db.StatusPublished,
	})

	if len(matched) > searchResultLimit {
		matched = matched[:searchResultLimit]
	}

	results := make([]searchResult, 0, len(matched))
	for _, item := range matched {
		results = append(results, searchResult{
			Title:       item.Title,
			Slug:        item.Slug,
			Description: item.Description,
			Category:    item.Category,
		})
	}
	return results, nil
}
