// Package github implements the file-backed content mode: posts live as
// Markdown documents with YAML front matter inside a GitHub repository,
// manipulated through the contents API.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrFileNotFound is returned for 404 responses from the contents API.
var ErrFileNotFound = errors.New("file not found in repository")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a minimal GitHub contents API client.
type Client struct {
	http    httpDoer
	baseURL string
	token   string
	owner   string
	repo    string
	branch  string
}

// NewClient creates a contents API client for one repository and branch.
func NewClient(token, owner, repo, branch string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.github.com",
		token:   strings.TrimSpace(token),
		owner:   owner,
		repo:    repo,
		branch:  branch,
	}
}

// SetHTTPClient swaps the underlying HTTP client; tests use this.
func (c *Client) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
		return
	}
	c.http = client
}

// SetBaseURL overrides the API host, e.g. for GitHub Enterprise or tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

// FileEntry is one item of a directory listing.
type FileEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Type string `json:"type"`
}

// File is a fetched repository file with decoded content.
type File struct {
	Path    string
	SHA     string
	Content []byte
}

type contentResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

type writeRequest struct {
	Message string `json:"message"`
	Content string `json:"content,omitempty"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

// ListDir returns the entries of a repository directory. A missing
// directory is reported as ErrFileNotFound.
func (c *Client) ListDir(ctx context.Context, dir string) ([]FileEntry, error) {
	var entries []FileEntry
	if err := c.do(ctx, http.MethodGet, c.contentsURL(dir), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetFile fetches one file and decodes its base64 payload.
func (c *Client) GetFile(ctx context.Context, path string) (*File, error) {
	var resp contentResponse
	if err := c.do(ctx, http.MethodGet, c.contentsURL(path), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Type != "" && resp.Type != "file" {
		return nil, fmt.Errorf("%s is not a file", path)
	}

	decoded, err := base64.StdEncoding.DecodeString(stripWhitespace(resp.Content))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &File{Path: resp.Path, SHA: resp.SHA, Content: decoded}, nil
}

// PutFile creates or updates a file. Updating an existing file requires
// its current blob SHA; pass an empty sha to create.
func (c *Client) PutFile(ctx context.Context, path, message string, content []byte, sha string) error {
	payload := writeRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     sha,
		Branch:  c.branch,
	}
	return c.do(ctx, http.MethodPut, c.contentsURL(path), &payload, nil)
}

// DeleteFile removes a file; the current blob SHA is required.
func (c *Client) DeleteFile(ctx context.Context, path, message, sha string) error {
	payload := writeRequest{
		Message: message,
		SHA:     sha,
		Branch:  c.branch,
	}
	return c.do(ctx, http.MethodDelete, c.contentsURL(path), &payload, nil)
}

func (c *Client) contentsURL(path string) string {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, strings.TrimLeft(path, "/"))
	if c.branch != "" {
		endpoint += "?ref=" + url.QueryEscape(c.branch)
	}
	return endpoint
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling GitHub API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrFileNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("GitHub API returned %d: %s", resp.StatusCode, errorMessage(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(raw))
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
}
