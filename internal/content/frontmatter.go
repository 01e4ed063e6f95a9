package content

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// ErrNoFrontMatter is returned when a document lacks the leading YAML block.
var ErrNoFrontMatter = errors.New("document has no front matter block")

// FrontMatter is the YAML header of a file-mode post.
type FrontMatter struct {
	ID            string    `yaml:"id"`
	Title         string    `yaml:"title"`
	Description   string    `yaml:"description,omitempty"`
	Date          time.Time `yaml:"date"`
	Status        string    `yaml:"status"`
	Tags          []string  `yaml:"tags,omitempty"`
	Author        string    `yaml:"author,omitempty"`
	AuthorImage   string    `yaml:"authorImage,omitempty"`
	FeaturedImage string    `yaml:"featuredImage,omitempty"`
	Website       string    `yaml:"website,omitempty"`
}

// ParseDocument splits a Markdown document into its front matter and body.
func ParseDocument(raw string) (FrontMatter, string, error) {
	var fm FrontMatter

	trimmed := strings.TrimLeft(raw, "\uFEFF\n\r")
	if !strings.HasPrefix(trimmed, frontMatterDelimiter) {
		return fm, "", ErrNoFrontMatter
	}

	rest := trimmed[len(frontMatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontMatterDelimiter)
	if idx < 0 {
		return fm, "", ErrNoFrontMatter
	}

	header := rest[:idx]
	body := rest[idx+len(frontMatterDelimiter)+1:]
	body = strings.TrimLeft(body, "\r\n")

	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return fm, "", fmt.Errorf("parsing front matter: %w", err)
	}

	return fm, body, nil
}

// ComposeDocument renders front matter and body back into a Markdown document.
func ComposeDocument(fm FrontMatter, body string) (string, error) {
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontMatterDelimiter)
	b.WriteString("\n")
	b.Write(header)
	b.WriteString(frontMatterDelimiter)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimLeft(body, "\n"))
	return b.String(), nil
}
