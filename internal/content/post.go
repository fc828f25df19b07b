// Package content loads blog posts written in Markdown with YAML front
// matter and serves them by slug.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.yaml.in/yaml/v3"
)

// Game identifiers that posts may link to.
const (
	GameMontyHall        = "monty-hall"
	GamePrisonersDilemma = "prisoners-dilemma"
	GameStaircase        = "staircase"
)

// KnownGames lists the simulations a post can reference.
var KnownGames = []string{GameMontyHall, GamePrisonersDilemma, GameStaircase}

var (
	// ErrNotFound is returned when no post has the requested slug.
	ErrNotFound = errors.New("post not found")
	// ErrMissingField marks a post without a slug or title.
	ErrMissingField = errors.New("post missing required field")
	// ErrNoFrontMatter marks a file that does not start with a --- block.
	ErrNoFrontMatter = errors.New("post has no front matter")
)

// Post is a blog article. HTML is empty in listings.
type Post struct {
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
	Author  string    `json:"author,omitempty"`
	Excerpt string    `json:"excerpt,omitempty"`
	Tags    []string  `json:"tags"`
	Game    string    `json:"game,omitempty"`
	HTML    string    `json:"html,omitempty"`
}

type frontMatter struct {
	Slug    string   `yaml:"slug"`
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Author  string   `yaml:"author"`
	Excerpt string   `yaml:"excerpt"`
	Tags    []string `yaml:"tags"`
	Game    string   `yaml:"game"`
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// ParsePost decodes one Markdown file. name is only used in errors.
func ParsePost(name string, raw []byte) (Post, error) {
	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return Post{}, fmt.Errorf("%s: %w", name, err)
	}

	var fm frontMatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return Post{}, fmt.Errorf("%s: decode front matter: %w", name, err)
	}
	if strings.TrimSpace(fm.Slug) == "" || strings.TrimSpace(fm.Title) == "" {
		return Post{}, fmt.Errorf("%s: %w", name, ErrMissingField)
	}

	post := Post{
		Slug:    strings.TrimSpace(fm.Slug),
		Title:   fm.Title,
		Author:  fm.Author,
		Excerpt: fm.Excerpt,
		Tags:    fm.Tags,
		Game:    fm.Game,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if fm.Date != "" {
		post.Date, err = parseDate(fm.Date)
		if err != nil {
			return Post{}, fmt.Errorf("%s: %w", name, err)
		}
	}

	var buf bytes.Buffer
	if err := markdown.Convert(body, &buf); err != nil {
		return Post{}, fmt.Errorf("%s: render markdown: %w", name, err)
	}
	post.HTML = buf.String()

	return post, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}

func splitFrontMatter(raw []byte) (meta, body []byte, err error) {
	text := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	text = bytes.TrimPrefix(text, []byte("\ufeff"))

	const delim = "---\n"
	if !bytes.HasPrefix(text, []byte(delim)) {
		return nil, nil, ErrNoFrontMatter
	}
	rest := text[len(delim):]

	end := bytes.Index(rest, []byte("\n---\n"))
	switch {
	case end >= 0:
		return rest[:end], rest[end+len("\n---\n"):], nil
	case bytes.HasSuffix(rest, []byte("\n---")):
		return rest[:len(rest)-len("\n---")], nil, nil
	default:
		return nil, nil, ErrNoFrontMatter
	}
}

// Summary returns the post without its rendered body.
func (p Post) Summary() Post {
	p.HTML = ""
	return p
}
