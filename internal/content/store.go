package content

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

const loadConcurrency = 8

// Store is an immutable, date-ordered set of posts.
type Store struct {
	posts  []Post
	bySlug map[string]int
}

// Load parses every *.md file at the root of fsys. Files that cannot be
// parsed are skipped with a warning; a duplicate slug is an error.
func Load(ctx context.Context, fsys fs.FS) (*Store, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read posts directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(path.Ext(e.Name()), ".md") {
			names = append(names, e.Name())
		}
	}

	parsed := make([]*Post, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := fs.ReadFile(fsys, name)
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			post, err := ParsePost(name, raw)
			if err != nil {
				slog.Warn("Skipping post", "file", name, "error", err)
				return nil
			}
			if post.Game != "" && !slices.Contains(KnownGames, post.Game) {
				slog.Warn("Post references unknown game", "file", name, "game", post.Game)
			}
			parsed[i] = &post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var posts []Post
	for _, p := range parsed {
		if p != nil {
			posts = append(posts, *p)
		}
	}
	return New(posts)
}

// New builds a store from already-parsed posts, newest first.
func New(posts []Post) (*Store, error) {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b Post) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})

	bySlug := make(map[string]int, len(sorted))
	for i, p := range sorted {
		if _, dup := bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate post slug %q", p.Slug)
		}
		bySlug[p.Slug] = i
	}

	return &Store{posts: sorted, bySlug: bySlug}, nil
}

// Len returns the number of posts.
func (s *Store) Len() int { return len(s.posts) }

// List returns post summaries, newest first.
func (s *Store) List() []Post {
	out := make([]Post, len(s.posts))
	for i, p := range s.posts {
		out[i] = p.Summary()
	}
	return out
}

// Recent returns at most n post summaries, newest first.
func (s *Store) Recent(n int) []Post {
	all := s.List()
	if n < 0 || n >= len(all) {
		return all
	}
	return all[:n]
}

// Related returns summaries of posts about the given game.
func (s *Store) Related(game string) []Post {
	out := []Post{}
	for _, p := range s.posts {
		if p.Game == game {
			out = append(out, p.Summary())
		}
	}
	return out
}

// Get returns the full post with the given slug.
func (s *Store) Get(slug string) (Post, error) {
	i, ok := s.bySlug[slug]
	if !ok {
		return Post{}, fmt.Errorf("%q: %w", slug, ErrNotFound)
	}
	return s.posts[i], nil
}
