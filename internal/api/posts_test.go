package api

import (
	"net/http"
	"testing"

	"github.com/ashureev/mathlab/internal/content"
)

type postList struct {
	Posts []content.Post `json:"posts"`
	Total int            `json:"total"`
}

func TestPosts_List(t *testing.T) {
	env := newTestEnv(t)

	var got postList
	if code := env.do(t, http.MethodGet, "/api/posts", "", &got); code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", code)
	}
	if got.Total != 3 || len(got.Posts) != 3 {
		t.Fatalf("Expected 3 posts, got %d", len(got.Posts))
	}
	if got.Posts[0].Slug != "stairs" {
		t.Errorf("Expected newest post first, got %s", got.Posts[0].Slug)
	}
	for _, p := range got.Posts {
		if p.HTML != "" {
			t.Errorf("Listing for %s carries HTML", p.Slug)
		}
	}
}

func TestPosts_ListLimitAndGame(t *testing.T) {
	env := newTestEnv(t)

	var limited postList
	env.do(t, http.MethodGet, "/api/posts?limit=2", "", &limited)
	if len(limited.Posts) != 2 {
		t.Errorf("Expected 2 posts, got %d", len(limited.Posts))
	}

	var byGame postList
	env.do(t, http.MethodGet, "/api/posts?game=prisoners-dilemma", "", &byGame)
	if len(byGame.Posts) != 1 || byGame.Posts[0].Slug != "dilemma" {
		t.Errorf("Expected only the dilemma post, got %+v", byGame.Posts)
	}

	if code := env.do(t, http.MethodGet, "/api/posts?game=chess", "", nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown game, got %d", code)
	}
	if code := env.do(t, http.MethodGet, "/api/posts?limit=abc", "", nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad limit, got %d", code)
	}
}

func TestPosts_Get(t *testing.T) {
	env := newTestEnv(t)

	var got content.Post
	if code := env.do(t, http.MethodGet, "/api/posts/monty", "", &got); code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", code)
	}
	if got.HTML != "<p>doors</p>" {
		t.Errorf("Expected rendered HTML, got %q", got.HTML)
	}

	if code := env.do(t, http.MethodGet, "/api/posts/missing", "", nil); code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", code)
	}
}
