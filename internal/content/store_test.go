package content

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

const montyPost = `---
slug: intro-to-monty-hall
title: "The Monty Hall Problem"
date: "2024-07-26"
author: "Dr. Probability"
excerpt: "Should you switch?"
tags: ["Probability", "Puzzles"]
game: monty-hall
---

## Three doors

Pick one.
`

const dilemmaPost = `---
slug: 'prisoners-dilemma-strategies'
title: "Cooperate or Betray"
date: "2024-07-27"
tags: ["Game Theory"]
game: "prisoners-dilemma"
---

**Tit-for-Tat** wins.
`

const staircasePost = `---
slug: staircase-fibonacci
title: Climbing Stairs
date: 2024-07-28
game: staircase
---
Fibonacci.
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"01-monty.md":     {Data: []byte(montyPost)},
		"02-dilemma.md":   {Data: []byte(dilemmaPost)},
		"03-staircase.md": {Data: []byte(staircasePost)},
		"04-untitled.md":  {Data: []byte("---\nslug: draft\n---\nNo title.\n")},
		"05-plain.md":     {Data: []byte("# No front matter\n")},
		"notes.txt":       {Data: []byte("ignored")},
	}
}

func TestLoad(t *testing.T) {
	store, err := Load(context.Background(), testFS())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if store.Len() != 3 {
		t.Fatalf("Expected 3 posts, got %d", store.Len())
	}

	list := store.List()
	wantOrder := []string{"staircase-fibonacci", "prisoners-dilemma-strategies", "intro-to-monty-hall"}
	for i, slug := range wantOrder {
		if list[i].Slug != slug {
			t.Errorf("Position %d: got %s, want %s", i, list[i].Slug, slug)
		}
		if list[i].HTML != "" {
			t.Errorf("Listing for %s includes HTML", slug)
		}
	}
}

func TestGet(t *testing.T) {
	store, err := Load(context.Background(), testFS())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	post, err := store.Get("prisoners-dilemma-strategies")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !strings.Contains(post.HTML, "<strong>Tit-for-Tat</strong>") {
		t.Errorf("Expected rendered markdown, got %q", post.HTML)
	}
	if !post.Date.Equal(time.Date(2024, 7, 27, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected date %v", post.Date)
	}
	if post.Game != GamePrisonersDilemma {
		t.Errorf("Unexpected game %q", post.Game)
	}

	if _, err := store.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecentAndRelated(t *testing.T) {
	store, _ := Load(context.Background(), testFS())

	if got := store.Recent(2); len(got) != 2 || got[0].Slug != "staircase-fibonacci" {
		t.Errorf("Unexpected Recent(2): %v", got)
	}
	if got := store.Recent(10); len(got) != 3 {
		t.Errorf("Expected all posts from Recent(10), got %d", len(got))
	}

	related := store.Related(GameStaircase)
	if len(related) != 1 || related[0].Slug != "staircase-fibonacci" {
		t.Errorf("Unexpected related posts: %v", related)
	}
	if got := store.Related("chess"); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", got)
	}
}

func TestParsePost_Errors(t *testing.T) {
	if _, err := ParsePost("a.md", []byte("---\ntitle: x\n---\n")); !errors.Is(err, ErrMissingField) {
		t.Errorf("Expected ErrMissingField, got %v", err)
	}
	if _, err := ParsePost("b.md", []byte("hello")); !errors.Is(err, ErrNoFrontMatter) {
		t.Errorf("Expected ErrNoFrontMatter, got %v", err)
	}
	if _, err := ParsePost("c.md", []byte("---\nslug: s\ntitle: t\ndate: yesterday\n---\n")); err == nil {
		t.Error("Expected bad date to fail")
	}
}

func TestParsePost_DefaultsTags(t *testing.T) {
	post, err := ParsePost("d.md", []byte("---\nslug: s\ntitle: t\n---\nbody\n"))
	if err != nil {
		t.Fatalf("ParsePost failed: %v", err)
	}
	if post.Tags == nil {
		t.Error("Expected empty tag slice, got nil")
	}
}

func TestNew_DuplicateSlug(t *testing.T) {
	_, err := New([]Post{{Slug: "a", Title: "A"}, {Slug: "a", Title: "B"}})
	if err == nil {
		t.Error("Expected duplicate slug error")
	}
}
