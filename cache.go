package sitekit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eringen/sitekit/markdown"
)

// PostCache is an in-memory cache of published posts and tags with TTL.
// One load covers every language.
type PostCache struct {
	mu      sync.RWMutex
	snap    *postSnapshot
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// postSnapshot is never mutated after load.
type postSnapshot struct {
	byLang map[string][]Post
	bySlug map[postKey]Post
	tags   map[string][]string
}

type postKey struct {
	lang string
	slug string
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.snap != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPublished(ctx)
	if err != nil {
		return err
	}
	snap := &postSnapshot{
		byLang: make(map[string][]Post),
		bySlug: make(map[postKey]Post, len(posts)),
		tags:   make(map[string][]string),
	}
	tagSets := make(map[string]map[string]struct{})
	for _, p := range posts {
		p.HTML = markdown.Render(p.Content)
		snap.byLang[p.Lang] = append(snap.byLang[p.Lang], p)
		snap.bySlug[postKey{p.Lang, p.Slug}] = p
		if tagSets[p.Lang] == nil {
			tagSets[p.Lang] = make(map[string]struct{})
		}
		for _, t := range p.Tags {
			tagSets[p.Lang][normalizeTag(t)] = struct{}{}
		}
	}
	for lang, set := range tagSets {
		list := make([]string, 0, len(set))
		for t := range set {
			list = append(list, t)
		}
		sort.Strings(list)
		snap.tags[lang] = list
	}
	c.snap = snap
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the current snapshot after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) (*postSnapshot, error) {
	c.mu.RLock()
	if c.valid() {
		snap := c.snap
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.snap, nil
}

// ListPosts returns published posts in lang, optionally filtered by tag.
// The result is never nil.
func (c *PostCache) ListPosts(ctx context.Context, lang, tag string) ([]Post, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	posts := snap.byLang[lang]
	normalized := normalizeTag(tag)
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if normalized == "" || hasTag(p, normalized) {
			out = append(out, p)
		}
	}
	return out, nil
}

// AllPosts returns every published post, grouped by language.
func (c *PostCache) AllPosts(ctx context.Context) ([]Post, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	langs := make([]string, 0, len(snap.byLang))
	for lang := range snap.byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	var out []Post
	for _, lang := range langs {
		out = append(out, snap.byLang[lang]...)
	}
	return out, nil
}

// ListTags returns all unique tags from published posts in lang.
func (c *PostCache) ListTags(ctx context.Context, lang string) ([]string, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return snap.tags[lang], nil
}

// GetPost returns a single published post from the cache.
func (c *PostCache) GetPost(ctx context.Context, lang, slug string) (Post, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return Post{}, err
	}
	p, ok := snap.bySlug[postKey{lang, slug}]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

// Translations returns the published posts sharing slug in other languages.
func (c *PostCache) Translations(ctx context.Context, lang, slug string) ([]Post, error) {
	snap, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	var out []Post
	for key, p := range snap.bySlug {
		if key.slug == slug && key.lang != lang {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lang < out[j].Lang })
	return out, nil
}

func hasTag(p Post, normalized string) bool {
	for _, t := range p.Tags {
		if normalizeTag(t) == normalized {
			return true
		}
	}
	return false
}
