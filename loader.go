package sitekit

import "context"

// ContentLoader resolves localized blog posts.
type ContentLoader interface {
	// LoadBlogPost returns the published post identified by (lang, slug),
	// or ErrNotFound.
	LoadBlogPost(ctx context.Context, slug, lang string) (*Post, error)
	// LoadBlogPosts returns the published posts in lang, newest first.
	// The result is empty, never nil, when lang has no posts.
	LoadBlogPosts(ctx context.Context, lang string) ([]Post, error)
}

// CachedLoader is the ContentLoader used by the HTTP layer. It reads through
// a PostCache, so rendered HTML is computed once per cache load.
type CachedLoader struct {
	cache *PostCache
	langs *Languages
}

// NewCachedLoader returns a ContentLoader backed by cache. When langs is
// non-nil, posts stored in other languages are not served.
func NewCachedLoader(cache *PostCache, langs *Languages) *CachedLoader {
	return &CachedLoader{cache: cache, langs: langs}
}

func (l *CachedLoader) published(code string) bool {
	return l.langs == nil || l.langs.Supported(code)
}

// LoadBlogPost implements ContentLoader. lang is canonicalized first, so
// "EN" and "en" resolve to the same post.
func (l *CachedLoader) LoadBlogPost(ctx context.Context, slug, lang string) (*Post, error) {
	code, err := CanonicalLang(lang)
	if err != nil {
		return nil, err
	}
	if !l.published(code) {
		return nil, ErrNotFound
	}
	post, err := l.cache.GetPost(ctx, code, slug)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// LoadBlogPosts implements ContentLoader.
func (l *CachedLoader) LoadBlogPosts(ctx context.Context, lang string) ([]Post, error) {
	return l.LoadBlogPostsTagged(ctx, lang, "")
}

// LoadBlogPostsTagged is LoadBlogPosts restricted to posts carrying tag.
func (l *CachedLoader) LoadBlogPostsTagged(ctx context.Context, lang, tag string) ([]Post, error) {
	code, err := CanonicalLang(lang)
	if err != nil {
		return nil, err
	}
	if !l.published(code) {
		return []Post{}, nil
	}
	return l.cache.ListPosts(ctx, code, tag)
}
