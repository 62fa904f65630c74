package sitekit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

// ErrNoFrontMatter is returned for content files without a leading --- block.
var ErrNoFrontMatter = errors.New("missing front matter")

// FrontMatter is the YAML header of a content file.
type FrontMatter struct {
	Title   string   `yaml:"title"`
	Slug    string   `yaml:"slug"`
	Lang    string   `yaml:"lang"`
	Date    string   `yaml:"date"`
	Author  string   `yaml:"author"`
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
	Draft   bool     `yaml:"draft"`
}

// ImportResult reports what an import run did.
type ImportResult struct {
	Imported int
	Skipped  int
	// Unsupported lists files whose language is not configured.
	Unsupported []string
}

// Importer loads static Markdown content into the Store.
// Files are laid out as <dir>/blog/<lang>/<name>.md.
type Importer struct {
	store *Store
	cache *PostCache
	langs *Languages
}

// NewImporter creates an Importer. cache may be nil. When langs is non-nil,
// posts in languages the site does not publish are skipped.
func NewImporter(store *Store, cache *PostCache, langs *Languages) *Importer {
	return &Importer{store: store, cache: cache, langs: langs}
}

// ImportDir upserts every post found under dir/blog. A missing blog
// directory imports nothing.
func (im *Importer) ImportDir(ctx context.Context, dir string) (ImportResult, error) {
	var res ImportResult
	root := filepath.Join(dir, "blog")
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return res, nil
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".md" {
			res.Skipped++
			return nil
		}
		post, err := readPostFile(path)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		if im.langs != nil && !im.langs.Supported(post.Lang) {
			res.Skipped++
			res.Unsupported = append(res.Unsupported, path)
			return nil
		}
		if err := im.store.SavePost(ctx, post); err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		res.Imported++
		return nil
	})
	if im.cache != nil && res.Imported > 0 {
		im.cache.Invalidate()
	}
	return res, err
}

func readPostFile(path string) (Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Post{}, err
	}
	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		return Post{}, err
	}
	if fm.Lang == "" {
		fm.Lang = filepath.Base(filepath.Dir(path))
	}
	if fm.Date == "" {
		info, err := os.Stat(path)
		if err != nil {
			return Post{}, err
		}
		fm.Date = info.ModTime().UTC().Format("2006-01-02")
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fm.post(base, body)
}

// post validates the front matter and builds a Post. fallbackSlug is used
// when the header has no slug.
func (fm FrontMatter) post(fallbackSlug, body string) (Post, error) {
	lang, err := CanonicalLang(fm.Lang)
	if err != nil {
		return Post{}, err
	}
	s := strings.TrimSpace(fm.Slug)
	if s == "" {
		s = slug.Make(fallbackSlug)
	}
	if !slug.IsSlug(s) {
		return Post{}, fmt.Errorf("invalid slug %q", s)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return Post{}, fmt.Errorf("title is required")
	}
	if _, err := time.Parse("2006-01-02", fm.Date); err != nil {
		return Post{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", fm.Date)
	}
	return Post{
		Lang:      lang,
		Slug:      s,
		Title:     strings.TrimSpace(fm.Title),
		Date:      fm.Date,
		Author:    fm.Author,
		Tags:      FilterEmpty(fm.Tags),
		Summary:   strings.TrimSpace(fm.Summary),
		Content:   body,
		Published: !fm.Draft,
	}, nil
}

// ParseFrontMatter splits a content file into its YAML header and Markdown body.
func ParseFrontMatter(data []byte) (FrontMatter, string, error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return FrontMatter{}, "", ErrNoFrontMatter
	}
	rest := data[len("---\n"):]
	var header, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---\n")) || bytes.Equal(rest, []byte("---")):
		header, body = nil, bytes.TrimPrefix(rest, []byte("---"))
	default:
		end := bytes.Index(rest, []byte("\n---"))
		if end < 0 {
			return FrontMatter{}, "", fmt.Errorf("%w: unterminated header", ErrNoFrontMatter)
		}
		header = rest[:end]
		body = rest[end+len("\n---"):]
	}
	var fm FrontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return FrontMatter{}, "", fmt.Errorf("parse front matter: %w", err)
	}
	return fm, strings.TrimLeft(string(body), "\n"), nil
}
