package sitekit

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps a SQLite database and provides CRUD operations for posts and
// form submissions.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during writes; busy_timeout makes writers wait
	// instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    lang TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL,
    summary TEXT NOT NULL,
    content TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1,
    updated_at TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (lang, slug)
);
CREATE INDEX IF NOT EXISTS idx_posts_lang_date ON posts(lang, date);

CREATE TABLE IF NOT EXISTS submissions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    form TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    company TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL DEFAULT '',
    page TEXT NOT NULL DEFAULT '',
    lang TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `lang, slug, title, date, author, tags, summary, content, published, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var p Post
	var tags string
	var published int
	if err := row.Scan(&p.Lang, &p.Slug, &p.Title, &p.Date, &p.Author, &tags, &p.Summary, &p.Content, &published, &p.UpdatedAt); err != nil {
		return Post{}, err
	}
	p.Tags = ParseTags(tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Published = published == 1
	p.Link = postLink(p.Lang, p.Slug)
	return p, nil
}

func collectPosts(rows *sql.Rows) ([]Post, error) {
	defer rows.Close()
	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// postLink is the site-relative path of a post page.
func postLink(lang, slug string) string {
	return "/blog/" + lang + "/" + slug + "/"
}

// ListPosts returns published posts in lang ordered by date descending.
// If tag is non-empty, results are filtered to posts containing that tag.
func (s *Store) ListPosts(ctx context.Context, lang, tag string) ([]Post, error) {
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts WHERE published = 1 AND lang = ? ORDER BY date DESC, slug`, lang)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts WHERE published = 1 AND lang = ? AND instr(lower(tags), ',' || ? || ',') > 0 ORDER BY date DESC, slug`, lang, normalizeTag(tag))
	}
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// ListPublished returns every published post in every language.
func (s *Store) ListPublished(ctx context.Context) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts WHERE published = 1 ORDER BY date DESC, lang, slug`)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// ListAllPosts returns every post (published and drafts) ordered by date descending.
func (s *Store) ListAllPosts(ctx context.Context) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY date DESC, lang, slug`)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// ListLanguages returns the sorted set of languages with published posts.
func (s *Store) ListLanguages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT lang FROM posts WHERE published = 1 ORDER BY lang`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var langs []string
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return langs, rows.Err()
}

// ListTags returns a sorted, deduplicated slice of tags from published posts in lang.
func (s *Store) ListTags(ctx context.Context, lang string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tags FROM posts WHERE published = 1 AND lang = ?`, lang)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[normalizeTag(t)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPost returns a single published post.
func (s *Store) GetPost(ctx context.Context, lang, slug string) (Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE lang = ? AND slug = ? AND published = 1`, lang, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

// GetPostAny returns a post regardless of published status (for admin).
func (s *Store) GetPostAny(ctx context.Context, lang, slug string) (Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE lang = ? AND slug = ?`, lang, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

// SavePost upserts a post. Tags are normalized to lowercase.
func (s *Store) SavePost(ctx context.Context, p Post) error {
	normalizedTags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t = normalizeTag(t); t != "" {
			normalizedTags = append(normalizedTags, t)
		}
	}
	tagString := "," + strings.Join(normalizedTags, ",") + ","
	published := 0
	if p.Published {
		published = 1
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Lang, p.Slug, p.Title, p.Date, p.Author, tagString, p.Summary, p.Content, published, time.Now().UTC().Format(time.RFC3339))
	return err
}

// DeletePost removes a post. Deleting a missing post is not an error.
func (s *Store) DeletePost(ctx context.Context, lang, slug string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE lang = ? AND slug = ?`, lang, slug)
	return err
}

// SaveSubmission stores a form submission and returns its id.
func (s *Store) SaveSubmission(ctx context.Context, sub Submission) (int64, error) {
	if sub.CreatedAt == "" {
		sub.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO submissions (form, name, email, company, message, page, lang, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.Form, sub.Name, sub.Email, sub.Company, sub.Message, sub.Page, sub.Lang, sub.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSubmissions returns the most recent submissions, newest first.
func (s *Store) ListSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, form, name, email, company, message, page, lang, created_at FROM submissions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	subs := []Submission{}
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.Form, &sub.Name, &sub.Email, &sub.Company, &sub.Message, &sub.Page, &sub.Lang, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// SaveImage records metadata for an uploaded image.
func (s *Store) SaveImage(ctx context.Context, img Image) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ImageExists reports whether filename is already taken.
func (s *Store) ImageExists(ctx context.Context, filename string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images WHERE filename = ?`, filename).Scan(&n)
	return n > 0, err
}

// ListImages returns uploaded images, newest first.
func (s *Store) ListImages(ctx context.Context) ([]Image, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC, filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	images := []Image{}
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata.
func (s *Store) DeleteImage(ctx context.Context, filename string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE filename = ?`, filename)
	return err
}
