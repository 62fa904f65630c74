package sitekit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "test_site.db")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s, func() { s.Close() }
}

func mustSave(t *testing.T, s *Store, posts ...Post) {
	t.Helper()
	for _, p := range posts {
		if err := s.SavePost(context.Background(), p); err != nil {
			t.Fatalf("SavePost(%s/%s) failed: %v", p.Lang, p.Slug, err)
		}
	}
}

func TestNewStore(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	if s == nil || s.db == nil {
		t.Fatal("store and db should not be nil")
	}
}

func TestSaveAndGetPost(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustSave(t, s, Post{
		Lang:      "en",
		Slug:      "test-post",
		Title:     "Test Post",
		Date:      "2024-01-15",
		Author:    "Ada",
		Tags:      []string{"Go", " testing "},
		Summary:   "A test post summary",
		Content:   "# Test Content\n\nThis is test content.",
		Published: true,
	})

	got, err := s.GetPost(ctx, "en", "test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Test Post" || got.Author != "Ada" || got.Date != "2024-01-15" {
		t.Errorf("unexpected post: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
	if got.Link != "/blog/en/test-post/" {
		t.Errorf("Link = %q, want /blog/en/test-post/", got.Link)
	}
	if got.UpdatedAt == "" {
		t.Error("UpdatedAt should be set on save")
	}
	if !got.Published {
		t.Error("Published should be true")
	}
}

func TestGetPostIsKeyedByLanguage(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustSave(t, s,
		Post{Lang: "en", Slug: "hello", Title: "Hello", Date: "2024-01-01", Published: true},
		Post{Lang: "de", Slug: "hello", Title: "Hallo", Date: "2024-01-01", Published: true},
	)

	en, err := s.GetPost(ctx, "en", "hello")
	if err != nil {
		t.Fatalf("GetPost(en) failed: %v", err)
	}
	de, err := s.GetPost(ctx, "de", "hello")
	if err != nil {
		t.Fatalf("GetPost(de) failed: %v", err)
	}
	if en.Title != "Hello" || de.Title != "Hallo" {
		t.Errorf("titles = %q, %q; want Hello, Hallo", en.Title, de.Title)
	}
	if _, err := s.GetPost(ctx, "fr", "hello"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost(fr) error = %v, want ErrNotFound", err)
	}
}

func TestSavePostUpserts(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustSave(t, s, Post{Lang: "en", Slug: "p", Title: "First", Date: "2024-01-01", Published: true})
	mustSave(t, s, Post{Lang: "en", Slug: "p", Title: "Second", Date: "2024-01-02", Published: true})

	all, err := s.ListAllPosts(ctx)
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(all) != 1 || all[0].Title != "Second" {
		t.Errorf("ListAllPosts = %+v, want a single post titled Second", all)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetPost(context.Background(), "en", "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPostUnpublished(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustSave(t, s, Post{Lang: "en", Slug: "draft", Title: "Draft", Date: "2024-01-15", Published: false})

	if _, err := s.GetPost(ctx, "en", "draft"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost should not return drafts, got err=%v", err)
	}
	got, err := s.GetPostAny(ctx, "en", "draft")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if got.Published {
		t.Error("draft should not be published")
	}
}

func TestListPosts(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustSave(t, s,
		Post{Lang: "en", Slug: "post-1", Title: "Post 1", Date: "2024-01-01", Tags: []string{"go"}, Published: true},
		Post{Lang: "en", Slug: "post-2", Title: "Post 2", Date: "2024-01-03", Tags: []string{"go", "web"}, Published: true},
		Post{Lang: "en", Slug: "post-3", Title: "Post 3", Date: "2024-01-02", Tags: []string{"rust"}, Published: true},
		Post{Lang: "en", Slug: "draft", Title: "Draft", Date: "2024-01-04", Published: false},
		Post{Lang: "de", Slug: "post-1", Title: "Beitrag 1", Date: "2024-01-05", Tags: []string{"go"}, Published: true},
	)

	got, err := s.ListPosts(ctx, "en", "")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListPosts count = %d, want 3 (excluding drafts and other languages)", len(got))
	}
	if got[0].Slug != "post-2" || got[1].Slug != "post-3" || got[2].Slug != "post-1" {
		t.Errorf("order = %s, %s, %s; want newest first", got[0].Slug, got[1].Slug, got[2].Slug)
	}

	tests := []struct {
		tag  string
		want int
	}{
		{"go", 2},
		{"GO", 2},
		{"rust", 1},
		{"nonexistent", 0},
	}
	for _, tt := range tests {
		got, err := s.ListPosts(ctx, "en", tt.tag)
		if err != nil {
			t.Fatalf("ListPosts(%q) failed: %v", tt.tag, err)
		}
		if len(got) != tt.want {
			t.Errorf("ListPosts(%q) count = %d, want %d", tt.tag, len(got), tt.want)
		}
	}
}

func TestListPublishedAndLanguages(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustSave(t, s,
		Post{Lang: "en", Slug: "a", Title: "A", Date: "2024-01-01", Published: true},
		Post{Lang: "fr", Slug: "a", Title: "A", Date: "2024-01-01", Published: true},
		Post{Lang: "de", Slug: "b", Title: "B", Date: "2024-01-01", Published: false},
	)

	pub, err := s.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(pub) != 2 {
		t.Errorf("ListPublished count = %d, want 2", len(pub))
	}
	langs, err := s.ListLanguages(ctx)
	if err != nil {
		t.Fatalf("ListLanguages failed: %v", err)
	}
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "fr" {
		t.Errorf("ListLanguages = %v, want [en fr]", langs)
	}
}

func TestListTags(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	mustSave(t, s,
		Post{Lang: "en", Slug: "p1", Title: "P1", Date: "2024-01-01", Tags: []string{"Go", "web"}, Published: true},
		Post{Lang: "en", Slug: "p2", Title: "P2", Date: "2024-01-02", Tags: []string{"go", "api"}, Published: true},
		Post{Lang: "en", Slug: "p3", Title: "P3", Date: "2024-01-03", Tags: []string{"hidden"}, Published: false},
		Post{Lang: "de", Slug: "p1", Title: "P1", Date: "2024-01-01", Tags: []string{"deutsch"}, Published: true},
	)

	got, err := s.ListTags(context.Background(), "en")
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	want := []string{"api", "go", "web"}
	if len(got) != len(want) {
		t.Fatalf("ListTags = %v, want %v", got, want)
	}
	for i, tag := range want {
		if got[i] != tag {
			t.Errorf("ListTags[%d] = %q, want %q", i, got[i], tag)
		}
	}
}

func TestDeletePost(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustSave(t, s,
		Post{Lang: "en", Slug: "to-delete", Title: "Delete Me", Date: "2024-01-15", Published: true},
		Post{Lang: "de", Slug: "to-delete", Title: "Lösch mich", Date: "2024-01-15", Published: true},
	)
	if err := s.DeletePost(ctx, "en", "to-delete"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPostAny(ctx, "en", "to-delete"); !errors.Is(err, ErrNotFound) {
		t.Errorf("post should be deleted, got err=%v", err)
	}
	if _, err := s.GetPostAny(ctx, "de", "to-delete"); err != nil {
		t.Errorf("translation should survive, got err=%v", err)
	}
	if err := s.DeletePost(ctx, "en", "missing"); err != nil {
		t.Errorf("deleting a missing post should not fail: %v", err)
	}
}

func TestSubmissions(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		id, err := s.SaveSubmission(ctx, Submission{Form: "contact", Email: email, Name: "N"})
		if err != nil {
			t.Fatalf("SaveSubmission failed: %v", err)
		}
		if id <= 0 {
			t.Errorf("SaveSubmission id = %d, want > 0", id)
		}
	}

	got, err := s.ListSubmissions(ctx, 2)
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListSubmissions count = %d, want 2", len(got))
	}
	if got[0].Email != "c@example.com" {
		t.Errorf("newest submission = %q, want c@example.com", got[0].Email)
	}
	if got[0].CreatedAt == "" {
		t.Error("CreatedAt should be stamped")
	}
}

func TestImages(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	img := Image{Filename: "hero.jpg", OriginalName: "Hero.PNG", Width: 800, Height: 400, Size: 1234, UploadedAt: "2024-01-01T00:00:00Z"}
	if err := s.SaveImage(ctx, img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	ok, err := s.ImageExists(ctx, "hero.jpg")
	if err != nil || !ok {
		t.Fatalf("ImageExists = %v, %v; want true", ok, err)
	}
	list, err := s.ListImages(ctx)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(list) != 1 || list[0] != img {
		t.Errorf("ListImages = %+v, want [%+v]", list, img)
	}
	if err := s.DeleteImage(ctx, "hero.jpg"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	if ok, _ := s.ImageExists(ctx, "hero.jpg"); ok {
		t.Error("image should be deleted")
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{",go,web,", []string{"go", "web"}},
		{"go,web", []string{"go", "web"}},
		{",,", nil},
		{"", nil},
		{", go , web ,", []string{"go", "web"}},
	}
	for _, tt := range tests {
		got := ParseTags(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTags(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
