package services

import (
	"errors"
	"testing"
	"time"

	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/store"
)

func newTestService() (*PostService, *store.MemoryPostStore) {
	mem := store.NewMemoryPostStore()
	return NewPostService(mem), mem
}

func TestCreateDerivesSlug(t *testing.T) {
	svc, _ := newTestService()

	post, err := svc.Create("My First Post", "<p>Hi</p>")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.Slug != "my-first-post" {
		t.Errorf("slug = %q, want %q", post.Slug, "my-first-post")
	}
	if post.ID == 0 {
		t.Error("expected assigned id")
	}
	if !post.CreatedAt.Equal(post.UpdatedAt) {
		t.Error("createdAt and updatedAt should match on create")
	}
}

func TestCreateDuplicateTitlesGetSuffixedSlugs(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.Create("Hello World!", "<p>one</p>")
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := svc.Create("Hello World!", "<p>two</p>")
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	third, err := svc.Create("Hello World!", "<p>three</p>")
	if err != nil {
		t.Fatalf("third create failed: %v", err)
	}

	if first.Slug != "hello-world" || second.Slug != "hello-world-1" || third.Slug != "hello-world-2" {
		t.Errorf("slugs = %q, %q, %q; want hello-world, hello-world-1, hello-world-2",
			first.Slug, second.Slug, third.Slug)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()

	cases := []struct {
		name    string
		title   string
		content string
	}{
		{"empty title", "", "<p>Hi</p>"},
		{"whitespace title", "   ", "<p>Hi</p>"},
		{"empty content", "A Title", ""},
		{"whitespace content", "A Title", "   "},
		{"punctuation-only title", "!!!", "<p>Hi</p>"},
		{"strip-set title", "(((:::)))", "<p>Hi</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.title, tc.content)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	// Nothing should have been persisted.
	posts, err := svc.ListAll()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("expected no posts, got %d", len(posts))
	}
}

func TestCreateRejectsOverlongTitle(t *testing.T) {
	svc, _ := newTestService()

	long := make([]rune, 201)
	for i := range long {
		long[i] = 'a'
	}
	_, err := svc.Create(string(long), "<p>Hi</p>")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateReslugsWhenTitleChangesBase(t *testing.T) {
	svc, _ := newTestService()
	svc.now = stubClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	created, err := svc.Create("My First Post", "<p>Hi</p>")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	svc.now = stubClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	updated, err := svc.Update(created.Slug, "My First Post (Updated)!", "<p>Hi</p>")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Slug != "my-first-post-updated" {
		t.Errorf("slug = %q, want %q", updated.Slug, "my-first-post-updated")
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Error("updatedAt should advance past createdAt")
	}

	// The old permalink is gone, the new one resolves.
	if _, err := svc.GetBySlug("my-first-post"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old slug still resolves, err = %v", err)
	}
	if _, err := svc.GetBySlug("my-first-post-updated"); err != nil {
		t.Errorf("new slug does not resolve: %v", err)
	}
}

func TestUpdateKeepsSlugWhenBaseUnchanged(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create("Hello World", "<p>Hi</p>")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Different title text, same derived base: permalink must not change,
	// and the post must not collide with its own slug.
	updated, err := svc.Update(created.Slug, "Hello, World!", "<p>Hi</p>")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Slug != "hello-world" {
		t.Errorf("slug = %q, want %q", updated.Slug, "hello-world")
	}
}

func TestUpdateContentOnlyKeepsSlug(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create("Stable Permalink", "<p>v1</p>")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(created.Slug, "Stable Permalink", "<p>v2</p>")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Slug != created.Slug {
		t.Errorf("slug changed on content-only edit: %q -> %q", created.Slug, updated.Slug)
	}
	if updated.Content != "<p>v2</p>" {
		t.Errorf("content = %q, want %q", updated.Content, "<p>v2</p>")
	}
}

func TestUpdateReslugAvoidsOtherPosts(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create("Target Title", "<p>taken</p>"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other, err := svc.Create("Something Else", "<p>Hi</p>")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(other.Slug, "Target Title", "<p>Hi</p>")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Slug != "target-title-1" {
		t.Errorf("slug = %q, want %q", updated.Slug, "target-title-1")
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update("no-such-post", "Title", "<p>Hi</p>")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteNotFoundLeavesOtherPosts(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create("Keep Me", "<p>Hi</p>"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete("no-such-post"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	posts, err := svc.ListAll()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("expected 1 post after failed delete, got %d", len(posts))
	}
}

func TestDeleteRemovesPost(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create("Short Lived", "<p>Hi</p>")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(created.Slug); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetBySlug(created.Slug); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListAllNewestFirst(t *testing.T) {
	svc, _ := newTestService()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"Oldest", "Middle", "Newest"} {
		svc.now = stubClock(base.Add(time.Duration(i) * time.Hour))
		if _, err := svc.Create(title, "<p>Hi</p>"); err != nil {
			t.Fatalf("create %q failed: %v", title, err)
		}
	}

	posts, err := svc.ListAll()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := make([]string, len(posts))
	for i, p := range posts {
		got[i] = p.Title
	}
	want := []string{"Newest", "Middle", "Oldest"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

// racingStore reports every candidate slug as free but rejects the first
// insert with a duplicate error, simulating a concurrent create winning the
// slug between resolution and persistence.
type racingStore struct {
	*store.MemoryPostStore
	failures int
}

func (s *racingStore) Insert(post *models.Post) error {
	if s.failures > 0 {
		s.failures--
		return store.ErrDuplicateSlug
	}
	return s.MemoryPostStore.Insert(post)
}

func TestCreateRetriesOnceOnDuplicateRace(t *testing.T) {
	rs := &racingStore{MemoryPostStore: store.NewMemoryPostStore(), failures: 1}
	svc := NewPostService(rs)

	post, err := svc.Create("Raced Title", "<p>Hi</p>")
	if err != nil {
		t.Fatalf("create failed after retry: %v", err)
	}
	if post.Slug != "raced-title" {
		t.Errorf("slug = %q, want %q", post.Slug, "raced-title")
	}
}

func TestCreateSurfacesConflictWhenRetryLoses(t *testing.T) {
	rs := &racingStore{MemoryPostStore: store.NewMemoryPostStore(), failures: 2}
	svc := NewPostService(rs)

	_, err := svc.Create("Raced Title", "<p>Hi</p>")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func stubClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
