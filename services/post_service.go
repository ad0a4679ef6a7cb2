package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/store"
	"github.com/inkpress/inkpress/utils"
)

const maxTitleLength = 200

// PostService orchestrates post CRUD: it validates input, derives and
// resolves slugs, and persists through an injected PostStore. All storage
// errors are classified here; callers only see the service error taxonomy.
type PostService struct {
	posts store.PostStore
	now   func() time.Time
}

func NewPostService(posts store.PostStore) *PostService {
	return &PostService{posts: posts, now: time.Now}
}

// Create validates title and content, assigns a unique slug derived from the
// title, and persists the new post. A duplicate-slug race at insert time is
// retried once with a fresh resolution pass before surfacing ErrConflict.
func (s *PostService) Create(title, content string) (*models.Post, error) {
	title = strings.TrimSpace(title)
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	base := utils.GenerateSlug(title)
	if base == "" {
		return nil, validationf("title does not contain any usable characters for a slug")
	}

	now := s.now()
	post := &models.Post{
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 0; attempt < 2; attempt++ {
		slug, err := utils.ResolveUniqueSlug(base, s.slugProbe(0))
		if err != nil {
			return nil, storageErr("resolve slug", err)
		}
		post.Slug = slug

		err = s.posts.Insert(post)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, store.ErrDuplicateSlug) {
			return nil, storageErr("insert post", err)
		}
		// Another request claimed the slug between resolution and insert;
		// the next pass picks up the following counter value.
	}
	return nil, ErrConflict
}

// Update replaces title and content of the post currently holding slug. The
// slug is re-derived only when the stored title differs from the new one AND
// the fresh base differs from the current slug, so content-only edits and
// same-base retitles keep their permalink. The post's own slug is excluded
// from the collision check.
func (s *PostService) Update(slug, title, content string) (*models.Post, error) {
	existing, err := s.posts.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr("find post", err)
	}

	title = strings.TrimSpace(title)
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	reslug := false
	var base string
	if title != existing.Title {
		base = utils.GenerateSlug(title)
		if base == "" {
			return nil, validationf("title does not contain any usable characters for a slug")
		}
		reslug = base != existing.Slug
	}

	existing.Title = title
	existing.Content = content
	existing.UpdatedAt = s.now()

	for attempt := 0; attempt < 2; attempt++ {
		if reslug {
			newSlug, err := utils.ResolveUniqueSlug(base, s.slugProbe(existing.ID))
			if err != nil {
				return nil, storageErr("resolve slug", err)
			}
			existing.Slug = newSlug
		}

		err = s.posts.UpdateBySlug(slug, existing)
		if err == nil {
			return existing, nil
		}
		if errors.Is(err, store.ErrNotFound) {
			// The record vanished between lookup and write.
			return nil, ErrNotFound
		}
		if !errors.Is(err, store.ErrDuplicateSlug) {
			return nil, storageErr("update post", err)
		}
		if !reslug {
			// The slug did not change, so a duplicate here cannot be
			// resolved by another pass.
			return nil, ErrConflict
		}
	}
	return nil, ErrConflict
}

// Delete removes the post holding slug.
func (s *PostService) Delete(slug string) error {
	err := s.posts.DeleteBySlug(slug)
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return storageErr("delete post", err)
}

// GetBySlug returns the post holding slug.
func (s *PostService) GetBySlug(slug string) (*models.Post, error) {
	post, err := s.posts.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr("find post", err)
	}
	return post, nil
}

// ListAll returns every post, newest created first.
func (s *PostService) ListAll() ([]models.Post, error) {
	posts, err := s.posts.FindAll()
	if err != nil {
		return nil, storageErr("list posts", err)
	}
	return posts, nil
}

// slugProbe adapts the store's exists check into the resolver's probe shape,
// baking in the self-exclusion for updates.
func (s *PostService) slugProbe(excludeID uint) func(string) (bool, error) {
	return func(candidate string) (bool, error) {
		return s.posts.SlugExists(candidate, excludeID)
	}
}

func validateFields(title, content string) error {
	if title == "" {
		return validationf("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return validationf("title must be at most %d characters", maxTitleLength)
	}
	if strings.TrimSpace(content) == "" {
		return validationf("content is required")
	}
	return nil
}
