package store

import (
	"sort"
	"sync"

	"github.com/inkpress/inkpress/models"
)

// MemoryPostStore is an in-process PostStore used as a test double. It
// mirrors the error semantics of GormPostStore, including duplicate-slug
// detection on writes.
type MemoryPostStore struct {
	mu     sync.Mutex
	nextID uint
	posts  []models.Post
}

func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{nextID: 1}
}

func (s *MemoryPostStore) FindBySlug(slug string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].Slug == slug {
			post := s.posts[i]
			return &post, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryPostStore) FindAll() ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Post, len(s.posts))
	copy(out, s.posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryPostStore) Insert(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].Slug == post.Slug {
			return ErrDuplicateSlug
		}
	}
	post.ID = s.nextID
	s.nextID++
	s.posts = append(s.posts, *post)
	return nil
}

func (s *MemoryPostStore) UpdateBySlug(slug string, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].Slug == post.Slug && s.posts[i].ID != post.ID {
			return ErrDuplicateSlug
		}
	}
	for i := range s.posts {
		if s.posts[i].Slug == slug {
			s.posts[i].Title = post.Title
			s.posts[i].Content = post.Content
			s.posts[i].Slug = post.Slug
			s.posts[i].UpdatedAt = post.UpdatedAt
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryPostStore) DeleteBySlug(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].Slug == slug {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryPostStore) SlugExists(slug string, excludeID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].Slug == slug && s.posts[i].ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}
