package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/inkpress/inkpress/models"
)

var (
	// ErrNotFound is returned when no post matches the given slug.
	ErrNotFound = errors.New("post not found")
	// ErrDuplicateSlug is returned when a write violates the slug unique
	// index, i.e. a concurrent request claimed the slug first.
	ErrDuplicateSlug = errors.New("duplicate slug")
)

// PostStore is the persistence contract consumed by the post service.
// Implementations map their native errors onto the sentinels above; anything
// else is treated as a storage failure by the caller.
type PostStore interface {
	FindBySlug(slug string) (*models.Post, error)
	FindAll() ([]models.Post, error)
	Insert(post *models.Post) error
	UpdateBySlug(slug string, post *models.Post) error
	DeleteBySlug(slug string) error
	// SlugExists reports whether any post other than excludeID holds the
	// slug. Pass zero to consider every post.
	SlugExists(slug string, excludeID uint) (bool, error)
}

// GormPostStore implements PostStore on a MySQL-backed gorm connection.
// The connection must be opened with error translation enabled so unique
// index violations surface as gorm.ErrDuplicatedKey.
type GormPostStore struct {
	db *gorm.DB
}

func NewGormPostStore(db *gorm.DB) *GormPostStore {
	return &GormPostStore{db: db}
}

func (s *GormPostStore) FindBySlug(slug string) (*models.Post, error) {
	var post models.Post
	if err := s.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return &post, nil
}

func (s *GormPostStore) FindAll() ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *GormPostStore) Insert(post *models.Post) error {
	if err := s.db.Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// UpdateBySlug replaces the mutable columns of the post currently holding
// slug in one statement, keyed by the original slug so the lookup and write
// cannot diverge.
func (s *GormPostStore) UpdateBySlug(slug string, post *models.Post) error {
	res := s.db.Model(&models.Post{}).Where("slug = ?", slug).Updates(map[string]interface{}{
		"title":      post.Title,
		"content":    post.Content,
		"slug":       post.Slug,
		"updated_at": post.UpdatedAt,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormPostStore) DeleteBySlug(slug string) error {
	res := s.db.Where("slug = ?", slug).Delete(&models.Post{})
	if res.Error != nil {
		return fmt.Errorf("delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormPostStore) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.Model(&models.Post{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return count > 0, nil
}
