package models

import "time"

// Post is a published article. The slug is the public lookup key, derived
// from the title; the unique index backs up application-level uniqueness
// resolution when concurrent creates race to the same base slug.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:longtext;not null" json:"content"`
	Slug      string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
