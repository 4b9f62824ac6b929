package models

import (
	"time"

	"github.com/PropertyLens/PropertyLens/internal/util"
)

// BlogStatus is the publishing state of a post.
type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
	BlogArchived  BlogStatus = "archived"
)

// BlogPost is an article of the site blog. Only published posts are public.
type BlogPost struct {
	ID           uint64     `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Slug         string     `gorm:"size:255;uniqueIndex;not null" json:"slug" validate:"required,max=255,slug"`
	Excerpt      *string    `gorm:"size:1000" json:"excerpt" validate:"omitempty,max=1000"`
	Content      string     `gorm:"type:text;not null" json:"content" validate:"required"`
	CoverImageID *uint64    `gorm:"index" json:"coverImageId"`
	Status       BlogStatus `gorm:"type:varchar(20);not null;index" json:"status" validate:"required,oneof=draft published archived"`
	AuthorID     *uint64    `gorm:"index" json:"authorId"`
	PublishedAt  *time.Time `gorm:"index" json:"publishedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	CoverImage *Media `gorm:"-" json:"coverImage,omitempty"`
}

// TableName sets the table name.
func (BlogPost) TableName() string { return "blog_posts" }

// Normalize derives the slug, defaults the status, cleans markup and stamps the publish time.
func (b *BlogPost) Normalize() {
	if b.Slug == "" {
		b.Slug = util.Slugify(b.Title)
	}

	if b.Status == "" {
		b.Status = BlogDraft
	}

	b.Content = util.SanitizeHTML(b.Content)
	b.Excerpt = util.StripTagsPtr(b.Excerpt)

	if b.Status == BlogPublished && b.PublishedAt == nil {
		now := time.Now()
		b.PublishedAt = &now
	}
}

// MediaRef implements MediaReferrer.
func (b *BlogPost) MediaRef() *uint64 { return b.CoverImageID }

// AttachMedia implements MediaReferrer.
func (b *BlogPost) AttachMedia(m *Media) { b.CoverImage = m }
