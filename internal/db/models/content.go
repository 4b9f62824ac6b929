// Package models contains the gorm models of the site content, staff accounts and sessions.
package models

import (
	"time"

	"github.com/PropertyLens/PropertyLens/internal/util"
)

// GalleryItem is a portfolio photo shown on the public gallery.
type GalleryItem struct {
	ID           uint64     `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Slug         string     `gorm:"size:255;uniqueIndex;not null" json:"slug" validate:"required,max=255,slug"`
	Category     *string    `gorm:"size:100" json:"category" validate:"omitempty,max=100"`
	Description  *string    `json:"description"`
	Featured     bool       `gorm:"not null" json:"featured"`
	DisplayOrder int        `gorm:"not null;default:0;index" json:"displayOrder"`
	MediaID      *uint64    `gorm:"index" json:"mediaId"`
	IsPublished  bool       `gorm:"not null;index" json:"isPublished"`
	PublishedAt  *time.Time `json:"publishedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Media *Media `gorm:"-" json:"media,omitempty"`
}

// TableName sets the table name.
func (GalleryItem) TableName() string { return "gallery_items" }

// Normalize derives the slug, cleans markup and stamps the publish time.
func (g *GalleryItem) Normalize() {
	if g.Slug == "" {
		g.Slug = util.Slugify(g.Title)
	}

	g.Description = util.SanitizeHTMLPtr(g.Description)

	if g.IsPublished && g.PublishedAt == nil {
		now := time.Now()
		g.PublishedAt = &now
	}
}

// MediaRef implements MediaReferrer.
func (g *GalleryItem) MediaRef() *uint64 { return g.MediaID }

// AttachMedia implements MediaReferrer.
func (g *GalleryItem) AttachMedia(m *Media) { g.Media = m }

// Service is a photography service offered on the site.
type Service struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Slug             string    `gorm:"size:255;uniqueIndex;not null" json:"slug" validate:"required,max=255,slug"`
	ShortDescription *string   `gorm:"size:500" json:"shortDescription" validate:"omitempty,max=500"`
	FullDescription  *string   `json:"fullDescription"`
	BasePriceCents   *int      `json:"basePriceCents" validate:"omitempty,gte=0"`
	ImageID          *uint64   `gorm:"index" json:"imageId"`
	IsActive         bool      `gorm:"not null;index" json:"isActive"`
	DisplayOrder     int       `gorm:"not null;default:0;index" json:"displayOrder"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Image *Media `gorm:"-" json:"image,omitempty"`
}

// TableName sets the table name.
func (Service) TableName() string { return "services" }

// Normalize derives the slug and cleans markup.
func (s *Service) Normalize() {
	if s.Slug == "" {
		s.Slug = util.Slugify(s.Title)
	}

	s.ShortDescription = util.StripTagsPtr(s.ShortDescription)
	s.FullDescription = util.SanitizeHTMLPtr(s.FullDescription)
}

// MediaRef implements MediaReferrer.
func (s *Service) MediaRef() *uint64 { return s.ImageID }

// AttachMedia implements MediaReferrer.
func (s *Service) AttachMedia(m *Media) { s.Image = m }

// FAQ is a question and answer pair.
type FAQ struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Question     string    `gorm:"size:500;not null" json:"question" validate:"required,max=500"`
	Answer       string    `gorm:"not null" json:"answer" validate:"required"`
	DisplayOrder int       `gorm:"not null;default:0;index" json:"displayOrder"`
	IsPublished  bool      `gorm:"not null;index" json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName sets the table name.
func (FAQ) TableName() string { return "faqs" }

// Normalize cleans markup.
func (f *FAQ) Normalize() {
	f.Question = util.StripTags(f.Question)
	f.Answer = util.SanitizeHTML(f.Answer)
}

// Testimonial is a client quote.
type Testimonial struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	ClientName   string    `gorm:"size:255;not null" json:"clientName" validate:"required,max=255"`
	Role         *string   `gorm:"size:255" json:"role" validate:"omitempty,max=255"`
	Company      *string   `gorm:"size:255" json:"company" validate:"omitempty,max=255"`
	Quote        string    `gorm:"not null" json:"quote" validate:"required"`
	Rating       *int      `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Location     *string   `gorm:"size:255" json:"location" validate:"omitempty,max=255"`
	AvatarID     *uint64   `gorm:"index" json:"avatarId"`
	DisplayOrder int       `gorm:"not null;default:0;index" json:"displayOrder"`
	IsPublished  bool      `gorm:"not null;index" json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Avatar *Media `gorm:"-" json:"avatar,omitempty"`
}

// TableName sets the table name.
func (Testimonial) TableName() string { return "testimonials" }

// Normalize cleans markup.
func (t *Testimonial) Normalize() {
	t.ClientName = util.StripTags(t.ClientName)
	t.Quote = util.StripTags(t.Quote)
}

// MediaRef implements MediaReferrer.
func (t *Testimonial) MediaRef() *uint64 { return t.AvatarID }

// AttachMedia implements MediaReferrer.
func (t *Testimonial) AttachMedia(m *Media) { t.Avatar = m }
