package resource

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
	"github.com/PropertyLens/PropertyLens/internal/validation"
)

const (
	slugColumn  = "slug"
	featureName = "package feature"
)

func published(tx *gorm.DB) *gorm.DB { return tx.Where("is_published = ?", true) }

func active(tx *gorm.DB) *gorm.DB { return tx.Where("is_active = ?", true) }

// NewGallery creates the gallery repository. Published items are public.
func NewGallery(db *gorm.DB) (*Repository[models.GalleryItem], error) {
	return New[models.GalleryItem](db, Config{
		Name:        "gallery item",
		SlugColumn:  slugColumn,
		PublicScope: published,
	})
}

// NewServices creates the services repository. Active services are public.
func NewServices(db *gorm.DB) (*Repository[models.Service], error) {
	return New[models.Service](db, Config{
		Name:        "service",
		SlugColumn:  slugColumn,
		PublicScope: active,
	})
}

// NewFAQs creates the FAQ repository. Published FAQs are public.
func NewFAQs(db *gorm.DB) (*Repository[models.FAQ], error) {
	return New[models.FAQ](db, Config{
		Name:        "faq",
		PublicScope: published,
	})
}

// NewTestimonials creates the testimonial repository. Published testimonials are public.
func NewTestimonials(db *gorm.DB) (*Repository[models.Testimonial], error) {
	return New[models.Testimonial](db, Config{
		Name:        "testimonial",
		PublicScope: published,
	})
}

// NewBlog creates the blog repository.
// Admins see every post newest first; visitors see published posts by publish date.
func NewBlog(db *gorm.DB) (*Repository[models.BlogPost], error) {
	return New[models.BlogPost](db, Config{
		Name:       "blog post",
		SlugColumn: slugColumn,
		PublicScope: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("status = ?", string(models.BlogPublished))
		},
		Order:       "created_at DESC, id DESC",
		PublicOrder: "published_at DESC, id DESC",
	})
}

// Pricing is the repository of pricing packages and their features.
type Pricing struct {
	*Repository[models.PricingPackage]
}

// NewPricing creates the pricing repository. Active packages are public and every
// read loads the features in display order.
func NewPricing(db *gorm.DB) (*Pricing, error) {
	repo, err := New[models.PricingPackage](db, Config{
		Name:        "pricing package",
		SlugColumn:  slugColumn,
		PublicScope: active,
		Preload: func(tx *gorm.DB) *gorm.DB {
			return tx.Preload("Features", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("display_order ASC, id ASC")
			})
		},
	})
	if err != nil {
		return nil, err
	}

	return &Pricing{Repository: repo}, nil
}

// AddFeature adds a feature to the package with packageID.
// The package itself, including its updated_at, is not modified.
func (p *Pricing) AddFeature(ctx context.Context, packageID uint64, feature *models.PackageFeature) (*models.PackageFeature, error) {
	var count int64
	if err := p.db.WithContext(ctx).Model(&models.PricingPackage{}).Where("id = ?", packageID).Count(&count).Error; err != nil {
		return nil, apperr.Storage("check pricing package", err)
	}

	if count == 0 {
		return nil, p.notFound()
	}

	feature.ID = 0
	feature.PackageID = packageID
	feature.Normalize()

	if err := validation.Struct(feature); err != nil {
		return nil, err
	}

	if err := p.db.WithContext(ctx).Create(feature).Error; err != nil {
		return nil, apperr.Storage("create "+featureName, err)
	}

	return feature, nil
}

// DeleteFeature removes a single feature. A missing id is ErrNotFound.
func (p *Pricing) DeleteFeature(ctx context.Context, featureID uint64) error {
	result := p.db.WithContext(ctx).Delete(&models.PackageFeature{}, featureID)
	if result.Error != nil {
		return apperr.Storage("delete "+featureName, result.Error)
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound(featureName)
	}

	return nil
}

// GetFeature returns a single feature.
func (p *Pricing) GetFeature(ctx context.Context, featureID uint64) (*models.PackageFeature, error) {
	var feature models.PackageFeature

	err := p.db.WithContext(ctx).First(&feature, featureID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(featureName)
	}

	if err != nil {
		return nil, apperr.Storage("get "+featureName, err)
	}

	return &feature, nil
}
