package models

import (
	"time"

	"github.com/PropertyLens/PropertyLens/internal/util"
)

// PricingPackage is a bookable package with its list of features.
type PricingPackage struct {
	ID              uint64  `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Slug            string  `gorm:"size:255;uniqueIndex;not null" json:"slug" validate:"required,max=255,slug"`
	Description     *string `json:"description"`
	PriceCents      int     `gorm:"not null" json:"priceCents" validate:"gte=0"`
	StripePriceID   *string `gorm:"size:255" json:"stripePriceId" validate:"omitempty,max=255"`
	StripeProductID *string `gorm:"size:255" json:"stripeProductId" validate:"omitempty,max=255"`
	IsPopular       bool    `gorm:"not null" json:"isPopular"`
	IsActive        bool    `gorm:"not null;index" json:"isActive"`
	DisplayOrder    int     `gorm:"not null;default:0;index" json:"displayOrder"`
	// Features are removed by the database when the package is deleted.
	Features  []PackageFeature `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE" json:"features" validate:"dive"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TableName sets the table name.
func (PricingPackage) TableName() string { return "pricing_packages" }

// Normalize derives the slug and cleans markup.
func (p *PricingPackage) Normalize() {
	if p.Slug == "" {
		p.Slug = util.Slugify(p.Name)
	}

	p.Description = util.SanitizeHTMLPtr(p.Description)

	for i := range p.Features {
		p.Features[i].Normalize()
	}
}

// PackageFeature is one bullet point of a pricing package.
type PackageFeature struct {
	ID           uint64 `gorm:"primaryKey" json:"id"`
	PackageID    uint64 `gorm:"not null;index" json:"packageId"`
	FeatureText  string `gorm:"size:500;not null" json:"featureText" validate:"required,max=500"`
	DisplayOrder int    `gorm:"not null;default:0" json:"displayOrder"`
}

// TableName sets the table name.
func (PackageFeature) TableName() string { return "package_features" }

// Normalize cleans markup.
func (f *PackageFeature) Normalize() {
	f.FeatureText = util.StripTags(f.FeatureText)
}
