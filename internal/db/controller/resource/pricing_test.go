package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

func TestPricingFeatures(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	repo, err := NewPricing(db)
	require.NoError(t, err)

	pkg, err := repo.Create(ctx, &models.PricingPackage{
		Name:       "Premium Listing",
		PriceCents: 34900,
		IsActive:   true,
		Features: []models.PackageFeature{
			{FeatureText: "Twilight photos", DisplayOrder: 2},
			{FeatureText: "40 edited photos", DisplayOrder: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "premium-listing", pkg.Slug)
	require.Len(t, pkg.Features, 2)
	assert.Equal(t, "40 edited photos", pkg.Features[0].FeatureText)
	assert.Equal(t, "Twilight photos", pkg.Features[1].FeatureText)

	added, err := repo.AddFeature(ctx, pkg.ID, &models.PackageFeature{FeatureText: "<b>Drone</b> shots", DisplayOrder: 3})
	require.NoError(t, err)
	assert.Equal(t, pkg.ID, added.PackageID)
	assert.Equal(t, "Drone shots", added.FeatureText)

	reloaded, err := repo.Get(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Features, 3)
	assert.True(t, reloaded.UpdatedAt.Equal(pkg.UpdatedAt), "features don't touch the package")

	_, err = repo.AddFeature(ctx, pkg.ID+100, &models.PackageFeature{FeatureText: "Orphan"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.AddFeature(ctx, pkg.ID, &models.PackageFeature{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, repo.DeleteFeature(ctx, added.ID))
	assert.ErrorIs(t, repo.DeleteFeature(ctx, added.ID), apperr.ErrNotFound)

	_, err = repo.GetFeature(ctx, added.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.Update(ctx, pkg.ID, map[string]any{"features": []any{}})
	assert.ErrorIs(t, err, apperr.ErrValidation, "features are managed separately")
}

func TestPricingCascade(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	repo, err := NewPricing(db)
	require.NoError(t, err)

	pkg, err := repo.Create(ctx, &models.PricingPackage{
		Name:       "Basic",
		PriceCents: 14900,
		Features:   []models.PackageFeature{{FeatureText: "20 photos"}, {FeatureText: "Next day delivery"}},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, pkg.ID))

	var count int64
	require.NoError(t, db.Model(&models.PackageFeature{}).Where("package_id = ?", pkg.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPricingPublic(t *testing.T) {
	ctx := context.Background()
	repo, err := NewPricing(setupTestDB(t))
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.PricingPackage{Name: "Hidden", PriceCents: 100})
	require.NoError(t, err)
	visible, err := repo.Create(ctx, &models.PricingPackage{
		Name: "Shown", PriceCents: 200, IsActive: true,
		Features: []models.PackageFeature{{FeatureText: "Photos"}},
	})
	require.NoError(t, err)

	public, err := repo.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, visible.ID, public[0].ID)
	assert.Len(t, public[0].Features, 1)

	_, err = repo.Create(ctx, &models.PricingPackage{Name: "Negative", PriceCents: -1})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreatePricingKeepsOtherPackagesFeatures(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	repo, err := NewPricing(db)
	require.NoError(t, err)

	basic, err := repo.Create(ctx, &models.PricingPackage{
		Name:     "Basic",
		IsActive: true,
		Features: []models.PackageFeature{{FeatureText: "15 edited photos"}},
	})
	require.NoError(t, err)
	require.Len(t, basic.Features, 1)

	existing := basic.Features[0]

	deluxe, err := repo.Create(ctx, &models.PricingPackage{
		Name:     "Deluxe",
		IsActive: true,
		Features: []models.PackageFeature{{ID: existing.ID, PackageID: basic.ID, FeatureText: "Floor plan"}},
	})
	require.NoError(t, err)
	require.Len(t, deluxe.Features, 1)
	assert.NotEqual(t, existing.ID, deluxe.Features[0].ID)
	assert.Equal(t, deluxe.ID, deluxe.Features[0].PackageID)
	assert.Equal(t, "Floor plan", deluxe.Features[0].FeatureText)

	reloaded, err := repo.Get(ctx, basic.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Features, 1)
	assert.Equal(t, existing.ID, reloaded.Features[0].ID)
	assert.Equal(t, "15 edited photos", reloaded.Features[0].FeatureText)
}
