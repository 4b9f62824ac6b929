package media

import (
	"context"

	"gorm.io/gorm"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

// Resolver turns media ids stored on content rows into media rows.
// References are weak: a nil id and an id without a row both resolve to nil.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates a resolver.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve returns the media with id, or nil if id is nil or dangling.
func (r *Resolver) Resolve(ctx context.Context, id *uint64) (*models.Media, error) {
	if id == nil {
		return nil, nil
	}

	found, err := r.ResolveMany(ctx, []uint64{*id})
	if err != nil {
		return nil, err
	}

	return found[*id], nil
}

// ResolveMany loads the media of ids in one query. Dangling ids are missing from the map.
func (r *Resolver) ResolveMany(ctx context.Context, ids []uint64) (map[uint64]*models.Media, error) {
	out := make(map[uint64]*models.Media, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.Media
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, apperr.Storage("resolve media", err)
	}

	for i := range items {
		out[items[i].ID] = &items[i]
	}

	return out, nil
}

// Attach resolves and sets the media of every item.
func (r *Resolver) Attach(ctx context.Context, items ...models.MediaReferrer) error {
	seen := map[uint64]bool{}
	ids := []uint64{}

	for _, item := range items {
		if ref := item.MediaRef(); ref != nil && !seen[*ref] {
			seen[*ref] = true
			ids = append(ids, *ref)
		}
	}

	found, err := r.ResolveMany(ctx, ids)
	if err != nil {
		return err
	}

	for _, item := range items {
		if ref := item.MediaRef(); ref != nil {
			item.AttachMedia(found[*ref])
		} else {
			item.AttachMedia(nil)
		}
	}

	return nil
}
