package content

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/PropertyLens/PropertyLens/internal/auth"
	"github.com/PropertyLens/PropertyLens/internal/db/controller/resource"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
	"github.com/PropertyLens/PropertyLens/internal/media"
	"github.com/PropertyLens/PropertyLens/internal/web/handler"
)

// collection serves the public and admin routes of one content collection.
type collection[T any] struct {
	repo     *resource.Repository[T]
	resolver *media.Resolver

	// beforeCreate fills server side fields of a new item.
	beforeCreate func(c *fiber.Ctx, item *T)
}

// register mounts the routes of the collection below the given name.
func (h *collection[T]) register(app *fiber.App, deps *handler.Deps, name string) {
	byID := "/:" + handler.IDParam

	app.Get(handler.APIPath+"/"+name, h.listPublic)

	admin := app.Group(handler.AdminPath + "/" + name)
	admin.Get(handler.RootPath, deps.Require(auth.LevelEditor), h.listAll)
	admin.Get(byID, deps.Require(auth.LevelEditor), h.get)
	admin.Post(handler.RootPath, deps.Require(auth.LevelEditor), h.create)
	admin.Patch(byID, deps.Require(auth.LevelEditor), h.update)
	admin.Delete(byID, deps.Require(auth.LevelAdmin), h.delete)
}

func (h *collection[T]) listPublic(c *fiber.Ctx) error {
	items, err := h.repo.ListPublic(c.UserContext())
	if err != nil {
		return err
	}

	return h.writeList(c, items)
}

func (h *collection[T]) listAll(c *fiber.Ctx) error {
	items, err := h.repo.ListAll(c.UserContext())
	if err != nil {
		return err
	}

	return h.writeList(c, items)
}

func (h *collection[T]) get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	item, err := h.repo.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return h.writeItem(c, fiber.StatusOK, item)
}

func (h *collection[T]) create(c *fiber.Ctx) error {
	item := new(T)
	if err := handler.BindJSON(c, item); err != nil {
		return err
	}

	if h.beforeCreate != nil {
		h.beforeCreate(c, item)
	}

	created, err := h.repo.Create(c.UserContext(), item)
	if err != nil {
		return err
	}

	return h.writeItem(c, fiber.StatusCreated, created)
}

func (h *collection[T]) update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	patch, err := handler.BindPatch(c)
	if err != nil {
		return err
	}

	updated, err := h.repo.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}

	return h.writeItem(c, fiber.StatusOK, updated)
}

func (h *collection[T]) delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	if err = h.repo.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(handler.MessageResponse{Message: h.repo.Name() + " deleted"})
}

func (h *collection[T]) writeItem(c *fiber.Ctx, status int, item *T) error {
	if err := attach(c.UserContext(), h.resolver, item); err != nil {
		return err
	}

	return c.Status(status).JSON(item)
}

func (h *collection[T]) writeList(c *fiber.Ctx, items []T) error {
	ptrs := make([]*T, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}

	if err := attach(c.UserContext(), h.resolver, ptrs...); err != nil {
		return err
	}

	return c.JSON(items)
}

// attach resolves the media of items that reference one.
func attach[T any](ctx context.Context, resolver *media.Resolver, items ...*T) error {
	if resolver == nil {
		return nil
	}

	refs := make([]models.MediaReferrer, 0, len(items))

	for _, item := range items {
		if ref, ok := any(item).(models.MediaReferrer); ok {
			refs = append(refs, ref)
		}
	}

	if len(refs) == 0 {
		return nil
	}

	return resolver.Attach(ctx, refs...)
}
