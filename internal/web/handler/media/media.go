// Package media serves the media library: uploads, listing and removal.
package media

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/auth"
	"github.com/PropertyLens/PropertyLens/internal/media"
	"github.com/PropertyLens/PropertyLens/internal/web/handler"
)

const (
	// Path is the path of the media library.
	Path = handler.APIPath + "/media"

	fileField    = "file"
	altTextField = "altText"
)

// ErrDepsMissing is returned by Init without the media service.
var ErrDepsMissing = errors.New("media handler needs the media service")

// Service is the media handler service.
type Service struct {
	media *media.Service
}

// Handler is the media handler.
var Handler = Service{}

// Init initializes the media handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() || deps.Media == nil {
		return ErrDepsMissing
	}

	s.media = deps.Media

	byID := "/:" + handler.IDParam

	group := app.Group(Path)
	group.Post(handler.RootPath, deps.Require(auth.LevelEditor), s.Upload)
	group.Get(handler.RootPath, deps.Require(auth.LevelEditor), s.List)
	group.Get(byID, deps.Require(auth.LevelEditor), s.Get)
	group.Delete(byID, deps.Require(auth.LevelAdmin), s.Delete)

	return nil
}

// Upload stores the multipart file field as a new media item.
func (s *Service) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile(fileField)
	if err != nil {
		return apperr.Invalid(fileField, "required", "is required")
	}

	if fh.Size > s.media.MaxBytes() {
		return apperr.Invalid(fileField, "max", fmt.Sprintf("must be at most %d MB", s.media.MaxBytes()>>20)) //nolint:mnd
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.media.MaxBytes()+1))
	if err != nil {
		return err
	}

	in := media.Upload{
		Filename: fh.Filename,
		Data:     data,
	}

	if alt := c.FormValue(altTextField); alt != "" {
		in.AltText = &alt
	}

	if user := auth.CurrentUser(c); user != nil {
		id := user.ID
		in.UploadedBy = &id
	}

	item, err := s.media.Upload(c.UserContext(), in)
	if err != nil {
		return err
	}

	log.Info().Uint64("id", item.ID).Str("key", item.Filename).Int64("size", item.SizeBytes).Msg("media uploaded")

	return c.Status(fiber.StatusCreated).JSON(item)
}

// List returns the media library, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	items, err := s.media.List(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(items)
}

// Get returns one media item.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	item, err := s.media.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(item)
}

// Delete removes a media item and its stored object.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	if err = s.media.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(handler.MessageResponse{Message: "media deleted"})
}
