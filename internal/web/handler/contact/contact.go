// Package contact serves the public contact form and the staff inbox.
package contact

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/PropertyLens/PropertyLens/internal/auth"
	"github.com/PropertyLens/PropertyLens/internal/db/controller/contact"
	"github.com/PropertyLens/PropertyLens/internal/web/handler"
)

const (
	// Path is the path of the public contact form.
	Path = handler.APIPath + "/contact"

	// AdminPath is the path of the staff inbox.
	AdminPath = handler.AdminPath + "/contact"

	msgReceived = "Thank you for your message. We will get back to you soon."
)

// ErrDepsMissing is returned by Init without the shared dependencies.
var ErrDepsMissing = errors.New("contact handler needs database and sessions")

// Service is the contact handler service.
type Service struct {
	db *gorm.DB
}

// Handler is the contact handler.
var Handler = Service{}

// Init initializes the contact handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return ErrDepsMissing
	}

	s.db = deps.DB

	byID := "/:" + handler.IDParam

	app.Post(Path, s.Submit)

	admin := app.Group(AdminPath)
	admin.Get(handler.RootPath, deps.Require(auth.LevelEditor), s.List)
	admin.Get(byID, deps.Require(auth.LevelEditor), s.Get)
	admin.Patch(byID, deps.Require(auth.LevelEditor), s.Update)
	admin.Delete(byID, deps.Require(auth.LevelAdmin), s.Delete)

	return nil
}

// Submit stores a contact form submission.
func (s *Service) Submit(c *fiber.Ctx) error {
	var in contact.Submission
	if err := handler.BindJSON(c, &in); err != nil {
		return err
	}

	submission, err := contact.Submit(c.UserContext(), s.db, in)
	if err != nil {
		return err
	}

	log.Info().Uint64("id", submission.ID).Msg("contact submission received")

	return c.Status(fiber.StatusCreated).JSON(handler.MessageResponse{Message: msgReceived, ID: submission.ID})
}

// List returns every submission, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	submissions, err := contact.List(c.UserContext(), s.db)
	if err != nil {
		return err
	}

	return c.JSON(submissions)
}

// Get returns one submission.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	submission, err := contact.Get(c.UserContext(), s.db, id)
	if err != nil {
		return err
	}

	return c.JSON(submission)
}

// Update changes the status or the internal notes of a submission.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	var in contact.Patch
	if err = handler.BindJSON(c, &in); err != nil {
		return err
	}

	submission, err := contact.Update(c.UserContext(), s.db, id, in)
	if err != nil {
		return err
	}

	return c.JSON(submission)
}

// Delete removes a submission.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	if err = contact.Delete(c.UserContext(), s.db, id); err != nil {
		return err
	}

	return c.JSON(handler.MessageResponse{Message: "contact submission deleted"})
}
