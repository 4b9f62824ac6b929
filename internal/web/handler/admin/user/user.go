// Package user provides handlers for managing staff accounts in the admin area.
package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/auth"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
	"github.com/PropertyLens/PropertyLens/internal/web/handler"
)

// Path is the base path for user management.
const Path = handler.AdminPath + "/users"

// ErrDepsMissing is returned by Init without the credential store.
var ErrDepsMissing = errors.New("user handler needs the credential store")

// Service provides the user administration routes.
type Service struct {
	credentials *auth.CredentialStore
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() || deps.Credentials == nil {
		return ErrDepsMissing
	}

	s.credentials = deps.Credentials

	group := app.Group(Path, deps.Require(auth.LevelAdmin))
	group.Get(handler.RootPath, s.List)
	group.Post(handler.RootPath, s.Create)
	group.Patch("/:"+handler.IDParam, s.Update)

	return nil
}

// List returns every user ordered by username.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := s.credentials.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(users)
}

// Create adds a user.
func (s *Service) Create(c *fiber.Ctx) error {
	var in auth.NewUser
	if err := handler.BindJSON(c, &in); err != nil {
		return err
	}

	user, err := s.credentials.CreateUser(c.UserContext(), in)
	if err != nil {
		return err
	}

	log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Str("role", string(user.Role)).
		Uint64("by", auth.CurrentUser(c).ID).Msg("user created")

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Update changes the role, active flag, email or password of a user.
// Admins can't demote or disable themselves.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	var in auth.UserUpdate
	if err = handler.BindJSON(c, &in); err != nil {
		return err
	}

	if current := auth.CurrentUser(c); current.ID == id {
		if in.IsActive != nil && !*in.IsActive {
			return apperr.Invalid("isActive", "self", "you can't disable your own account")
		}

		if in.Role != nil && *in.Role != models.RoleAdmin {
			return apperr.Invalid("role", "self", "you can't remove your own admin role")
		}
	}

	user, err := s.credentials.UpdateUser(c.UserContext(), id, in)
	if err != nil {
		return err
	}

	log.Info().Uint64("user_id", user.ID).Uint64("by", auth.CurrentUser(c).ID).Msg("user updated")

	return c.JSON(user)
}
