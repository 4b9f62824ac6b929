// Package logout provides the HTTP handler that ends a staff session.
package logout

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/PropertyLens/PropertyLens/internal/config"
	"github.com/PropertyLens/PropertyLens/internal/web/handler"
	"github.com/PropertyLens/PropertyLens/internal/web/session"
)

// Path is the path of the logout endpoint.
const Path = handler.APIPath + "/logout"

// ErrDepsMissing is returned by Init without sessions.
var ErrDepsMissing = errors.New("logout handler needs sessions")

// Service is the logout handler service.
type Service struct {
	cfg      *config.Config
	sessions *session.Manager
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return ErrDepsMissing
	}

	s.cfg = deps.Config
	s.sessions = deps.Sessions

	// logout works without a valid session
	app.Post(Path, s.Logout)

	return nil
}

// Logout handles user logout by clearing the session.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Destroy(c.UserContext(), c.Cookies(s.cfg.Webserver.CookieName)); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	// Clear the session cookie
	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.Webserver.CookieName,
		Value:    "",
		Path:     handler.RootPath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(handler.MessageResponse{Message: "logged out"})
}
