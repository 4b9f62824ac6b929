package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/PropertyLens/PropertyLens/internal/auth"
	"github.com/PropertyLens/PropertyLens/internal/config"
	"github.com/PropertyLens/PropertyLens/internal/media"
	"github.com/PropertyLens/PropertyLens/internal/web/session"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}

// Deps are the shared dependencies handed to every handler service.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Sessions    *session.Manager
	Credentials *auth.CredentialStore
	Media       *media.Service
	Resolver    *media.Resolver
}

// Valid reports whether the dependencies every handler needs are set.
func (d *Deps) Valid() bool {
	return d != nil && d.Config != nil && d.DB != nil && d.Sessions != nil
}

// Require protects a route with the session cookie and level.
func (d *Deps) Require(level auth.Level) fiber.Handler {
	return auth.Require(d.Sessions, d.Config.Webserver.CookieName, level)
}
