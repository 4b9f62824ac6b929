package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

const localsUser = "user"

// SessionResolver resolves a session token to its user. An absent, expired or
// unknown token resolves to (nil, nil).
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// Require creates Fiber middleware that only lets requests reach the next handler
// when the session user passes Authorize for level. The resolved user is stored in
// the request locals, see CurrentUser.
func Require(sessions SessionResolver, cookieName string, level Level) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := sessions.Resolve(c.UserContext(), c.Cookies(cookieName))
		if err != nil {
			log.Error().Err(err).Str("path", c.Path()).Msg("failed to resolve session")

			return err
		}

		if err = Authorize(user, level); err != nil {
			if errors.Is(err, ErrForbidden) {
				log.Warn().Uint64("user_id", user.ID).Str("role", string(user.Role)).
					Str("required", level.String()).Str("path", c.Path()).Msg("user lacks required role")
			}

			return err
		}

		if user != nil {
			c.Locals(localsUser, user)
		}

		return c.Next()
	}
}

// CurrentUser returns the user stored by Require, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(localsUser).(*models.User)
	if !ok {
		return nil
	}

	return user
}
