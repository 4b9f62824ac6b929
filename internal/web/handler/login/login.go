package login

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/PropertyLens/PropertyLens/internal/auth"
	"github.com/PropertyLens/PropertyLens/internal/config"
	"github.com/PropertyLens/PropertyLens/internal/web/handler"
	"github.com/PropertyLens/PropertyLens/internal/web/session"
)

const (
	// Path is the path of the login endpoint.
	Path = handler.APIPath + "/login"

	// UserPath returns the signed in user.
	UserPath = handler.APIPath + "/auth/user"

	// PasswordPath changes the password of the signed in user.
	PasswordPath = handler.APIPath + "/auth/password"
)

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PasswordChange is the body of a password change.
type PasswordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Service is the login handler service.
type Service struct {
	cfg         *config.Config
	credentials *auth.CredentialStore
	sessions    *session.Manager
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return ErrDepsMissing
	}

	if deps.Credentials == nil {
		return ErrDepsMissing
	}

	s.cfg = deps.Config
	s.credentials = deps.Credentials
	s.sessions = deps.Sessions

	app.Post(Path, s.Post)
	app.Get(UserPath, deps.Require(auth.LevelAuthenticated), s.User)
	app.Post(PasswordPath, deps.Require(auth.LevelAuthenticated), s.ChangePassword)

	return nil
}

// Post checks the credentials and starts a session.
func (s *Service) Post(c *fiber.Ctx) error {
	var in Credentials
	if err := handler.BindJSON(c, &in); err != nil {
		return err
	}

	if in.Username == "" || in.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, ErrMissingCredentials.Error())
	}

	user, err := s.credentials.Authenticate(c.UserContext(), in.Username, in.Password)
	if err != nil {
		log.Info().Err(err).Str("username", in.Username).Str("ip", c.IP()).Msg("login failed")

		return err
	}

	token, err := s.sessions.Create(c.UserContext(), user)
	if err != nil {
		return err
	}

	// set login cookie
	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.Webserver.CookieName,
		Value:    token,
		Path:     handler.RootPath,
		MaxAge:   int(s.sessions.TTL().Seconds()),
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("user logged in")

	return c.JSON(user)
}

// User returns the signed in user.
func (s *Service) User(c *fiber.Ctx) error {
	return c.JSON(auth.CurrentUser(c))
}

// ChangePassword sets a new password after checking the current one.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	var in PasswordChange
	if err := handler.BindJSON(c, &in); err != nil {
		return err
	}

	user := auth.CurrentUser(c)

	if err := s.credentials.ChangePassword(c.UserContext(), user.ID, in.OldPassword, in.NewPassword); err != nil {
		return err
	}

	log.Info().Uint64("user_id", user.ID).Msg("password changed")

	return c.JSON(handler.MessageResponse{Message: "password changed"})
}
