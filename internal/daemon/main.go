// Package daemon wires the database, the session and media backends and the web service.
package daemon

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/PropertyLens/PropertyLens/internal/auth"
	"github.com/PropertyLens/PropertyLens/internal/config"
	"github.com/PropertyLens/PropertyLens/internal/media"
	"github.com/PropertyLens/PropertyLens/internal/web"
	"github.com/PropertyLens/PropertyLens/internal/web/handler"
	"github.com/PropertyLens/PropertyLens/internal/web/session"
)

// ErrConfigNil is returned by New without a config.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	storage    fiber.Storage
	webService *web.Service
}

// Start starts the web service and blocks until it was shut down.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	addr := ":" + strconv.Itoa(d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Msg("starting http server")

	if err := d.webService.Start(addr); err != nil {
		return err
	}

	return d.Close()
}

// Close releases the session storage and the database connections.
func (d *Daemon) Close() error {
	if err := d.storage.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close session storage")
	}

	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// App returns the fiber app of the web service.
func (d *Daemon) App() *fiber.App {
	return d.webService.App
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = Migrate(cfg, db); err != nil {
		return nil, err
	}

	credentials := auth.NewCredentialStore(db, Hasher(cfg))

	storage, err := SessionStorage(cfg, db)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewManager(storage, credentials, cfg.Webserver.Session.ExpiryTime)
	if err != nil {
		return nil, err
	}

	deps := &handler.Deps{
		Config:      cfg,
		DB:          db,
		Sessions:    sessions,
		Credentials: credentials,
		Resolver:    media.NewResolver(db),
	}

	mediaStorage, err := MediaStorage(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "media storage")
	}

	if deps.Media, err = media.NewService(db, mediaStorage, int64(cfg.Media.MaxSizeMB)<<20); err != nil { //nolint:mnd
		return nil, err
	}

	webService, err := web.New(deps)
	if err != nil {
		return nil, errors.Wrap(err, handler.ErrNilDepsFatalLogMsg)
	}

	webService.SetFastShutdown(cfg.DevMode)

	return &Daemon{
		cfg:        cfg,
		db:         db,
		storage:    storage,
		webService: webService,
	}, nil
}

// Hasher returns the password hasher of the configured algorithm.
func Hasher(cfg *config.Config) *auth.Hasher {
	return auth.NewHasher(cfg.Auth.PasswordHash, cfg.Auth.BcryptCost)
}

// Provision creates a staff account unless the username exists.
// It is how the first admin gets into an empty database.
func Provision(ctx context.Context, cfg *config.Config, in auth.NewUser) (bool, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return false, err
	}

	if sqlDB, errDB := db.DB(); errDB == nil {
		defer sqlDB.Close()
	}

	if err = Migrate(cfg, db); err != nil {
		return false, err
	}

	user, created, err := auth.NewCredentialStore(db, Hasher(cfg)).EnsureUser(ctx, in)
	if err != nil {
		return false, err
	}

	if created {
		log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Str("role", string(user.Role)).Msg("user provisioned")
	} else {
		log.Info().Str("username", user.Username).Msg("user already exists, left unchanged")
	}

	return created, nil
}
