package daemon

import (
	"time"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/PropertyLens/PropertyLens/internal/config"
	"github.com/PropertyLens/PropertyLens/internal/db/controller/sessionstore"
	"github.com/PropertyLens/PropertyLens/internal/db/dsn"
	"github.com/PropertyLens/PropertyLens/internal/media"
	"github.com/PropertyLens/PropertyLens/internal/web/session/redisstore"
)

const (
	sessionTable = "sessions"
	gcInterval   = 10 * time.Minute
)

// ErrUnknownMediaProvider is returned for a media provider without storage.
var ErrUnknownMediaProvider = errors.New("unknown media provider")

// SessionStorage opens the storage of the configured session backend.
func SessionStorage(cfg *config.Config, db *gorm.DB) (fiber.Storage, error) {
	if cfg.Webserver.Session.Backend == config.SessionBackendRedis {
		redisCfg := cfg.Webserver.Session.Redis

		storage, err := redisstore.New(redisstore.Config{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		if err != nil {
			return nil, errors.Wrap(err, "connect session redis")
		}

		return storage, nil
	}

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		uri, err := dsn.Create(cfg)
		if err != nil {
			return nil, err
		}

		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: uri,
			Table:         sessionTable,
			GCInterval:    gcInterval,
		}), nil
	case config.EngineMySQL:
		uri, err := dsn.Create(cfg)
		if err != nil {
			return nil, err
		}

		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: uri,
			Table:         sessionTable,
			GCInterval:    gcInterval,
		}), nil
	default:
		store, err := sessionstore.New(db)
		if err != nil {
			return nil, err
		}

		go collectSessions(store)

		return store, nil
	}
}

// collectSessions removes expired rows of the sqlite session table.
func collectSessions(store *sessionstore.Store) {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for range ticker.C {
		n, err := store.GC()
		if err != nil {
			log.Error().Err(err).Msg("failed to remove expired sessions")
			continue
		}

		if n > 0 {
			log.Debug().Int64("removed", n).Msg("expired sessions removed")
		}
	}
}

// MediaStorage creates the storage of the configured media provider.
func MediaStorage(cfg *config.Config) (media.Storage, error) {
	m := cfg.Media

	switch m.Provider {
	case config.MediaLocal:
		return media.NewLocalStorage(m.LocalPath, m.PublicPath)
	case config.MediaS3:
		return media.NewS3Storage(m.S3.Bucket, m.S3.Region, m.S3.PublicURL)
	case config.MediaCloudflare:
		cf := m.Cloudflare

		return media.NewR2Storage(cf.Endpoint, cf.AccessKey, cf.SecretKey, cf.Bucket, cf.PublicURL)
	default:
		return nil, errors.Wrapf(ErrUnknownMediaProvider, "provider %q", m.Provider)
	}
}
