package daemon

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/PropertyLens/PropertyLens/internal/config"
	"github.com/PropertyLens/PropertyLens/internal/db/dsn"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
	gormadapter "github.com/PropertyLens/PropertyLens/internal/logger/adapter/gorm"
)

// OpenDB connects to the configured database. Driver errors are translated to
// gorm errors, so unique violations surface as gorm.ErrDuplicatedKey.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DB.GormEngine == config.EngineSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.SQLitePath), 0o750); err != nil { //nolint:mnd
			return nil, errors.Wrap(err, "create sqlite directory")
		}
	}

	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormadapter.New(cfg.DB.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if cfg.DB.GormEngine == config.EngineSQLite {
		// sqlite allows one writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "sqlite handle")
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates the tables. The session table is only managed here
// when the sessions live in the sqlite database; the postgres and mysql session
// drivers create their own.
func Migrate(cfg *config.Config, db *gorm.DB) error {
	tables := models.All()

	if cfg.Webserver.Session.Backend == config.SessionBackendDatabase && cfg.DB.GormEngine == config.EngineSQLite {
		tables = append(tables, &models.SessionRecord{})
	}

	if err := db.AutoMigrate(tables...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
