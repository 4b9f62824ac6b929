// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/PropertyLens/PropertyLens/internal/config"
)

// sqlitePragmas turns on foreign keys, which the pricing feature cascade relies on.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Create builds the Data Source Name of the configured engine.
func Create(cfg *config.Config) (string, error) {
	db := cfg.DB

	switch db.GormEngine {
	case config.EngineMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
			db.User,
			db.Password,
			net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
			db.Name,
			db.Extras,
		), nil
	case config.EnginePostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(db.User, db.Password),
			Host:     net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
			Path:     "/" + db.Name,
			RawQuery: db.Extras,
		}

		return u.String(), nil
	case config.EngineSQLite:
		out := db.SQLitePath + "?" + sqlitePragmas
		if db.Extras != "" {
			out += "&" + db.Extras
		}

		return out, nil
	default:
		return "", fmt.Errorf("%w: %q", config.ErrUnknownGormEngine, db.GormEngine)
	}
}

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	out, err := Create(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysql.Open(out), nil
	case config.EnginePostgres:
		return postgres.Open(out), nil
	default:
		return sqlite.Open(out), nil
	}
}
