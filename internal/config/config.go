// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	// EnvConfigJSON names the env var whose JSON overrides the toml file.
	EnvConfigJSON = "PROPERTYLENS_CONFIG_JSON"

	// DefaultSessionExpiry is the session lifetime if not configured.
	DefaultSessionExpiry = 7 * 24 * time.Hour

	// DefaultCookieName is the session cookie name if not configured.
	DefaultCookieName = "session"

	// DefaultMediaMaxSizeMB is the upload limit if not configured.
	DefaultMediaMaxSizeMB = 10

	// DefaultSQLitePath is the database file of the sqlite engine if not configured.
	DefaultSQLitePath = "./data/propertylens.db"

	// MinBcryptCost is the lowest accepted bcrypt cost.
	MinBcryptCost = 12

	// Engines.
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
	EngineSQLite   = "sqlite"

	// Session backends.
	SessionBackendDatabase = "database"
	SessionBackendRedis    = "redis"

	// Media providers.
	MediaLocal      = "local"
	MediaS3         = "s3"
	MediaCloudflare = "cloudflare"

	// Password hashes.
	HashBcrypt   = "bcrypt"
	HashArgon2id = "argon2id"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate the config and fill in defaults for optional settings.
func validate(c *Config) error { //nolint:gocyclo,cyclop
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	// validate access-control-allow-origin
	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Webserver.CookieName == "" {
		c.Webserver.CookieName = DefaultCookieName
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = DefaultSessionExpiry
	}

	switch c.Webserver.Session.Backend {
	case "":
		c.Webserver.Session.Backend = SessionBackendDatabase
	case SessionBackendDatabase, SessionBackendRedis:
	default:
		return errors.Wrap(ErrUnknownSessionBackend, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EnginePostgres, EngineMySQL, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if c.DB.GormEngine == EngineSQLite && c.DB.SQLitePath == "" {
		c.DB.SQLitePath = DefaultSQLitePath
	}

	switch c.Auth.PasswordHash {
	case "":
		c.Auth.PasswordHash = HashBcrypt
	case HashBcrypt, HashArgon2id:
	default:
		return errors.Wrap(ErrUnknownPasswordHash, invalidErrMessage)
	}

	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = MinBcryptCost
	}

	if c.Auth.BcryptCost < MinBcryptCost {
		return errors.Wrap(ErrBcryptCostTooLow, invalidErrMessage)
	}

	switch c.Media.Provider {
	case "":
		c.Media.Provider = MediaLocal
	case MediaLocal, MediaS3, MediaCloudflare:
	default:
		return errors.Wrap(ErrUnknownMediaProvider, invalidErrMessage)
	}

	if c.Media.MaxSizeMB == 0 {
		c.Media.MaxSizeMB = DefaultMediaMaxSizeMB
	}

	if c.Media.LocalPath == "" {
		c.Media.LocalPath = "./uploads"
	}

	if c.Media.PublicPath == "" {
		c.Media.PublicPath = "/uploads"
	}

	if c.Webserver.BodyLimitMB == 0 {
		c.Webserver.BodyLimitMB = c.Media.MaxSizeMB + 2 //nolint:mnd // multipart overhead
	}

	if c.Webserver.BodyLimitMB <= c.Media.MaxSizeMB {
		return errors.Wrap(ErrBodyLimitTooSmall, invalidErrMessage)
	}

	return nil
}
