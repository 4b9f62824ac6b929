package config

import (
	"time"

	"github.com/PropertyLens/PropertyLens/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration // session lifetime, defaults to 7 days
	Backend    string        // database or redis
	Redis      Redis
}

// Redis connection used by the redis session backend.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Auth holds the password hashing settings.
type Auth struct {
	PasswordHash string // bcrypt (default) or argon2id
	BcryptCost   int    // bcrypt cost, at least 12
}

// Media holds the upload settings.
type Media struct {
	Provider   string // local, s3 or cloudflare
	MaxSizeMB  int    // upload limit in megabytes, defaults to 10
	LocalPath  string // upload directory of the local provider
	PublicPath string // URL prefix the local uploads are served under
	S3         S3
	Cloudflare Cloudflare
}

// S3 holds the AWS S3 settings.
type S3 struct {
	Bucket    string
	Region    string
	PublicURL string // optional CDN base URL
}

// Cloudflare holds the R2 settings.
type Cloudflare struct {
	Endpoint  string // <account>.r2.cloudflarestorage.com
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // public bucket or custom domain URL
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
	Media     Media
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	CookieName     string  // name of the session cookie
	Session        Session // session settings
	BodyLimitMB    int     // request body limit, must exceed Media.MaxSizeMB
}
