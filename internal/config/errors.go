package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormengine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormengine must be postgres, mysql or sqlite")

	// ErrUnknownSessionBackend error if config webserver.session.backend is not supported.
	ErrUnknownSessionBackend = errors.New("toml config webserver.session.backend must be database or redis")

	// ErrUnknownMediaProvider error if config media.provider is not supported.
	ErrUnknownMediaProvider = errors.New("toml config media.provider must be local, s3 or cloudflare")

	// ErrUnknownPasswordHash error if config auth.passwordhash is not supported.
	ErrUnknownPasswordHash = errors.New("toml config auth.passwordhash must be bcrypt or argon2id")

	// ErrBcryptCostTooLow error if config auth.bcryptcost is below the minimum.
	ErrBcryptCostTooLow = errors.New("toml config auth.bcryptcost must be at least 12")

	// ErrBodyLimitTooSmall error if the request body limit can't carry a maximum sized upload.
	ErrBodyLimitTooSmall = errors.New("toml config webserver.bodylimitmb must be larger than media.maxsizemb")
)
