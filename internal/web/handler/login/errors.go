// Package login provides the HTTP handlers that sign staff users in.
//
// This file defines exported error values used throughout the login flow.
package login

import "errors"

var (
	// ErrDepsMissing is returned by Init without credentials or sessions.
	ErrDepsMissing = errors.New("login handler needs credentials and sessions")

	// ErrMissingCredentials is returned when username or password are empty.
	ErrMissingCredentials = errors.New("username and password are required")
)
