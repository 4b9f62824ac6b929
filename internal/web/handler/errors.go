package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/auth"
)

// ErrInvalidBody is returned when a request body is not the expected JSON.
var ErrInvalidBody = errors.New("request body must be a JSON object")

const msgInternal = "internal server error"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

// MessageResponse is the body of requests that return no record.
type MessageResponse struct {
	Message string `json:"message"`
	ID      uint64 `json:"id,omitempty"`
}

// ErrorHandler maps errors returned by handlers onto status codes and JSON bodies.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, body := Describe(err)

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(status).JSON(body)
}

// Describe returns the status code and body for err.
func Describe(err error) (int, ErrorResponse) {
	var (
		verr  *apperr.ValidationError
		ferr  *fiber.Error
		cferr *apperr.ConflictError
	)

	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, ErrorResponse{Message: apperr.ErrValidation.Error(), Errors: verr.Fields}
	case errors.Is(err, ErrInvalidBody):
		return fiber.StatusBadRequest, ErrorResponse{Message: ErrInvalidBody.Error()}
	case errors.Is(err, auth.ErrInvalidOldPassword):
		return fiber.StatusBadRequest, ErrorResponse{Message: auth.ErrInvalidOldPassword.Error()}
	case errors.As(err, &cferr):
		return fiber.StatusConflict, ErrorResponse{Message: cferr.Error()}
	case errors.Is(err, apperr.ErrConflict):
		return fiber.StatusConflict, ErrorResponse{Message: apperr.ErrConflict.Error()}
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound, ErrorResponse{Message: err.Error()}
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthenticated):
		return fiber.StatusUnauthorized, ErrorResponse{Message: err.Error()}
	case errors.Is(err, auth.ErrUserAccountDisabled), errors.Is(err, auth.ErrForbidden):
		return fiber.StatusForbidden, ErrorResponse{Message: err.Error()}
	case errors.As(err, &ferr):
		return ferr.Code, ErrorResponse{Message: ferr.Message}
	default:
		return fiber.StatusInternalServerError, ErrorResponse{Message: msgInternal}
	}
}
