package handler

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
)

// ParseID reads the numeric route parameter name.
func ParseID(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Invalid(name, "id", "must be a positive integer")
	}

	return id, nil
}

// BindJSON decodes the request body into out with the app's JSON decoder.
func BindJSON(c *fiber.Ctx, out any) error {
	if err := c.App().Config().JSONDecoder(c.Body(), out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperr.Invalid(typeErr.Field, "type", "must be of type "+typeErr.Type.String())
		}

		return ErrInvalidBody
	}

	return nil
}

// BindPatch decodes the request body into a JSON object.
func BindPatch(c *fiber.Ctx) (map[string]any, error) {
	patch := map[string]any{}

	if err := c.App().Config().JSONDecoder(c.Body(), &patch); err != nil {
		return nil, ErrInvalidBody
	}

	return patch, nil
}
