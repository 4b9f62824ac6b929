package handler_test

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PropertyLens/PropertyLens/internal/web/handler"
)

func TestParseID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := handler.ParseID(c, handler.IDParam)
		if err != nil {
			return err
		}

		return c.JSON(handler.MessageResponse{Message: "ok", ID: id})
	})

	testCases := []struct {
		path   string
		status int
	}{
		{"/items/42", fiber.StatusOK},
		{"/items/0", fiber.StatusBadRequest},
		{"/items/-3", fiber.StatusBadRequest},
		{"/items/abc", fiber.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestBindJSON(t *testing.T) {
	type body struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Post("/", func(c *fiber.Ctx) error {
		var in body
		if err := handler.BindJSON(c, &in); err != nil {
			return err
		}

		return c.JSON(in)
	})
	app.Patch("/", func(c *fiber.Ctx) error {
		patch, err := handler.BindPatch(c)
		if err != nil {
			return err
		}

		return c.JSON(patch)
	})

	testCases := []struct {
		name    string
		method  string
		payload string
		status  int
		contain string
	}{
		{"valid", fiber.MethodPost, `{"name":"a","count":2}`, fiber.StatusOK, `"count":2`},
		{"broken json", fiber.MethodPost, `{"name":`, fiber.StatusBadRequest, handler.ErrInvalidBody.Error()},
		{"wrong type", fiber.MethodPost, `{"count":"two"}`, fiber.StatusBadRequest, `"field":"count"`},
		{"patch object", fiber.MethodPatch, `{"isPublished":true}`, fiber.StatusOK, `"isPublished":true`},
		{"patch array", fiber.MethodPatch, `[1,2]`, fiber.StatusBadRequest, handler.ErrInvalidBody.Error()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/", strings.NewReader(tc.payload))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			buf := new(bytes.Buffer)
			_, err = buf.ReadFrom(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tc.contain)
		})
	}
}
