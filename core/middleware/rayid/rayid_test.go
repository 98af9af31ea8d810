package rayid_test

import (
	"net/http/httptest"
	"testing"

	"reg-manager/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	app := fiber.New()
	app.Use(rayid.New())

	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen, _ = c.Locals(rayid.LocalsKey).(string)
		return c.SendStatus(fiber.StatusOK)
	})

	t.Run("Generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, resp.Header.Get(rayid.Header))
	})

	t.Run("InboundHonored", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(rayid.Header, "edge-7f3a")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "edge-7f3a", seen)
		assert.Equal(t, "edge-7f3a", resp.Header.Get(rayid.Header))
	})
}
