package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/counts", RequireAuth(), RequirePrivilege("inventory:count"), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("operator_name").(string))
	})
	app.Get("/report", RequireAuth(), RequireAnyPrivilege("reconciliation:view", "inventory:count"), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	return app
}

func request(t *testing.T, app *fiber.App, path, authorization string) int {
	req := httptest.NewRequest("GET", path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newApp()

	counter, err := jwt.GenerateToken("op-1", "Giulia", "olbia", []string{"inventory:count"}, time.Hour)
	require.NoError(t, err)
	viewer, err := jwt.GenerateToken("op-2", "Marco", "", []string{"reconciliation:view"}, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 401, request(t, app, "/counts", ""))
	assert.Equal(t, 401, request(t, app, "/counts", "Token "+counter))
	assert.Equal(t, 401, request(t, app, "/counts", "Bearer garbage"))
	assert.Equal(t, 200, request(t, app, "/counts", "Bearer "+counter))
	assert.Equal(t, 403, request(t, app, "/counts", "Bearer "+viewer))
	assert.Equal(t, 200, request(t, app, "/report", "Bearer "+viewer))
	assert.Equal(t, 200, request(t, app, "/report", "bearer "+counter))
}
