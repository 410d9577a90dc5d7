package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-go-api/internal/middleware"
)

const testSecret = "contract-test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newProtectedApp() (*fiber.App, *fiber.Map) {
	captured := &fiber.Map{}

	app := fiber.New()
	app.Use(middleware.JWTProtected(testSecret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		(*captured)["user_id"] = c.Locals("user_id")
		(*captured)["user_role"] = c.Locals("user_role")
		(*captured)["user_email"] = c.Locals("user_email")
		return c.SendStatus(fiber.StatusOK)
	})

	return app, captured
}

func TestJWTProtectedAttachesIdentity(t *testing.T) {
	app, captured := newProtectedApp()

	token := signToken(t, jwt.MapClaims{
		"sub":   "42",
		"role":  "Faculty",
		"email": " jane.faculty@campus.edu ",
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, uint(42), (*captured)["user_id"])
	require.Equal(t, "faculty", (*captured)["user_role"])
	require.Equal(t, "jane.faculty@campus.edu", (*captured)["user_email"])
}

func TestJWTProtectedRejectsMissingHeader(t *testing.T) {
	app, _ := newProtectedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsBadSignature(t *testing.T) {
	app, _ := newProtectedApp()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"})
	signed, err := token.SignedString([]byte("a-different-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_role", c.Get("X-Test-Role"))
		return c.Next()
	})
	app.Get("/admin", middleware.RequireRole("admin", "librarian"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Test-Role", "Librarian")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Test-Role", "student")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
