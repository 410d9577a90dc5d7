package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-go-api/internal/utils"
)

// RequireRole restricts a route to users holding one of the listed roles.
// Role comparison is case-insensitive; an empty or missing role never
// matches.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if normalized := canonicalRole(role); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := allowed[canonicalRole(c.Locals("user_role"))]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// canonicalRole folds whatever the JWT layer stashed in locals into a
// lowercase role name. Tokens minted by older issuers carry roles with
// inconsistent casing, so the fold is load-bearing.
func canonicalRole(value interface{}) string {
	var raw string
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		raw = v
	case fmt.Stringer:
		raw = v.String()
	default:
		raw = fmt.Sprintf("%v", value)
	}

	return strings.ToLower(strings.TrimSpace(raw))
}
