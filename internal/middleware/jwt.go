package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/campus-go-api/internal/utils"
)

// tokenIdentity is what a verified bearer token tells us about the caller.
type tokenIdentity struct {
	userID uint
	hasID  bool
	role   string
	email  string
}

// JWTProtected validates HMAC-signed bearer tokens and stashes the verified
// identity in locals as user_id (uint), user_role and user_email. Claims
// that are absent or malformed leave the corresponding local unset; RBAC
// and handlers decide whether that is fatal.
func JWTProtected(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		identity := identityFromClaims(claims)
		if identity.hasID {
			c.Locals("user_id", identity.userID)
		}
		if identity.role != "" {
			c.Locals("user_role", identity.role)
		}
		if identity.email != "" {
			c.Locals("user_email", identity.email)
		}

		return c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("authorization header missing")
	}

	const scheme = "bearer "
	if len(header) < len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", errors.New("invalid authorization header")
	}

	token := strings.TrimSpace(header[len(scheme):])
	if token == "" {
		return "", errors.New("invalid token")
	}

	return token, nil
}

func identityFromClaims(claims jwt.MapClaims) tokenIdentity {
	var identity tokenIdentity

	// sub wins over the legacy user_id/id claims of older issuers.
	for _, key := range []string{"sub", "user_id", "id"} {
		value, ok := claims[key]
		if !ok {
			continue
		}
		if id, ok := subjectToUserID(value); ok {
			identity.userID = id
			identity.hasID = true
			break
		}
	}

	for _, key := range []string{"role", "roles"} {
		value, ok := claims[key]
		if !ok {
			continue
		}
		if role := roleClaim(value); role != "" {
			identity.role = role
			break
		}
	}

	if email, ok := claims["email"].(string); ok {
		identity.email = strings.TrimSpace(email)
	}

	return identity
}

func subjectToUserID(value interface{}) (uint, bool) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return uint(parsed), true
	default:
		return 0, false
	}
}

// roleClaim accepts both a single role string and the role-list shape some
// identity providers emit, taking the first non-empty entry.
func roleClaim(value interface{}) string {
	switch v := value.(type) {
	case string:
		return canonicalRole(v)
	case []interface{}:
		for _, item := range v {
			if role := canonicalRole(item); role != "" {
				return role
			}
		}
	}
	return ""
}
