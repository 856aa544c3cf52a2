package middleware

import (
	"errors"
	"log/slog"
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/healthion/healthion-api/internal/config"
	"github.com/healthion/healthion-api/internal/dto"
	"github.com/healthion/healthion-api/internal/models"
	"github.com/healthion/healthion-api/internal/services"
)

// Auth0Protected verifies the Bearer token signature against the tenant's
// JWKS. Issuer and audience are checked afterwards in ResolveUser.
func Auth0Protected(jwks *services.Auth0JWKSClient) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc: jwks.Keyfunc,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// ResolveUser validates the token claims and loads (or creates) the local user
// row for the Auth0 identity, storing it in request locals. It also attempts
// Open Wearables registration on a best effort basis so most users are linked
// before they ever hit a wearables endpoint.
func ResolveUser(cfg *config.Config, users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := tokenClaims(c)
		if err != nil {
			return unauthorized(c, "Unauthorized: invalid token claims")
		}

		if iss, _ := claims["iss"].(string); iss != cfg.Auth0IssuerURL() {
			return unauthorized(c, "Unauthorized: invalid token issuer")
		}
		if !audienceMatches(claims["aud"], cfg.Auth0Audience) {
			return unauthorized(c, "Unauthorized: invalid token audience")
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			return unauthorized(c, "Unauthorized: missing subject claim")
		}

		user, err := users.GetOrCreateUser(c.UserContext(), sub, emailFromClaims(claims, cfg.Auth0Audience, sub))
		if err != nil {
			slog.Error("failed to resolve user", "auth0_id", sub, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Failed to resolve user",
			})
		}

		if user.OpenWearablesUserID == nil {
			registered, regErr := users.RegisterWithOpenWearables(c.UserContext(), user)
			if regErr != nil {
				// Not fatal. Endpoints that need the linkage retry or reject.
				if errors.Is(regErr, services.ErrNotConfigured) {
					slog.Error("open wearables registration skipped", "user_id", user.ID, "error", regErr)
				} else {
					slog.Warn("open wearables registration failed", "user_id", user.ID, "error", regErr)
				}
			} else {
				user = registered
			}
		}

		c.Locals("current_user", user)
		c.Locals("permissions", permissionsFromClaims(claims))
		return c.Next()
	}
}

// CurrentUser returns the resolved user for the request. Handlers behind
// ResolveUser can rely on it being present.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals("current_user").(*models.User)
	if !ok || user == nil {
		return nil, errors.New("no user in request context")
	}
	return user, nil
}

// Permissions returns the token's permission strings, never nil.
func Permissions(c *fiber.Ctx) []string {
	if perms, ok := c.Locals("permissions").([]string); ok {
		return perms
	}
	return []string{}
}

func tokenClaims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// audienceMatches handles both the single-string and array forms of `aud`.
func audienceMatches(aud any, expected string) bool {
	switch v := aud.(type) {
	case string:
		return v == expected
	case []interface{}:
		for _, a := range v {
			if s, ok := a.(string); ok && s == expected {
				return true
			}
		}
	}
	return false
}

// emailFromClaims reads the email from the standard claim or the namespaced
// custom claim the Auth0 post-login action sets. Machine tokens carry no
// email at all, so a synthetic one keeps the not-null column satisfied.
func emailFromClaims(claims jwt.MapClaims, audience, sub string) string {
	if email, _ := claims["email"].(string); email != "" {
		return email
	}
	namespaced := strings.TrimRight(audience, "/") + "/email"
	if email, _ := claims[namespaced].(string); email != "" {
		return email
	}
	return sub + "@unknown.com"
}

func permissionsFromClaims(claims jwt.MapClaims) []string {
	raw, ok := claims["permissions"].([]interface{})
	if !ok {
		return []string{}
	}
	perms := make([]string, 0, len(raw))
	for _, p := range raw {
		if s, ok := p.(string); ok {
			perms = append(perms, s)
		}
	}
	return perms
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: msg,
	})
}
