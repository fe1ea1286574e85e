package auth

import (
	"strings"

	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const authContextKey = "auth_context"

// AuthContext identifies the caller of a request
type AuthContext struct {
	UserID kernel.UserID
	Role   Role
	Scopes []string
}

func (a *AuthContext) IsRecruiter() bool { return a.Role == RoleRecruiter }
func (a *AuthContext) IsIntern() bool    { return a.Role == RoleIntern }

func (a *AuthContext) HasScope(scope string) bool {
	return HasScope(a.Scopes, scope)
}

// TokenMiddleware authenticates bearer tokens and enforces roles and scopes
type TokenMiddleware struct {
	tokens TokenService
}

func NewAuthMiddleware(tokens TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokens: tokens}
}

// Authenticate validates the bearer token and stores the AuthContext
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return ErrMissingToken()
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return ErrInvalidToken().WithDetail("reason", "invalid authorization format")
		}

		claims, err := m.tokens.ValidateAccessToken(token)
		if err != nil {
			return err
		}

		c.Locals(authContextKey, &AuthContext{
			UserID: claims.UserID,
			Role:   claims.Role,
			Scopes: claims.Scopes,
		})
		return c.Next()
	}
}

// RequireRole must run after Authenticate
func (m *TokenMiddleware) RequireRole(role Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		if authContext.Role != role {
			return ErrInsufficientScope().
				WithDetail("required_role", role).
				WithDetail("role", authContext.Role)
		}
		return c.Next()
	}
}

// RequireScope must run after Authenticate
func (m *TokenMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		if !authContext.HasScope(scope) {
			return ErrInsufficientScope().WithDetail("required_scope", scope)
		}
		return c.Next()
	}
}

// GetAuthContext returns the caller set by Authenticate
func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	authContext, ok := c.Locals(authContextKey).(*AuthContext)
	return authContext, ok && authContext != nil
}
