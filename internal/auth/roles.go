package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Role is the access level carried in a token.
type Role string

const (
	// RoleViewer may read collections and the dashboard.
	RoleViewer Role = "viewer"
	// RoleOperator may also create, edit and delete records.
	RoleOperator Role = "operator"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	return r == RoleViewer || r == RoleOperator
}

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...Role) fiber.Handler {
	allowedSet := make(map[Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}
