package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/access"
)

// policyMiddleware guards a route with the access policy. Principals come
// from the JWT claims when present; unknown or missing claims downgrade to
// Anonymous so the policy can fail closed.
func policyMiddleware(action access.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			principal := access.Anonymous
			if claims, err := getContextClaims(ctx); err == nil {
				principal = claims.principal()
			}
			if access.Allowed(action, principal) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
