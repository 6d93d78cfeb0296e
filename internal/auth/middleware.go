package auth

import (
	"strings"

	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const principalContextKey = "rentit_principal"

// Attach returns middleware that verifies a bearer token when present and
// stores the resulting principal on the context. It never rejects a
// request: a missing or bad token just leaves the request unauthenticated,
// and the absence of a principal is the only downstream signal.
func Attach(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
			if tokenStr == "" {
				return next(c)
			}
			p, err := ParseToken(secret, tokenStr)
			if err != nil {
				zap.L().Debug("token rejected", zap.String("path", c.Path()), zap.Error(err))
				return next(c)
			}
			c.Set(principalContextKey, p)
			return next(c)
		}
	}
}

// FromContext returns the request principal, if one was attached.
func FromContext(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalContextKey).(Principal)
	return p, ok
}

// Required rejects unauthenticated requests. An empty role list means
// "any authenticated principal"; otherwise the principal's role must be
// in the set. The gate runs before any handler data access.
func Required(roles ...Role) echo.MiddlewareFunc {
	allowed := make(map[Role]struct{}, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
		names = append(names, r.String())
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := FromContext(c)
			if !ok {
				return apperr.Unauthorized("Unauthorized - No valid token")
			}
			if len(allowed) > 0 {
				if _, ok := allowed[p.Role]; !ok {
					return apperr.Forbidden("Forbidden - Required role: %s", strings.Join(names, ", "))
				}
			}
			return next(c)
		}
	}
}
