package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"hungryHub/pkg/logger"
	"hungryHub/pkg/utils"

	jsonres "hungryHub/pkg/response"

	"github.com/labstack/echo/v4"
)

// PermissionChecker answers whether a role carries a named permission.
type PermissionChecker interface {
	HasPermission(ctx context.Context, roleName, permission string) (bool, error)
}

// AuthMiddleware verifies the bearer token and publishes the caller
// identity on the request context.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			tokenString := tokenParts[1]

			claims, err := utils.ParseJWT(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			expAt, err := claims.GetExpirationTime()
			if err != nil || time.Now().After(expAt.Time) {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Token expired", nil,
				))
			}

			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
			c.Set("token", tokenString)

			return next(c)
		}
	}
}

// RequirePermission gates an endpoint on a named permission of the
// caller's role. Runs after AuthMiddleware.
func RequirePermission(checker PermissionChecker, permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || role == "" {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Invalid role", nil,
				))
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			allowed, err := checker.HasPermission(ctx, role, permission)
			if err != nil {
				logger.Error("Failed to check permission", err)
				return c.JSON(http.StatusInternalServerError, jsonres.Error(
					"INTERNAL", "Permission check failed", nil,
				))
			}

			if !allowed {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Missing permission: "+permission, nil,
				))
			}

			return next(c)
		}
	}
}
