package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

// Context keys set by Auth.
const (
	KeyUserID = "user_id"
	KeyRole   = "role"
	KeyName   = "name"
)

// UserLookup resolves the current state of a token's subject.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth validates the JWT and injects the actor into context. When users is
// non-nil the role is re-read from storage, so role changes and deletions
// take effect before the token expires.
func Auth(jwtSecret string, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}
			rawRole, _ := claims["role"].(string)
			role, _ := domain.ParseRole(rawRole)
			name, _ := claims["name"].(string)

			if users != nil {
				u, err := users.FindByID(c.Request().Context(), sub)
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
				}
				if err != nil {
					return err
				}
				role, name = u.Role, u.Name
			}

			c.Set(KeyUserID, sub)
			c.Set(KeyRole, role)
			c.Set(KeyName, name)

			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by Auth.
func ActorFrom(c echo.Context) (domain.Actor, bool) {
	id, _ := c.Get(KeyUserID).(string)
	role, _ := c.Get(KeyRole).(domain.Role)
	if id == "" || role == "" {
		return domain.Actor{}, false
	}
	name, _ := c.Get(KeyName).(string)
	return domain.Actor{ID: id, Name: name, Role: role}, true
}
