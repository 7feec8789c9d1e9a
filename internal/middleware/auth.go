package middleware

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"tourbase/internal/auth"
	apperrors "tourbase/internal/errors"
	"tourbase/internal/model"
	"tourbase/internal/repository"
)

const (
	// UserContextKey holds the authenticated *model.User after Protect.
	UserContextKey = "currentUser"
	// ClaimsContextKey holds the verified token claims after Protect.
	ClaimsContextKey = "tokenClaims"
)

// Auth provides the request authentication and authorization gates.
type Auth struct {
	secret []byte
	users  repository.UserRepository
	tokens auth.TokenStoreInterface
}

// NewAuth builds the middleware with its collaborators injected.
func NewAuth(jwtSecret string, users repository.UserRepository, tokens auth.TokenStoreInterface) *Auth {
	return &Auth{
		secret: []byte(jwtSecret),
		users:  users,
		tokens: tokens,
	}
}

// Protect authenticates a request: Bearer token extraction and signature check,
// denylist check, user lookup, and stale-password rejection. On success the
// user and claims are attached to the request context. Any failure is a 401.
func (a *Auth) Protect() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey: a.secret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(jwt.RegisteredClaims)
		},
		ErrorHandler: protectError,
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(a.loadUser(next))
	}
}

func protectError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, echojwt.ErrJWTMissing):
		return apperrors.Unauthorized("You are not logged in. Please log in to get access")
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Unauthorized("Your token has expired. Please log in again")
	default:
		return apperrors.Unauthorized("Invalid token. Please log in again")
	}
}

// loadUser runs after signature verification and binds the token to the
// current state of the user record.
func (a *Auth) loadUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return apperrors.Unauthorized("You are not logged in. Please log in to get access")
		}
		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			return apperrors.Unauthorized("Invalid token. Please log in again")
		}

		ctx := c.Request().Context()

		if denied, _ := a.tokens.IsDenied(ctx, claims.ID); denied {
			return apperrors.Unauthorized("Your token is no longer valid. Please log in again")
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return apperrors.Unauthorized("Invalid token. Please log in again")
		}
		user, err := a.users.FindByID(ctx, userID)
		if err != nil || !user.Active {
			return apperrors.Unauthorized("The user belonging to this token no longer exists")
		}

		if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
			return apperrors.Unauthorized("Password was recently changed. Please log in again")
		}

		c.Set(UserContextKey, user)
		c.Set(ClaimsContextKey, claims)
		return next(c)
	}
}

// RestrictTo authorizes by role, after Protect has run.
func (a *Auth) RestrictTo(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return apperrors.Unauthorized("You are not logged in. Please log in to get access")
			}
			if _, ok := allowed[user.Role]; !ok {
				return apperrors.Forbidden("You do not have permission to perform this action")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user attached by Protect, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(UserContextKey).(*model.User)
	return user
}

// TokenClaims returns the verified claims attached by Protect, or nil.
func TokenClaims(c echo.Context) *jwt.RegisteredClaims {
	claims, _ := c.Get(ClaimsContextKey).(*jwt.RegisteredClaims)
	return claims
}
