package router

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	apperrors "tourbase/internal/errors"
	"tourbase/internal/handler"
	"tourbase/internal/middleware"
	"tourbase/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	authMW *middleware.Auth,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	users := e.Group("/api/v1/users")

	// Public routes
	users.POST("/signup", authHandler.Signup)
	users.POST("/login", authHandler.Login)
	users.POST("/forgot-password", authHandler.ForgotPassword)
	users.PATCH("/reset-password/:token", authHandler.ResetPassword)

	// Routes behind the authentication gate
	protected := users.Group("", authMW.Protect())
	protected.PATCH("/update-my-password", authHandler.UpdatePassword)
	protected.PATCH("/update-me", userHandler.UpdateMe)
	protected.DELETE("/delete-me", userHandler.DeleteMe)
	protected.POST("/logout", authHandler.Logout)

	// Admin-only user management
	admin := protected.Group("", authMW.RestrictTo(model.RoleAdmin))
	admin.GET("", userHandler.ListUsers)
	admin.GET("/:id", userHandler.GetUser)

	// Unmatched routes go through the same error taxonomy.
	e.RouteNotFound("/*", func(c echo.Context) error {
		return apperrors.NotFound(fmt.Sprintf("can't find %s on this server", c.Request().URL.Path))
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
