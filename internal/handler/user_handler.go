package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "tourbase/internal/errors"
	"tourbase/internal/middleware"
	"tourbase/internal/service"
)

// UserHandler exposes user account endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler builds the handler with the user service.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateMeRequest carries self-service profile fields. Password fields are
// rejected here; password changes go through /update-my-password.
type UpdateMeRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Photo           string `json:"photo"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateMeRequest true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /users/update-me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return apperrors.Unauthorized("You are not logged in. Please log in to get access")
	}

	var req UpdateMeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}
	if req.Password != "" || req.PasswordConfirm != "" {
		return apperrors.BadRequest("This route is not for password updates. Please use /update-my-password")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.userService.UpdateMe(c.Request().Context(), user, service.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
	})
	if err != nil {
		if err == service.ErrUserAlreadyExists {
			return apperrors.New(http.StatusConflict, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data":   echo.Map{"user": updated},
	})
}

// DeleteMe godoc
// @Summary Soft-delete the authenticated user's account
// @Tags users
// @Security BearerAuth
// @Success 204
// @Router /users/delete-me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return apperrors.Unauthorized("You are not logged in. Please log in to get access")
	}

	if err := h.userService.DeleteMe(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsers godoc
// @Summary List active users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"results": len(users),
		"data":    echo.Map{"users": users},
	})
}

// GetUser godoc
// @Summary Get a user by ID
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("invalid user id")
	}

	user, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data":   echo.Map{"user": user},
	})
}
