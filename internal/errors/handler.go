package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// NewHTTPErrorHandler returns a centralized echo error handler. Every failure is
// translated into an AppError first, then formatted for the current mode:
// development responses carry the raw error and a stack, production responses
// only expose operational messages.
func NewHTTPErrorHandler(production bool, logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := translate(err)

		if production {
			sendProd(c, appErr, logger)
			return
		}
		sendDev(c, appErr, err)
	}
}

// translate maps known infrastructure error shapes onto the application
// taxonomy before formatting.
func translate(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		msgs := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return BadRequest("Invalid input data. " + strings.Join(msgs, ". "))
	}

	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return BadRequest("Duplicate field value, please use another value")
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("Resource not found")
	}

	var httpErr *echo.HTTPError
	if stderrors.As(err, &httpErr) {
		msg := fmt.Sprintf("%v", httpErr.Message)
		e := New(httpErr.Code, msg)
		e.Err = httpErr.Internal
		return e
	}

	return Internal(err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field %q is required", fe.Field())
	case "email":
		return "Please provide a valid email"
	case "min":
		return fmt.Sprintf("Field %q must be at least %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return "Passwords do not match"
	default:
		return fmt.Sprintf("Field %q is invalid", fe.Field())
	}
}

func sendDev(c echo.Context, appErr *AppError, original error) {
	_ = c.JSON(appErr.StatusCode, echo.Map{
		"status":  appErr.Status(),
		"message": appErr.Message,
		"error":   original.Error(),
		"stack":   string(debug.Stack()),
	})
}

func sendProd(c echo.Context, appErr *AppError, logger *slog.Logger) {
	if appErr.Operational {
		_ = c.JSON(appErr.StatusCode, echo.Map{
			"status":  appErr.Status(),
			"message": appErr.Message,
		})
		return
	}

	// Unexpected fault: log the cause, never leak it to the caller.
	logger.Error("unexpected error",
		slog.String("path", c.Request().URL.Path),
		slog.Any("error", appErr.Err),
	)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"status":  "error",
		"message": "something went very wrong",
	})
}
