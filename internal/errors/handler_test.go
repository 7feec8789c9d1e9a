package errors

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func handle(t *testing.T, production bool, err error) (int, map[string]interface{}) {
	t.Helper()

	h := NewHTTPErrorHandler(production, slog.New(slog.NewTextHandler(io.Discard, nil)))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	h(err, c)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHTTPErrorHandler_Production(t *testing.T) {
	t.Run("operational client error returns fail envelope", func(t *testing.T) {
		code, body := handle(t, true, NotFound("no such thing"))

		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "fail", body["status"])
		assert.Equal(t, "no such thing", body["message"])
		assert.NotContains(t, body, "stack")
		assert.NotContains(t, body, "error")
	})

	t.Run("operational server error returns error envelope", func(t *testing.T) {
		code, body := handle(t, true, New(http.StatusInternalServerError, "mail gateway down"))

		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "mail gateway down", body["message"])
	})

	t.Run("unexpected error never leaks internals", func(t *testing.T) {
		code, body := handle(t, true, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "something went very wrong", body["message"])
		assert.NotContains(t, body["message"], assert.AnError.Error())
	})
}

func TestHTTPErrorHandler_Development(t *testing.T) {
	code, body := handle(t, false, BadRequest("bad input"))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "bad input", body["message"])
	assert.Contains(t, body, "error")
	assert.Contains(t, body, "stack")
}

func TestHTTPErrorHandler_Translation(t *testing.T) {
	t.Run("duplicate key", func(t *testing.T) {
		code, body := handle(t, true, gorm.ErrDuplicatedKey)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "fail", body["status"])
	})

	t.Run("record not found", func(t *testing.T) {
		code, _ := handle(t, true, gorm.ErrRecordNotFound)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("echo http error", func(t *testing.T) {
		code, body := handle(t, true, echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"))
		assert.Equal(t, http.StatusMethodNotAllowed, code)
		assert.Equal(t, "nope", body["message"])
	})

	t.Run("validation errors", func(t *testing.T) {
		type form struct {
			Email string `validate:"required,email"`
		}
		err := validator.New().Struct(form{Email: "not-an-email"})
		assert.Error(t, err)

		code, body := handle(t, true, err)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body["message"], "Invalid input data")
	})
}
