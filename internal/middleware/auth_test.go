package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"tourbase/internal/auth"
	apperrors "tourbase/internal/errors"
	"tourbase/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetTokenHash(ctx context.Context, hash string) (*model.User, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Deny(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsDenied(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

const testSecret = "test-secret"

func issueToken(t *testing.T, userID uuid.UUID, expiry time.Duration) string {
	t.Helper()
	token, err := auth.NewJWTService(testSecret, expiry).Issue(userID)
	assert.NoError(t, err)
	return token
}

// runProtect sends a request through Protect into a handler that records the
// attached user.
func runProtect(t *testing.T, a *Auth, authHeader string) (*model.User, error) {
	t.Helper()

	var seen *model.User
	h := a.Protect()(func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	err := h(c)
	return seen, err
}

func assertUnauthenticated(t *testing.T, err error) {
	t.Helper()
	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
}

func TestProtect(t *testing.T) {
	userID := uuid.New()
	activeUser := func() *model.User {
		return &model.User{ID: userID, Email: "test@example.com", Role: model.RoleUser, Active: true}
	}

	t.Run("valid token attaches user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(activeUser(), nil)
		tokens := new(MockTokenStore)
		tokens.On("IsDenied", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

		a := NewAuth(testSecret, repo, tokens)
		seen, err := runProtect(t, a, "Bearer "+issueToken(t, userID, time.Hour))

		assert.NoError(t, err)
		assert.NotNil(t, seen)
		assert.Equal(t, userID, seen.ID)
	})

	t.Run("missing header", func(t *testing.T) {
		a := NewAuth(testSecret, new(MockUserRepository), new(MockTokenStore))
		_, err := runProtect(t, a, "")
		assertUnauthenticated(t, err)
	})

	t.Run("malformed header", func(t *testing.T) {
		a := NewAuth(testSecret, new(MockUserRepository), new(MockTokenStore))
		_, err := runProtect(t, a, "Token abc.def.ghi")
		assertUnauthenticated(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		a := NewAuth(testSecret, new(MockUserRepository), new(MockTokenStore))
		_, err := runProtect(t, a, "Bearer "+issueToken(t, userID, -time.Minute))
		assertUnauthenticated(t, err)
	})

	t.Run("tampered signature", func(t *testing.T) {
		token, err := auth.NewJWTService("other-secret", time.Hour).Issue(userID)
		assert.NoError(t, err)

		a := NewAuth(testSecret, new(MockUserRepository), new(MockTokenStore))
		_, err = runProtect(t, a, "Bearer "+token)
		assertUnauthenticated(t, err)
	})

	t.Run("revoked token", func(t *testing.T) {
		tokens := new(MockTokenStore)
		tokens.On("IsDenied", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)

		a := NewAuth(testSecret, new(MockUserRepository), tokens)
		_, err := runProtect(t, a, "Bearer "+issueToken(t, userID, time.Hour))
		assertUnauthenticated(t, err)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		tokens := new(MockTokenStore)
		tokens.On("IsDenied", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

		a := NewAuth(testSecret, repo, tokens)
		_, err := runProtect(t, a, "Bearer "+issueToken(t, userID, time.Hour))
		assertUnauthenticated(t, err)
	})

	t.Run("soft-deleted user", func(t *testing.T) {
		user := activeUser()
		user.Active = false
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(user, nil)
		tokens := new(MockTokenStore)
		tokens.On("IsDenied", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

		a := NewAuth(testSecret, repo, tokens)
		_, err := runProtect(t, a, "Bearer "+issueToken(t, userID, time.Hour))
		assertUnauthenticated(t, err)
	})

	t.Run("token issued before password change", func(t *testing.T) {
		token := issueToken(t, userID, time.Hour)

		user := activeUser()
		changed := time.Now().Add(time.Minute)
		user.PasswordChangedAt = &changed

		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(user, nil)
		tokens := new(MockTokenStore)
		tokens.On("IsDenied", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

		a := NewAuth(testSecret, repo, tokens)
		_, err := runProtect(t, a, "Bearer "+token)
		assertUnauthenticated(t, err)
	})
}

func TestRestrictTo(t *testing.T) {
	run := func(user *model.User, roles ...model.Role) error {
		a := NewAuth(testSecret, new(MockUserRepository), new(MockTokenStore))
		h := a.RestrictTo(roles...)(func(c echo.Context) error {
			return c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := echo.New().NewContext(req, httptest.NewRecorder())
		if user != nil {
			c.Set(UserContextKey, user)
		}
		return h(c)
	}

	t.Run("allowed role passes", func(t *testing.T) {
		err := run(&model.User{Role: model.RoleAdmin}, model.RoleAdmin)
		assert.NoError(t, err)
	})

	t.Run("one of several allowed roles passes", func(t *testing.T) {
		err := run(&model.User{Role: model.RoleLeadGuide}, model.RoleAdmin, model.RoleLeadGuide)
		assert.NoError(t, err)
	})

	t.Run("disallowed role is forbidden", func(t *testing.T) {
		err := run(&model.User{Role: model.RoleUser}, model.RoleAdmin)

		var appErr *apperrors.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
	})

	t.Run("missing user is unauthenticated", func(t *testing.T) {
		err := run(nil, model.RoleAdmin)
		assertUnauthenticated(t, err)
	})
}
