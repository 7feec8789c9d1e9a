package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	assert.NoError(t, err)

	got, err := claims.UserID()
	assert.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.NotEmpty(t, claims.ID)
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestJWTService_VerifyFailures(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTService("test-secret", -time.Minute)
		token, err := expired.Issue(uuid.New())
		assert.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("other-secret", time.Hour)
		token, err := other.Issue(uuid.New())
		assert.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})
}

func TestJWTService_SequentialTokensDistinct(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	first, err := svc.Issue(userID)
	assert.NoError(t, err)
	second, err := svc.Issue(userID)
	assert.NoError(t, err)

	// Each token has a unique ID, so back-to-back issues never collide.
	assert.NotEqual(t, first, second)

	for _, token := range []string{first, second} {
		claims, err := svc.Verify(token)
		assert.NoError(t, err)
		got, err := claims.UserID()
		assert.NoError(t, err)
		assert.Equal(t, userID, got)
	}
}
