package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUser_ChangedPasswordAfter(t *testing.T) {
	issuedAt := time.Now()

	t.Run("never changed", func(t *testing.T) {
		u := &User{}
		assert.False(t, u.ChangedPasswordAfter(issuedAt))
	})

	t.Run("changed before issue", func(t *testing.T) {
		changed := issuedAt.Add(-time.Hour)
		u := &User{PasswordChangedAt: &changed}
		assert.False(t, u.ChangedPasswordAfter(issuedAt))
	})

	t.Run("changed after issue", func(t *testing.T) {
		changed := issuedAt.Add(time.Hour)
		u := &User{PasswordChangedAt: &changed}
		assert.True(t, u.ChangedPasswordAfter(issuedAt))
	})
}

func TestUser_ResetTokenLifecycle(t *testing.T) {
	u := &User{}
	assert.False(t, u.HasResetToken())

	hash := "deadbeef"
	expires := time.Now().Add(10 * time.Minute)
	u.PasswordResetTokenHash = &hash
	u.PasswordResetExpires = &expires
	assert.True(t, u.HasResetToken())

	u.ClearResetToken()
	assert.False(t, u.HasResetToken())
	assert.Nil(t, u.PasswordResetTokenHash)
	assert.Nil(t, u.PasswordResetExpires)
}

// Sensitive fields must never serialize, whatever their values.
func TestUser_JSONHidesSensitiveFields(t *testing.T) {
	hash := "reset-hash"
	now := time.Now()
	u := &User{
		ID:                     uuid.New(),
		Name:                   "A",
		Email:                  "a@x.com",
		PasswordHash:           "bcrypt-hash",
		Role:                   RoleUser,
		Active:                 true,
		PasswordChangedAt:      &now,
		PasswordResetTokenHash: &hash,
		PasswordResetExpires:   &now,
	}

	payload, err := json.Marshal(u)
	assert.NoError(t, err)

	assert.NotContains(t, string(payload), "bcrypt-hash")
	assert.NotContains(t, string(payload), "reset-hash")
	assert.NotContains(t, string(payload), "password")
	assert.Contains(t, string(payload), "a@x.com")
}
