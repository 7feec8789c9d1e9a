package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateResetToken(t *testing.T) {
	before := time.Now()
	reset, err := GenerateResetToken()
	assert.NoError(t, err)

	assert.Len(t, reset.Plain, 64) // 32 random bytes hex encoded
	assert.Equal(t, HashResetToken(reset.Plain), reset.Hash)
	assert.NotEqual(t, reset.Plain, reset.Hash)

	assert.True(t, reset.ExpiresAt.After(before.Add(ResetTokenTTL-time.Minute)))
	assert.True(t, reset.ExpiresAt.Before(before.Add(ResetTokenTTL+time.Minute)))
}

func TestGenerateResetToken_Unique(t *testing.T) {
	first, err := GenerateResetToken()
	assert.NoError(t, err)
	second, err := GenerateResetToken()
	assert.NoError(t, err)

	assert.NotEqual(t, first.Plain, second.Plain)
	assert.NotEqual(t, first.Hash, second.Hash)
}

func TestResetTokenMatches(t *testing.T) {
	reset, err := GenerateResetToken()
	assert.NoError(t, err)

	assert.True(t, ResetTokenMatches(reset.Plain, reset.Hash))
	assert.False(t, ResetTokenMatches("wrong-token", reset.Hash))

	other, err := GenerateResetToken()
	assert.NoError(t, err)
	assert.False(t, ResetTokenMatches(other.Plain, reset.Hash))
}
