package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = 10 * time.Minute

// ResetToken carries a freshly generated password reset token. Plain is mailed
// to the user and never persisted; only Hash is stored, so a leaked database
// snapshot cannot be replayed.
type ResetToken struct {
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

// GenerateResetToken produces a cryptographically random single-use token.
func GenerateResetToken() (*ResetToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate random bytes: %w", err)
	}

	plain := hex.EncodeToString(raw)
	return &ResetToken{
		Plain:     plain,
		Hash:      HashResetToken(plain),
		ExpiresAt: time.Now().Add(ResetTokenTTL),
	}, nil
}

// HashResetToken recomputes the stored form of a presented plaintext token.
func HashResetToken(plain string) string {
	h := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(h[:])
}

// ResetTokenMatches compares a presented plaintext token against a stored hash
// in constant time.
func ResetTokenMatches(plain, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashResetToken(plain)), []byte(storedHash)) == 1
}
