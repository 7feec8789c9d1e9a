package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse authorization tag carried by every user.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

// User represents an authenticated user in the system.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Photo        string    `json:"photo,omitempty" gorm:"size:255"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role,omitempty" gorm:"size:50;default:'user'"`
	Active       bool      `json:"-" gorm:"default:true"`

	// PasswordChangedAt invalidates every token issued before it.
	PasswordChangedAt *time.Time `json:"-"`

	// Reset fields are both set or both null. Only the sha256 of the emailed
	// token is stored.
	PasswordResetTokenHash *string    `json:"-" gorm:"size:64;index"`
	PasswordResetExpires   *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChangedPasswordAfter reports whether the password was changed after the given
// token issue time. Tokens issued before a password change are permanently invalid.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}

// HasResetToken reports whether an outstanding reset token is recorded.
func (u *User) HasResetToken() bool {
	return u.PasswordResetTokenHash != nil && u.PasswordResetExpires != nil
}

// ClearResetToken drops the outstanding reset token, if any.
func (u *User) ClearResetToken() {
	u.PasswordResetTokenHash = nil
	u.PasswordResetExpires = nil
}
