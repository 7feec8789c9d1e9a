package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tourbase/internal/auth"
	"tourbase/internal/mail"
	"tourbase/internal/model"
	"tourbase/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The same value covers unknown email and wrong password so responses give
	// no enumeration signal.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrUserAlreadyExists is returned when the email is already registered.
	ErrUserAlreadyExists = errors.New("email address is already registered")
	// ErrUserNotFound is returned when no user matches the given email.
	ErrUserNotFound = errors.New("there is no user with that email address")
	// ErrResetTokenInvalid is returned when a reset token is unknown or expired.
	ErrResetTokenInvalid = errors.New("token is invalid or has expired")
	// ErrWrongPassword is returned when the current password does not verify.
	ErrWrongPassword = errors.New("your current password is wrong")
	// ErrEmailDelivery is returned when the reset email could not be sent.
	ErrEmailDelivery = errors.New("there was an error sending the email, try again later")
)

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (user *model.User, token string, err error)
	Login(ctx context.Context, email, password string) (token string, err error)
	ForgotPassword(ctx context.Context, email, resetBaseURL string) error
	ResetPassword(ctx context.Context, plainToken, newPassword string) (token string, err error)
	UpdatePassword(ctx context.Context, user *model.User, currentPassword, newPassword string) (token string, err error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	mailer     mail.Mailer
	bcryptCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	mailer mail.Mailer,
	bcryptCost int,
) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		mailer:     mailer,
		bcryptCost: bcryptCost,
	}
}

// Signup creates a new user with a hashed password and issues a token.
func (s *authService) Signup(ctx context.Context, name, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	user := &model.User{
		ID:     uuid.New(),
		Name:   name,
		Email:  email,
		Role:   model.RoleUser,
		Active: true,
	}
	if err := s.hashPassword(user, password); err != nil {
		return nil, "", err
	}
	// Creation is not a password change, no token predates this account.
	user.PasswordChangedAt = nil

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a token.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !user.Active {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// ForgotPassword generates a reset token, persists its hash and mails the
// plaintext. If dispatch fails the reset fields are rolled back so the user can
// retry immediately.
func (s *authService) ForgotPassword(ctx context.Context, email, resetBaseURL string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	reset, err := auth.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	user.PasswordResetTokenHash = &reset.Hash
	user.PasswordResetExpires = &reset.ExpiresAt
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	msg := mail.Message{
		To:      user.Email,
		Subject: "Your password reset token (valid for 10 minutes)",
		Body: fmt.Sprintf(
			"Forgot your password? Submit a PATCH request with your new password to:\n\n%s/%s\n\nIf you didn't forget your password, please ignore this email.",
			strings.TrimRight(resetBaseURL, "/"), reset.Plain,
		),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// Compensate best effort: clear the just-written fields so a retry
		// does not leave a dangling token behind.
		user.ClearResetToken()
		_ = s.users.Save(ctx, user)
		return ErrEmailDelivery
	}
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *authService) ResetPassword(ctx context.Context, plainToken, newPassword string) (string, error) {
	user, err := s.users.FindByResetTokenHash(ctx, auth.HashResetToken(plainToken))
	if err != nil {
		return "", ErrResetTokenInvalid
	}
	if !user.HasResetToken() || time.Now().After(*user.PasswordResetExpires) {
		return "", ErrResetTokenInvalid
	}

	if err := s.hashPassword(user, newPassword); err != nil {
		return "", err
	}
	user.ClearResetToken()

	if err := s.users.Save(ctx, user); err != nil {
		return "", fmt.Errorf("save user: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// UpdatePassword changes the password of an authenticated user after verifying
// the current one.
func (s *authService) UpdatePassword(ctx context.Context, user *model.User, currentPassword, newPassword string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return "", ErrWrongPassword
	}

	if err := s.hashPassword(user, newPassword); err != nil {
		return "", err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return "", fmt.Errorf("save user: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Logout denylists the presented token until its natural expiry.
func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.tokenStore.Deny(ctx, tokenID, time.Until(expiresAt))
}

// hashPassword sets a new password hash and stamps PasswordChangedAt. The stamp
// is backdated one second because JWT issue times have second precision; a token
// issued in the same instant must stay valid.
func (s *authService) hashPassword(user *model.User, plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	changed := time.Now().Add(-time.Second)
	user.PasswordChangedAt = &changed
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
