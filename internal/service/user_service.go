package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourbase/internal/model"
	"tourbase/internal/repository"
)

// ProfileUpdate carries the self-service profile fields a user may change.
// Password fields deliberately have no place here.
type ProfileUpdate struct {
	Name  string
	Email string
	Photo string
}

// UserService exposes user account operations. User records are always read
// fresh; auth decisions must see the current password state.
type UserService interface {
	UpdateMe(ctx context.Context, user *model.User, update ProfileUpdate) (*model.User, error)
	DeleteMe(ctx context.Context, userID uuid.UUID) error
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService over the user repository.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// UpdateMe applies the allowed profile fields and persists through the
// validated full-record path.
func (s *userService) UpdateMe(ctx context.Context, user *model.User, update ProfileUpdate) (*model.User, error) {
	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Email != "" {
		user.Email = normalizeEmail(update.Email)
	}
	if update.Photo != "" {
		user.Photo = update.Photo
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// DeleteMe soft-deletes the account. The record is retained; only the active
// flag flips, through the partial-update path since no credential changes.
func (s *userService) DeleteMe(ctx context.Context, userID uuid.UUID) error {
	return s.repo.UpdateFields(ctx, userID, map[string]interface{}{"active": false})
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}
