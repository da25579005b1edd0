package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/balkashynov/taskpanel/internal/models"
)

// CreateUser inserts a user with an already hashed password
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// GetUserByUsername looks a user up by exact username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return &user, nil
}

// UsernameTaken reports whether a user with this username exists
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}
