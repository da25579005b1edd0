package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/balkashynov/taskpanel/internal/models"
)

// CreateSession stores a new login session
func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	if err := s.DB.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession returns a live session. Expired sessions count as missing.
func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := s.DB.WithContext(ctx).Where("id = ? AND expires_at > ?", id, s.Now()).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session. Deleting an unknown session is not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes every expired session and returns how many went
func (s *Store) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	result := s.DB.WithContext(ctx).Where("expires_at <= ?", s.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
