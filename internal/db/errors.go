package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned for tasks that do not exist or belong to someone else
	ErrNotFound = errors.New("task not found")
	// ErrEmptyText is returned when an edit would leave a task without text
	ErrEmptyText = errors.New("task text cannot be empty")

	ErrUserExists      = errors.New("username already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

// isDuplicate reports whether err is a unique constraint violation
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
