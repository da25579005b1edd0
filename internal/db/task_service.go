package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/taskpanel/internal/models"
)

// ownedBy starts every task query. The user predicate is not optional.
func (s *Store) ownedBy(ctx context.Context, userID uint) *gorm.DB {
	return s.DB.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID)
}

// ListTasks returns the user's tasks narrowed by filter and a case-sensitive
// substring search on the text, newest first
func (s *Store) ListTasks(ctx context.Context, userID uint, filter models.Filter, search string) ([]models.Task, error) {
	query := s.ownedBy(ctx, userID)

	switch filter {
	case models.FilterCompleted:
		query = query.Where("completed = ?", true)
	case models.FilterPending:
		query = query.Where("completed = ?", false)
	case models.FilterImportant:
		query = query.Where("important = ?", true)
	}

	// instr is case-sensitive, unlike LIKE, and needs no wildcard escaping
	if search != "" {
		query = query.Where("instr(text, ?) > 0", search)
	}

	tasks := []models.Task{}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// AddTask creates a pending, unimportant task. Blank text is ignored and
// yields a nil task with no error.
func (s *Store) AddTask(ctx context.Context, userID uint, text string) (*models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	task := models.Task{
		Text:      text,
		UserID:    userID,
		CreatedAt: s.Now(),
	}
	if err := s.DB.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// GetTask retrieves one of the user's tasks by ID
func (s *Store) GetTask(ctx context.Context, userID, taskID uint) (*models.Task, error) {
	var task models.Task
	err := s.ownedBy(ctx, userID).Where("id = ?", taskID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task #%d: %w", taskID, err)
	}
	return &task, nil
}

// EditTask replaces the text of a task
func (s *Store) EditTask(ctx context.Context, userID, taskID uint, text string) (*models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	return s.updateOwned(ctx, userID, taskID, map[string]any{"text": text})
}

// CompleteTask marks a task done and stamps completed_at. Completing an
// already completed task stamps it again.
func (s *Store) CompleteTask(ctx context.Context, userID, taskID uint) (*models.Task, error) {
	return s.updateOwned(ctx, userID, taskID, map[string]any{
		"completed":    true,
		"completed_at": s.Now(),
	})
}

// ToggleImportant flips the important flag and returns the task in its new state
func (s *Store) ToggleImportant(ctx context.Context, userID, taskID uint) (*models.Task, error) {
	return s.updateOwned(ctx, userID, taskID, map[string]any{
		"important": gorm.Expr("NOT important"),
	})
}

// DeleteTask permanently removes a task
func (s *Store) DeleteTask(ctx context.Context, userID, taskID uint) error {
	result := s.ownedBy(ctx, userID).Where("id = ?", taskID).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task #%d: %w", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// updateOwned applies values to a task matched by id and owner in one
// statement, then reads it back
func (s *Store) updateOwned(ctx context.Context, userID, taskID uint, values map[string]any) (*models.Task, error) {
	result := s.ownedBy(ctx, userID).Where("id = ?", taskID).Updates(values)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update task #%d: %w", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(ctx, userID, taskID)
}
