package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/taskpanel/internal/db"
	"github.com/balkashynov/taskpanel/internal/models"
)

// Authenticator opens and closes sessions for the panel
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, *models.Session, error)
	Logout(ctx context.Context, token string) error
}

// TaskStore is the subset of the store the panel drives
type TaskStore interface {
	ListTasks(ctx context.Context, userID uint, filter models.Filter, search string) ([]models.Task, error)
	AddTask(ctx context.Context, userID uint, text string) (*models.Task, error)
	CompleteTask(ctx context.Context, userID, taskID uint) (*models.Task, error)
	ToggleImportant(ctx context.Context, userID, taskID uint) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uint) error
	Summary(ctx context.Context, userID uint) (db.Summary, error)
}

// RunPanel starts the interactive panel and closes its session on exit
func RunPanel(ctx context.Context, auth Authenticator, store TaskStore, username string) error {
	model := NewPanelModel(ctx, auth, store, username)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(PanelModel); ok && m.token != "" {
		if err := auth.Logout(context.Background(), m.token); err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}
		fmt.Printf("Session closed for %s.\n", m.session.Username)
	}
	return nil
}
