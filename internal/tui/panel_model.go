package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/taskpanel/internal/auth"
	"github.com/balkashynov/taskpanel/internal/db"
	"github.com/balkashynov/taskpanel/internal/models"
)

type stage int

const (
	stageLogin stage = iota
	stageList
)

// Focus represents what UI element takes key input
type Focus int

const (
	FocusTable Focus = iota
	FocusSearch
	FocusAdd
)

const defaultTasksPerPage = 10

type loggedInMsg struct {
	token   string
	session *models.Session
}

type tasksMsg struct {
	tasks   []models.Task
	summary db.Summary
}

// actionMsg reports a finished change; the list reloads after it
type actionMsg struct {
	status string
}

type errMsg struct {
	err error
}

// PanelModel is the login form followed by the task list
type PanelModel struct {
	ctx   context.Context
	auth  Authenticator
	store TaskStore

	width  int
	height int
	stage  stage

	loginInputs []textinput.Model
	loginFocus  int

	token   string
	session *models.Session

	tasks    []models.Task
	summary  db.Summary
	selected int
	filter   models.Filter
	search   string

	focus Focus
	input textinput.Model

	status    string
	statusErr bool

	currentPage  int
	tasksPerPage int
}

// NewPanelModel builds the panel. username pre-fills the login form.
func NewPanelModel(ctx context.Context, authenticator Authenticator, store TaskStore, username string) PanelModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 80
	user.SetValue(username)

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	m := PanelModel{
		ctx:          ctx,
		auth:         authenticator,
		store:        store,
		loginInputs:  []textinput.Model{user, password},
		filter:       models.FilterAll,
		input:        textinput.New(),
		tasksPerPage: defaultTasksPerPage,
	}
	if username != "" {
		m.loginFocus = 1
	}
	m.loginInputs[m.loginFocus].Focus()
	return m
}

// Init initializes the model
func (m PanelModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// header, summary, help and borders take the rest
		m.tasksPerPage = m.height - 12
		if m.tasksPerPage < 3 {
			m.tasksPerPage = 3
		}
		m.currentPage = m.selected / m.tasksPerPage
		return m, nil

	case loggedInMsg:
		m.token = msg.token
		m.session = msg.session
		m.stage = stageList
		m.setStatus(fmt.Sprintf("Welcome, %s", msg.session.Username), false)
		return m, m.loadTasks()

	case tasksMsg:
		m.tasks = msg.tasks
		m.summary = msg.summary
		if m.selected >= len(m.tasks) {
			m.selected = max(len(m.tasks)-1, 0)
		}
		m.currentPage = m.selected / m.tasksPerPage
		return m, nil

	case actionMsg:
		m.setStatus(msg.status, false)
		return m, m.loadTasks()

	case errMsg:
		m.setStatus(describeError(msg.err), true)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.stage == stageLogin {
			return m.handleLoginKeys(msg)
		}
		if m.focus != FocusTable {
			return m.handleInputKeys(msg)
		}
		return m.handleTableKeys(msg)
	}

	return m, nil
}

func (m PanelModel) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		m.loginInputs[m.loginFocus].Blur()
		m.loginFocus = 1 - m.loginFocus
		return m, m.loginInputs[m.loginFocus].Focus()

	case "enter":
		if m.loginFocus == 0 {
			m.loginInputs[0].Blur()
			m.loginFocus = 1
			return m, m.loginInputs[1].Focus()
		}
		return m, m.login()
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m PanelModel) handleTableKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		return m.moveSelectionUp(), nil

	case "down", "j":
		return m.moveSelectionDown(), nil

	case "left", "h":
		return m.prevPage(), nil

	case "right", "l":
		return m.nextPage(), nil

	case "f":
		m.filter = m.filter.Next()
		m.selected = 0
		m.currentPage = 0
		return m, m.loadTasks()

	case "/":
		return m.openInput(FocusSearch, "search", m.search)

	case "a":
		return m.openInput(FocusAdd, "new task", "")

	case "r":
		return m, m.loadTasks()

	case "c", "enter":
		return m, m.onSelected(func(task models.Task) (string, error) {
			_, err := m.store.CompleteTask(m.ctx, m.session.UserID, task.ID)
			return fmt.Sprintf("Task #%d marked as completed.", task.ID), err
		})

	case "i":
		return m, m.onSelected(func(task models.Task) (string, error) {
			updated, err := m.store.ToggleImportant(m.ctx, m.session.UserID, task.ID)
			if err != nil {
				return "", err
			}
			if updated.Important {
				return "Task marked as important.", nil
			}
			return "Task unmarked as important.", nil
		})

	case "x", "delete":
		return m, m.onSelected(func(task models.Task) (string, error) {
			err := m.store.DeleteTask(m.ctx, m.session.UserID, task.ID)
			return fmt.Sprintf("Task #%d deleted.", task.ID), err
		})
	}
	return m, nil
}

// handleInputKeys drives the search and add bars
func (m PanelModel) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = FocusTable
		m.input.Blur()
		return m, nil

	case "enter":
		value := m.input.Value()
		focus := m.focus
		m.focus = FocusTable
		m.input.Blur()

		if focus == FocusSearch {
			m.search = strings.TrimSpace(value)
			m.selected = 0
			m.currentPage = 0
			return m, m.loadTasks()
		}
		return m, m.addTask(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PanelModel) openInput(focus Focus, placeholder, value string) (tea.Model, tea.Cmd) {
	m.focus = focus
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *PanelModel) setStatus(status string, isErr bool) {
	m.status = status
	m.statusErr = isErr
}

func (m PanelModel) login() tea.Cmd {
	username := m.loginInputs[0].Value()
	password := m.loginInputs[1].Value()
	return func() tea.Msg {
		token, session, err := m.auth.Login(m.ctx, username, password)
		if err != nil {
			return errMsg{err}
		}
		return loggedInMsg{token: token, session: session}
	}
}

func (m PanelModel) loadTasks() tea.Cmd {
	userID, filter, search := m.session.UserID, m.filter, m.search
	return func() tea.Msg {
		tasks, err := m.store.ListTasks(m.ctx, userID, filter, search)
		if err != nil {
			return errMsg{err}
		}
		summary, err := m.store.Summary(m.ctx, userID)
		if err != nil {
			return errMsg{err}
		}
		return tasksMsg{tasks: tasks, summary: summary}
	}
}

func (m PanelModel) addTask(text string) tea.Cmd {
	userID := m.session.UserID
	return func() tea.Msg {
		task, err := m.store.AddTask(m.ctx, userID, text)
		if err != nil {
			return errMsg{err}
		}
		if task == nil {
			return actionMsg{status: "Nothing to add."}
		}
		return actionMsg{status: fmt.Sprintf("Task #%d added.", task.ID)}
	}
}

// onSelected runs op against the highlighted task
func (m PanelModel) onSelected(op func(models.Task) (string, error)) tea.Cmd {
	if m.selected >= len(m.tasks) {
		return nil
	}
	task := m.tasks[m.selected]
	return func() tea.Msg {
		status, err := op(task)
		if err != nil {
			return errMsg{err}
		}
		return actionMsg{status: status}
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, db.ErrNotFound):
		return "Task not found."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
