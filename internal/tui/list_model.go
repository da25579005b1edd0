package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/taskpanel/internal/models"
)

// moveSelectionUp moves the selection up
func (m PanelModel) moveSelectionUp() PanelModel {
	if m.selected > 0 {
		m.selected--

		// Scrolled above the current page
		if m.selected < m.currentPage*m.tasksPerPage && m.currentPage > 0 {
			m.currentPage--
		}
	}
	return m
}

// moveSelectionDown moves the selection down
func (m PanelModel) moveSelectionDown() PanelModel {
	if m.selected < len(m.tasks)-1 {
		m.selected++

		pageEnd := min((m.currentPage+1)*m.tasksPerPage-1, len(m.tasks)-1)
		if m.selected > pageEnd && m.currentPage < m.pageCount()-1 {
			m.currentPage++
		}
	}
	return m
}

func (m PanelModel) prevPage() PanelModel {
	if m.currentPage > 0 {
		m.currentPage--
		m.selected = m.currentPage * m.tasksPerPage
	}
	return m
}

func (m PanelModel) nextPage() PanelModel {
	if m.currentPage < m.pageCount()-1 {
		m.currentPage++
		m.selected = m.currentPage * m.tasksPerPage
	}
	return m
}

func (m PanelModel) pageCount() int {
	return (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
}

// View renders the TUI
func (m PanelModel) View() string {
	if m.stage == stageLogin {
		return m.renderLogin()
	}

	width := m.width
	if width == 0 {
		width = 100
	}
	leftWidth := width * 65 / 100
	rightWidth := width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskTable(leftWidth),
		" ",
		m.renderSummary(rightWidth),
	)

	var bottom string
	if m.focus != FocusTable {
		bottom = m.renderInputBar(width)
	} else {
		bottom = m.renderHelpBar(width)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		content,
		m.renderStatus(),
		bottom,
	)
}

func (m PanelModel) renderLogin() string {
	var b strings.Builder

	logo := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentMain))
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	b.WriteString(logo.Render("taskpanel"))
	b.WriteString("\n\n")
	b.WriteString(label.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.loginInputs[0].View())
	b.WriteString("\n\n")
	b.WriteString(label.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.loginInputs[1].View())
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Italic(true).
		Render("tab switch field · enter log in · esc quit"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 3).
		Render(b.String())
}

// renderTaskTable renders the left panel with the task table
func (m PanelModel) renderTaskTable(width int) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))

	header := fmt.Sprintf("Tasks · %s", m.filter)
	if m.search != "" {
		header += fmt.Sprintf(" · %q", m.search)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("No tasks found"))
		return m.box(width, b.String())
	}

	idWidth := 5
	flagWidth := 3
	statusWidth := 8
	textWidth := width - 4 - idWidth - flagWidth - statusWidth - 3
	if textWidth < 20 {
		textWidth = 20
	}

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).
		Render(fmt.Sprintf(" %-*s %-*s %-*s %s", idWidth, "ID", flagWidth, "", statusWidth, "STATUS", "TASK")))
	b.WriteString("\n")

	start := m.currentPage * m.tasksPerPage
	end := min(start+m.tasksPerPage, len(m.tasks))

	for i := start; i < end; i++ {
		task := m.tasks[i]

		flag := " "
		if task.Important {
			flag = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorImportant)).Render("★")
		}

		status := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render("pending")
		if task.Completed {
			status = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("done   ")
		}

		row := fmt.Sprintf("%-*s %s%-*s %s %s",
			idWidth, fmt.Sprintf("#%d", task.ID),
			flag, flagWidth-1, "",
			status,
			truncate(task.Text, textWidth))

		if i == m.selected {
			b.WriteString(lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(ColorPrimaryText)).
				Background(lipgloss.Color(ColorAccentMain)).
				Render(">" + row))
		} else {
			b.WriteString(" " + row)
		}
		b.WriteString("\n")
	}

	if pages := m.pageCount(); pages > 1 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			MarginTop(1).
			Render(fmt.Sprintf("Page %d/%d (%d tasks)", m.currentPage+1, pages, len(m.tasks))))
	}

	return m.box(width, b.String())
}

// renderSummary renders the right panel with the report and the selected task
func (m PanelModel) renderSummary(width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentMain)).Render("Report"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Total      %d\n", m.summary.Total)
	fmt.Fprintf(&b, "Completed  %d\n", m.summary.Completed)
	fmt.Fprintf(&b, "Pending    %d\n", m.summary.Pending)
	fmt.Fprintf(&b, "Important  %d\n", m.summary.Important)

	if m.selected < len(m.tasks) {
		task := m.tasks[m.selected]
		muted := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))

		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText)).
			Width(width - 4).Render(task.Text))
		b.WriteString("\n")
		b.WriteString(muted.Render("added " + task.CreatedAt.Local().Format("2006-01-02 15:04")))
		if task.CompletedAt != nil {
			b.WriteString("\n")
			b.WriteString(muted.Render("completed " + task.CompletedAt.Local().Format("2006-01-02 15:04")))
		}
	}

	return m.box(width, b.String())
}

func (m PanelModel) renderInputBar(width int) string {
	prompt := "Search: "
	if m.focus == FocusAdd {
		prompt = "Add: "
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Width(width - 2).
		Render(prompt + m.input.View())
}

func (m PanelModel) renderHelpBar(width int) string {
	filters := make([]string, 0, len(models.Filters))
	for _, f := range models.Filters {
		if f == m.filter {
			filters = append(filters, "["+string(f)+"]")
		} else {
			filters = append(filters, string(f))
		}
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Width(width).
		Render("↑/↓ nav · ←/→ page · f filter (" + strings.Join(filters, " ") + ") · / search · a add · c complete · i important · x delete · q quit")
}

func (m PanelModel) renderStatus() string {
	if m.status == "" {
		return ""
	}
	color := ColorSuccess
	if m.statusErr {
		color = ColorError
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(m.status)
}

func (m PanelModel) box(width int, content string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(content)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
