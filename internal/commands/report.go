package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/balkashynov/taskpanel/internal/models"
	"github.com/balkashynov/taskpanel/internal/tui"
)

func (c *cli) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show task counts",
		Long: `Show how many of your tasks exist in total and how many are completed,
pending and important.`,
		Args: cobra.NoArgs,
		RunE: c.withSession(func(cmd *cobra.Command, args []string, a *app, session *models.Session) error {
			summary, err := a.store.Summary(cmd.Context(), session.UserID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return json.NewEncoder(out).Encode(summary)
			}

			label := lipgloss.NewStyle().Width(11).Foreground(lipgloss.Color(tui.ColorSecondaryText))
			value := lipgloss.NewStyle().Bold(true)

			var b strings.Builder
			b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tui.ColorAccentMain)).
				Render("Report for " + session.Username))
			b.WriteString("\n")
			for _, row := range []struct {
				name  string
				count int64
			}{
				{"Total", summary.Total},
				{"Completed", summary.Completed},
				{"Pending", summary.Pending},
				{"Important", summary.Important},
			} {
				b.WriteString(label.Render(row.name))
				b.WriteString(value.Render(fmt.Sprint(row.count)))
				b.WriteString("\n")
			}

			fmt.Fprint(out, lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(tui.ColorBorder)).
				Padding(0, 1).
				Render(strings.TrimSuffix(b.String(), "\n")))
			fmt.Fprintln(out)
			return nil
		}),
	}

	cmd.Flags().Bool("json", false, "JSON output")
	return cmd
}
