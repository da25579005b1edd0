package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskpanel/internal/models"
)

func (c *cli) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <task-id> <new text>",
		Short: "Replace the text of a task",
		Long: `Replace the text of a task. Arguments after the ID are joined into the
new text.

Example:
  taskpanel edit 42 Call Bob before noon`,
		Args: cobra.MinimumNArgs(2),
		RunE: c.withSession(func(cmd *cobra.Command, args []string, a *app, session *models.Session) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			task, err := a.store.EditTask(cmd.Context(), session.UserID, taskID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d: %s\n", task.ID, task.Text)
			return nil
		}),
	}
}
