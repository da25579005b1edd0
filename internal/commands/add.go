package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskpanel/internal/models"
)

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <task text>",
		Short: "Add a task",
		Long: `Add a task. All arguments are joined into the task text.

Example:
  taskpanel add Buy milk`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.withSession(func(cmd *cobra.Command, args []string, a *app, session *models.Session) error {
			task, err := a.store.AddTask(cmd.Context(), session.UserID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if task == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing added: task text is empty.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d: %s\n", task.ID, task.Text)
			return nil
		}),
	}
}
