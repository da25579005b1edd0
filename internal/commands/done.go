package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskpanel/internal/models"
)

func (c *cli) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: c.withSession(func(cmd *cobra.Command, args []string, a *app, session *models.Session) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			task, err := a.store.CompleteTask(cmd.Context(), session.UserID, taskID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Marked task #%d as done: %s\n", task.ID, task.Text)
			if task.CompletedAt != nil {
				fmt.Fprintf(out, "Completed at: %s\n", task.CompletedAt.Local().Format("15:04:05"))
			}
			return nil
		}),
	}
}

func (c *cli) starCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "star <task-id>",
		Short: "Toggle the important mark on a task",
		Args:  cobra.ExactArgs(1),
		RunE: c.withSession(func(cmd *cobra.Command, args []string, a *app, session *models.Session) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			task, err := a.store.ToggleImportant(cmd.Context(), session.UserID, taskID)
			if err != nil {
				return err
			}

			if task.Important {
				fmt.Fprintf(cmd.OutOrStdout(), "Marked task #%d as important\n", task.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Unmarked task #%d as important\n", task.ID)
			}
			return nil
		}),
	}
}
