package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskpanel/internal/models"
)

func (c *cli) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: c.withSession(func(cmd *cobra.Command, args []string, a *app, session *models.Session) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			if err := a.store.DeleteTask(cmd.Context(), session.UserID, taskID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", taskID)
			return nil
		}),
	}
}
