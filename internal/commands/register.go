package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create a user account",
		Long: `Create a user account.

The password comes from --password (or TASKPANEL_PASSWORD) and must be
repeated with --confirm.

Example:
  taskpanel register alice --password s3cret --confirm s3cret`,
		Args: cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			confirm, _ := cmd.Flags().GetString("confirm")

			user, err := a.auth.Register(cmd.Context(), args[0], c.v.GetString("password"), confirm)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered user %s (ID %d)\n", user.Username, user.ID)
			return nil
		}),
	}

	cmd.Flags().String("confirm", "", "repeat the password")
	return cmd
}
