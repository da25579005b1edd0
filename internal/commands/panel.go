package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/taskpanel/internal/tui"
)

func (c *cli) panelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Open the interactive terminal panel",
		Long: `Open the interactive terminal panel: log in, then browse, filter, search,
add, complete, star and delete tasks. --username pre-fills the login form.`,
		Args: cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			return tui.RunPanel(cmd.Context(), a.auth, a.store, c.v.GetString("username"))
		}),
	}
}
