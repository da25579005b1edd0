package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			// Open already migrated
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date in %s\n", a.cfg.DBPath)
			return nil
		}),
	}
}
