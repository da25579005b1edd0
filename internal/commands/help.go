package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func helpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show help for taskpanel or one of its commands",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) > 0 {
				target, _, err := cmd.Root().Find(args)
				if err == nil && target != cmd.Root() {
					target.Help()
					return
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), overview)
		},
	}
}

const overview = `
taskpanel - a multi-user task tracker

SERVER:

  serve                   Run the web panel
    --addr                Listen address (default :8080)
    --secret-key          Key that signs session and flash cookies (or SECRET_KEY)
    --session-ttl         How long a login stays valid (default 24h)
    --secure-cookies      Mark cookies Secure when served over HTTPS
    --redis-addr          Keep sessions in Redis instead of SQLite

  migrate                 Create or upgrade the schema and exit
  register <username>     Create an account (--password, --confirm)

TASKS (need --username/--password or TASKPANEL_USERNAME/TASKPANEL_PASSWORD):

  ls                      List tasks, newest first
    -f, --filter          all|pending|completed|important
    -s, --search          Case-sensitive text search
    --json                JSON output

  add <text>              Add a task
  done <id>               Mark a task as completed
  star <id>               Toggle the important mark
  edit <id> <text>        Replace a task's text
  rm <id>                 Delete a task
  report                  Total, completed, pending and important counts

  panel                   Interactive terminal panel
    Quick actions:
      ↑/↓ ←/→       Navigate tasks and pages
      f             Cycle filter
      /             Search
      a             Add
      c             Complete
      i             Toggle important
      x             Delete
      q/esc         Quit

Every flag can also be set as TASKPANEL_<FLAG> in the environment,
e.g. TASKPANEL_DB=/var/lib/taskpanel.db.

`
