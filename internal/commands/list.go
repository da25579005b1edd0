package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskpanel/internal/models"
)

func (c *cli) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your tasks",
		Long: `List your tasks, newest first.

Filters: all, pending, completed, important. --search keeps tasks whose text
contains the term (case-sensitive).`,
		Args: cobra.NoArgs,
		RunE: c.withSession(func(cmd *cobra.Command, args []string, a *app, session *models.Session) error {
			filter, _ := cmd.Flags().GetString("filter")
			search, _ := cmd.Flags().GetString("search")
			asJSON, _ := cmd.Flags().GetBool("json")

			tasks, err := a.store.ListTasks(cmd.Context(), session.UserID, models.ParseFilter(filter), strings.TrimSpace(search))
			if err != nil {
				return fmt.Errorf("error fetching tasks: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tasks)
			}

			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found. Use 'taskpanel add \"task text\"' to create your first task.")
				return nil
			}
			printTasks(out, tasks)
			return nil
		}),
	}

	cmd.Flags().StringP("filter", "f", string(models.FilterAll), "all, pending, completed or important")
	cmd.Flags().StringP("search", "s", "", "only tasks containing this text")
	cmd.Flags().Bool("json", false, "JSON output")
	return cmd
}

func printTasks(out io.Writer, tasks []models.Task) {
	fmt.Fprintf(out, "%-5s %-9s %-3s %-16s %s\n", "ID", "STATUS", "!", "CREATED", "TEXT")
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, task := range tasks {
		status := "pending"
		if task.Completed {
			status = "done"
		}
		important := ""
		if task.Important {
			important = "*"
		}

		text := task.Text
		if r := []rune(text); len(r) > 45 {
			text = string(r[:42]) + "..."
		}

		fmt.Fprintf(out, "%-5d %-9s %-3s %-16s %s\n",
			task.ID,
			status,
			important,
			task.CreatedAt.Local().Format("2006-01-02 15:04"),
			text)
	}
}
