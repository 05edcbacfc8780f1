package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"task-manager.com/task-manager/internal/console"
	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
)

const consoleHelp = `commands:
  add <title> [| <description> [| <status>]]   create a task
  search [text]                                 set the search text and search
  filter <pending|in-progress|completed|all>    set the status filter
  toggle <n>                                    flip completion of task n
  delete <n>                                    delete task n
  list                                          re-fetch and print
  help                                          show this help
  quit                                          leave`

var apiBase string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive terminal console for the task API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if apiBase == "" {
			apiBase = os.Getenv("TASK_API_BASE")
		}
		if apiBase == "" {
			apiBase = "http://localhost:3000"
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		c := console.New(console.NewClient(apiBase, nil))
		defer c.Close()

		_ = c.Load(ctx)
		console.Render(out, c.Snapshot())

		return runConsole(ctx, c, cmd.InOrStdin(), out)
	},
}

func runConsole(ctx context.Context, c *console.Console, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		verb, rest, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		rest = strings.TrimSpace(rest)

		var err error
		switch verb {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, consoleHelp)
			continue
		case "add":
			parts := strings.Split(rest, "|")
			form := console.Form{Status: constants.StatusPending}
			form.Title = strings.TrimSpace(parts[0])
			if len(parts) > 1 {
				form.Description = strings.TrimSpace(parts[1])
			}
			if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
				form.Status = constants.TaskStatus(strings.TrimSpace(parts[2]))
			}
			c.SetForm(form.Title, form.Description, form.Status)
			err = c.Create(ctx)
		case "search":
			c.SetQuery(rest)
			err = c.Search(ctx)
		case "filter":
			if rest == "all" {
				rest = ""
			}
			err = c.SetStatusFilter(ctx, rest)
		case "toggle", "delete":
			task, ok := pick(c, rest)
			if !ok {
				fmt.Fprintf(out, "no task %q\n", rest)
				continue
			}
			if verb == "toggle" {
				err = c.Toggle(ctx, task)
			} else {
				err = c.Delete(ctx, task)
			}
		case "list":
			err = c.Fetch(ctx)
		default:
			fmt.Fprintf(out, "unknown command %q, try help\n", verb)
			continue
		}

		if errors.Is(err, console.ErrEmptyTitle) {
			fmt.Fprintln(out, "a title is required")
		}
		console.Render(out, c.Snapshot())
	}
}

func pick(c *console.Console, raw string) (task model.Task, ok bool) {
	n, err := strconv.Atoi(raw)
	tasks := c.Snapshot().Tasks
	if err != nil || n < 1 || n > len(tasks) {
		return task, false
	}
	return tasks[n-1], true
}

func init() {
	consoleCmd.Flags().StringVar(&apiBase, "api", "", "task API base URL (default $TASK_API_BASE or http://localhost:3000)")
	rootCmd.AddCommand(consoleCmd)
}
