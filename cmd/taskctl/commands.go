package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"smart-tasks/internal/client"
	"smart-tasks/internal/dates"
	"smart-tasks/internal/export"
	"smart-tasks/internal/stats"
	"smart-tasks/internal/table"
)

// now is the clock used for day-relative output.
var now = time.Now

func (a *app) registerCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.api.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			return a.storeLogin(cmd, s)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return a.storeLogin(cmd, s)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func (a *app) storeLogin(cmd *cobra.Command, s *client.Session) error {
	a.session.Token = s.Token
	a.session.Name = s.Name
	a.session.Email = s.Email
	if err := saveSession(a.sessionPath, a.session); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", s.Name, s.Email)
	return nil
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.session = session{Server: a.session.Server}
			if err := saveSession(a.sessionPath, a.session); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.api.Profile(cmd.Context(), a.session.credentials())
			if err != nil {
				return a.authError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s <%s>\n", p.ID, p.Name, p.Email)
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var sortBy string
	var desc bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := table.ParseKey(sortBy)
			if err != nil {
				return err
			}
			tasks, err := a.api.ListTasks(cmd.Context(), a.session.credentials())
			if err != nil {
				return a.authError(err)
			}

			var sorter table.Sorter
			if key != table.KeyNone {
				sorter.Request(key)
				if desc {
					sorter.Request(key)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.Render(sorter.Sort(tasks), sorter, now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort column: title, category, status, priority, description, dueDate")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	var t client.NewTask
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t.Title = strings.Join(args, " ")
			t.Priority = strings.ToLower(t.Priority)
			if t.DueDate != "" {
				due, err := dates.Parse(t.DueDate)
				if err != nil {
					return table.ErrInvalidDueDate
				}
				t.DueDate = dates.Normalize(due)
			}
			created, err := a.api.CreateTask(cmd.Context(), a.session.credentials(), t)
			if err != nil {
				return a.authError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %d\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&t.Description, "description", "", "description")
	cmd.Flags().StringVar(&t.Category, "category", "", "category")
	cmd.Flags().StringVar(&t.Priority, "priority", "", "low, medium or high")
	cmd.Flags().StringVar(&t.Status, "status", "", "pending, in progress or completed")
	cmd.Flags().StringVar(&t.DueDate, "due", "", "due date, YYYY-MM-DD")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var title, category, due, priority, status string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			creds := a.session.credentials()
			current, err := a.api.GetTask(cmd.Context(), creds, id)
			if err != nil {
				return a.authError(err)
			}

			form := table.FormFromTask(*current)
			flags := cmd.Flags()
			if flags.Changed("title") {
				form.Title = title
			}
			if flags.Changed("category") {
				form.Category = category
			}
			if flags.Changed("due") {
				form.DueDate = due
			} else {
				// The form only holds the calendar day; leave the stored timestamp alone.
				form.DueDate = ""
			}
			if flags.Changed("priority") {
				form.Priority = priority
			}
			if flags.Changed("status") {
				form.Status = status
			}

			updated, err := table.NewEditor(a.api).Save(cmd.Context(), creds, id, form)
			if err != nil {
				return a.authError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d\n", updated.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium or high")
	cmd.Flags().StringVar(&status, "status", "", "pending, in progress or completed")
	return cmd
}

func (a *app) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed, or back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			creds := a.session.credentials()
			current, err := a.api.GetTask(cmd.Context(), creds, id)
			if err != nil {
				return a.authError(err)
			}
			updated, err := table.NewEditor(a.api).ToggleStatus(cmd.Context(), creds, *current)
			if err != nil {
				return a.authError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s\n", updated.ID, updated.Status)
			return nil
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.api.DeleteTask(cmd.Context(), a.session.credentials(), id); err != nil {
				return a.authError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return nil
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds := a.session.credentials()
			totals, err := a.api.TaskStats(cmd.Context(), creds)
			if err != nil {
				return a.authError(err)
			}
			tasks, err := a.api.ListTasks(cmd.Context(), creds)
			if err != nil {
				return a.authError(err)
			}
			s := stats.Compute(tasks, now().UTC())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total: %d  Completed: %d  Due today: %d\n",
				totals.TotalTasks, totals.CompletedTasks, s.TodayTasks)
			fmt.Fprintln(out, "Completed in the last 7 days:")
			for _, d := range s.CompletedLast7Days {
				fmt.Fprintf(out, "  %s  %s %d\n", d.Date, strings.Repeat("#", d.Count), d.Count)
			}
			fmt.Fprintln(out, "Categories:")
			for _, c := range s.Categories {
				fmt.Fprintf(out, "  %-20s %d\n", c.Category, c.Count)
			}
			return nil
		},
	}
}

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show global counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.api.Dashboard(cmd.Context(), a.session.credentials())
			if err != nil {
				return a.authError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Users: %d\nTasks: %d\nCompleted: %d\nPending: %d\n",
				d.TotalUsers, d.TotalTasks, d.CompletedTasks, d.PendingTasks)
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks to CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, err := a.api.ListTasks(cmd.Context(), a.session.credentials())
			if err != nil {
				return a.authError(err)
			}
			if out == "" {
				out = "tasks." + strings.ToLower(format)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := export.Write(f, format, tasks); err != nil {
				f.Close()
				os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", len(tasks), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default tasks.<format>)")
	return cmd
}

// authError turns a 401 into a hint to log in again.
func (a *app) authError(err error) error {
	if errors.Is(err, client.ErrNoCredentials) || client.IsStatus(err, http.StatusUnauthorized) {
		return fmt.Errorf("%w (run taskctl login)", err)
	}
	return err
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return uint(id), nil
}
