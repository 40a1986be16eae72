package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"smart-tasks/internal/client"
)

// app carries state shared by all subcommands.
type app struct {
	sessionPath string
	server      string

	session session
	api     *client.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Manage your tasks from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSession(a.sessionPath)
			if err != nil {
				return err
			}
			if a.server != "" {
				s.Server = a.server
			}
			a.session = s
			a.api = client.New(s.Server)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.sessionPath, "config", defaultSessionPath(), "session file")
	root.PersistentFlags().StringVar(&a.server, "server", "", "API base URL (default from session file)")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.listCmd(),
		a.addCmd(),
		a.editCmd(),
		a.toggleCmd(),
		a.removeCmd(),
		a.statsCmd(),
		a.dashboardCmd(),
		a.exportCmd(),
	)
	return root
}
