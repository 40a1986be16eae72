package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"smart-tasks/internal/auth"
	"smart-tasks/internal/repository"
	"smart-tasks/internal/service"
)

type userAction func(ctx context.Context, users *service.UserService, id uint) error

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administer accounts",
	}
	cmd.AddCommand(
		userActionCmd("disable", "Block login for a user", "disabled",
			func(ctx context.Context, users *service.UserService, id uint) error {
				return users.SetActive(ctx, id, false)
			}),
		userActionCmd("enable", "Allow login for a user again", "enabled",
			func(ctx context.Context, users *service.UserService, id uint) error {
				return users.SetActive(ctx, id, true)
			}),
		userActionCmd("delete", "Delete a user and all of their tasks", "deleted",
			func(ctx context.Context, users *service.UserService, id uint) error {
				return users.DeleteUser(ctx, id)
			}),
	)
	return cmd
}

func userActionCmd(name, short, done string, action userAction) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 0)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			b, err := openBackend()
			if err != nil {
				return err
			}
			defer b.Close()

			users := service.NewUserService(
				repository.NewUserRepository(b.db),
				auth.NewIssuer(b.cfg.JWTSecret, b.cfg.TokenTTL),
			)
			if err := action(cmd.Context(), users, uint(id)); err != nil {
				return fmt.Errorf("%s user %d: %w", name, id, err)
			}
			b.log.WithField("user_id", id).Infof("user %s", done)
			fmt.Fprintf(cmd.OutOrStdout(), "User %d %s\n", id, done)
			return nil
		},
	}
}
