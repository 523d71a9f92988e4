package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/orgchat/backend/internal/model/user"
)

func newUsersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (hr may list, admin may change)",
	}
	cmd.AddCommand(
		newUsersListCommand(a),
		newUsersCreateCommand(a),
		newUsersUpdateCommand(a),
		newUsersStatusCommand(a, "activate", "Re-enable an account"),
		newUsersStatusCommand(a, "deactivate", "Disable an account without deleting it"),
		newUsersStatusCommand(a, "delete", "Delete an account permanently"),
	)
	return cmd
}

func newUsersListCommand(a *app) *cobra.Command {
	var skip, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			users, err := c.ListUsers(cmd.Context(), skip, limit)
			if err != nil {
				return err
			}
			printUsers(a, users)
			return nil
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "accounts to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum accounts to return")
	return cmd
}

func printUsers(a *app, users []user.User) {
	fmt.Fprintln(a.out, a.painter.bold.Render(fmt.Sprintf("%-36s  %-20s  %-9s  %s", "ID", "USERNAME", "ROLE", "STATUS")))
	for _, u := range users {
		status := "active"
		if !u.IsActive {
			status = "inactive"
		}
		fmt.Fprintf(a.out, "%-36s  %-20s  %-9s  %s\n", u.ID, u.Username, u.Role, status)
	}
}

func newUsersCreateCommand(a *app) *cobra.Command {
	var (
		payload  user.CreateUser
		role     string
		inactive bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload.Role = user.Role(role)
			if inactive {
				active := false
				payload.IsActive = &active
			}
			if err := user.Validate(payload); err != nil {
				return err
			}
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			u, err := c.CreateUser(cmd.Context(), payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created %s (%s) with id %s\n", u.Username, u.Role, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&payload.Username, "username", "", "account name (3-50 characters)")
	cmd.Flags().StringVar(&payload.Password, "password", "", "password (at least 6 characters)")
	cmd.Flags().StringVar(&role, "role", string(user.RoleEmployee), "employee, manager, hr or admin")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the account disabled")
	return cmd
}

func newUsersUpdateCommand(a *app) *cobra.Command {
	var username, password, role string
	var active bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an account; omitted flags stay as they are",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload user.UpdateUser
			flags := cmd.Flags()
			if flags.Changed("username") {
				payload.Username = &username
			}
			if flags.Changed("password") {
				payload.Password = &password
			}
			if flags.Changed("role") {
				r := user.Role(role)
				payload.Role = &r
			}
			if flags.Changed("active") {
				payload.IsActive = &active
			}
			if err := user.Validate(payload); err != nil {
				return err
			}

			c, err := a.authedClient()
			if err != nil {
				return err
			}
			u, err := c.UpdateUser(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			printUsers(a, []user.User{u})
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "new account name")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&role, "role", "", "new role")
	cmd.Flags().BoolVar(&active, "active", true, "enable or disable the account")
	return cmd
}

func newUsersStatusCommand(a *app, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			var msg string
			switch verb {
			case "activate":
				msg, err = c.ActivateUser(cmd.Context(), args[0])
			case "deactivate":
				msg, err = c.DeactivateUser(cmd.Context(), args[0])
			default:
				msg, err = c.DeleteUser(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, msg)
			return nil
		},
	}
}
