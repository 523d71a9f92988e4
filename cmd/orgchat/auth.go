package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				var err error
				username, password, err = promptCredentials(a, username)
				if err != nil {
					return err
				}
			}

			c := a.client()
			tok, err := c.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := a.tokens.Save(tok.AccessToken); err != nil {
				return err
			}

			u, err := c.WithToken(tok.AccessToken).CurrentUser(cmd.Context())
			if err != nil {
				return fmt.Errorf("signed in but could not load profile: %w", err)
			}
			fmt.Fprintf(a.out, "Welcome back, %s! (%s)\n", u.Username, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password; prompted when omitted")
	return cmd
}

func promptCredentials(a *app, username string) (string, string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "Username: ",
		Stdin:  readline.NewCancelableStdin(a.in),
		Stdout: a.out,
		Stderr: a.err,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	if username == "" {
		line, err := rl.Readline()
		if err != nil {
			return "", "", err
		}
		username = strings.TrimSpace(line)
	}
	pw, err := rl.ReadPassword("Password: ")
	if err != nil {
		return "", "", err
	}
	if username == "" || len(pw) == 0 {
		return "", "", fmt.Errorf("username and password are required")
	}
	return username, string(pw), nil
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.tokens.Remove(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out.")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			u, err := c.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			status := "active"
			if !u.IsActive {
				status = "inactive"
			}
			fmt.Fprintf(a.out, "%s (%s, %s)\n", u.Username, u.Role, status)
			return nil
		},
	}
}

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.client().Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend %s unreachable: %w", a.backendURL, err)
			}
			fmt.Fprintf(a.out, "%s: %s\n", a.backendURL, h.Status)
			return nil
		},
	}
}
