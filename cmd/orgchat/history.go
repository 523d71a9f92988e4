package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <backend-session-id>",
		Short: "Show the conversation the backend remembers for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			h, err := c.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(h.History) == 0 {
				fmt.Fprintln(a.out, a.painter.note("No history for session %s.", h.SessionID))
				return nil
			}
			for _, entry := range h.History {
				role, _ := entry["role"].(string)
				content, _ := entry["content"].(string)
				if role == "" && content == "" {
					raw, _ := json.Marshal(entry)
					fmt.Fprintln(a.out, string(raw))
					continue
				}
				fmt.Fprintf(a.out, "%s: %s\n", a.painter.bold.Render(role), content)
			}
			return nil
		},
	}
}

func newClearCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <backend-session-id>",
		Short: "Make the backend forget a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			msg, err := c.ClearHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, msg)
			return nil
		},
	}
}
