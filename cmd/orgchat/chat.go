package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/orgchat/backend/internal/logging"
	chatService "github.com/zhouzirui/orgchat/backend/internal/service/chat"
)

func newChatCommand(a *app) *cobra.Command {
	var debugLog bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open an interactive conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			u, err := c.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}

			logger := logging.Nop()
			if debugLog {
				logger = logging.NewWithWriter(a.err, "debug", false)
			}
			svc := chatService.NewService(c, chatService.WithLogger(logger))
			return runChat(cmd.Context(), a, svc, u.Username)
		},
	}
	cmd.Flags().BoolVar(&debugLog, "debug", false, "log pipeline decisions to stderr")
	return cmd
}

func runChat(ctx context.Context, a *app, svc *chatService.Service, owner string) error {
	session, err := svc.CreateSession(ctx, owner)
	if err != nil {
		return err
	}
	transcript, err := svc.LoadTranscript(ctx, session.ID)
	if err != nil {
		return err
	}
	for _, m := range transcript {
		fmt.Fprintln(a.out, a.painter.message(m))
	}
	fmt.Fprintln(a.out, a.painter.note("Type 'exit' or press Ctrl+D to leave."))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       a.tokens.historyFile(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdin:             readline.NewCancelableStdin(a.in),
		Stdout:            a.out,
		Stderr:            a.err,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	for {
		input, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(input) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(input) {
		case "":
			continue
		case "exit", "quit", "q":
			return nil
		}

		reply, err := svc.Send(ctx, session.ID, input)
		if err != nil {
			fmt.Fprintln(a.err, a.painter.errorLine(err.Error()))
			continue
		}
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, a.painter.message(reply))
		fmt.Fprintln(a.out)
	}
}
