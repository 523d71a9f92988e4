// Command orgchat is a terminal client for the HR assistant backend.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/orgchat/backend/internal/service/backend"
)

type app struct {
	backendURL string
	timeout    time.Duration
	tokens     tokenStore
	painter    *painter

	in  io.Reader
	out io.Writer
	err io.Writer
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		tokens:  defaultTokenStore(),
		painter: newPainter(lipgloss.NewRenderer(out)),
		in:      in,
		out:     out,
		err:     errOut,
	}
}

// client returns a backend client carrying the saved token, if any.
func (a *app) client() *backend.Client {
	c := backend.New(a.backendURL, backend.WithTimeout(a.timeout))
	if token, err := a.tokens.Load(); err == nil && token != "" {
		return c.WithToken(token)
	}
	return c
}

// authedClient is client, failing when nobody is signed in.
func (a *app) authedClient() (*backend.Client, error) {
	c := a.client()
	if c.Token() == "" {
		return nil, fmt.Errorf("not signed in, run `orgchat login` first")
	}
	return c, nil
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "orgchat",
		Short:         "Chat with the multi-agent HR assistant from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.err)

	defaultURL := strings.TrimSpace(os.Getenv("ORGCHAT_BACKEND_URL"))
	if defaultURL == "" {
		defaultURL = backend.DefaultBaseURL
	}
	root.PersistentFlags().StringVar(&a.backendURL, "backend", defaultURL, "backend base URL (env ORGCHAT_BACKEND_URL)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "per-request timeout, 0 waits indefinitely")

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newChatCommand(a),
		newUsersCommand(a),
		newHistoryCommand(a),
		newClearCommand(a),
		newFormatCommand(a),
		newHealthCommand(a),
	)
	return root
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := newRootCommand(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, a.painter.errorLine(err.Error()))
		os.Exit(1)
	}
}
