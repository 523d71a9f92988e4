package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	formatHandler "github.com/zhouzirui/orgchat/backend/internal/handler/format"
)

func newFormatCommand(a *app) *cobra.Command {
	var req formatHandler.Request

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Run a raw reply from stdin through the display pipeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			req.Text = string(raw)

			resp := formatHandler.New(nil).Preview(req)
			if resp.Debug {
				fmt.Fprintln(a.err, a.painter.note("debug output detected (%s), showing %s fallback", resp.Signature, resp.Category))
			}
			if resp.Message.AgentUsed != "" {
				fmt.Fprintln(a.out, a.painter.agent.Render(resp.Message.AgentUsed))
			}
			fmt.Fprintln(a.out, a.painter.paragraphs(resp.Paragraphs))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.QueryType, "type", "", "decorate for a query type: employee, department, policy or project")
	cmd.Flags().StringVar(&req.AgentUsed, "agent", "", "agent name reported by the backend")
	cmd.Flags().StringVar(&req.Query, "query", "", "the question asked, used to pick a fallback for debug output")
	return cmd
}
