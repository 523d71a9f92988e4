package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zhouzirui/orgchat/backend/internal/model/chat"
	"github.com/zhouzirui/orgchat/backend/internal/render"
)

// painter draws rendered replies for a terminal.
type painter struct {
	bullet  lipgloss.Style
	number  lipgloss.Style
	callout lipgloss.Style
	bold    lipgloss.Style
	agent   lipgloss.Style
	you     lipgloss.Style
	muted   lipgloss.Style
	failure lipgloss.Style
}

func newPainter(r *lipgloss.Renderer) *painter {
	return &painter{
		bullet: r.NewStyle().Foreground(lipgloss.Color("12")),
		number: r.NewStyle().Foreground(lipgloss.Color("12")).Width(3).Align(lipgloss.Right),
		callout: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1),
		bold:    r.NewStyle().Bold(true),
		agent:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		you:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (p *painter) spans(spans []render.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		if s.Bold {
			sb.WriteString(p.bold.Render(s.Text))
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func (p *painter) block(b render.Block) string {
	switch b.Kind {
	case render.KindBullet:
		return "  " + p.bullet.Render("•") + " " + p.spans(b.Spans)
	case render.KindNumbered:
		return p.number.Render(b.Number+".") + " " + p.spans(b.Spans)
	case render.KindCallout:
		return p.callout.Render(p.spans(b.Spans))
	default:
		return p.spans(b.Spans)
	}
}

// paragraphs draws blocks one per line with a blank line between paragraphs.
func (p *painter) paragraphs(ps []render.Paragraph) string {
	out := make([]string, 0, len(ps))
	for _, para := range ps {
		lines := make([]string, 0, len(para.Blocks))
		for _, b := range para.Blocks {
			lines = append(lines, p.block(b))
		}
		out = append(out, strings.Join(lines, "\n"))
	}
	return strings.Join(out, "\n\n")
}

// message draws a transcript entry. Bot text goes through the renderer; user text is
// shown as typed.
func (p *painter) message(m chat.Message) string {
	if m.Sender == chat.SenderUser {
		return p.you.Render("You") + " " + p.muted.Render(m.CreatedAt.Local().Format("15:04")) + "\n" + m.Content
	}
	name := m.AgentUsed
	if name == "" {
		name = "Assistant"
	}
	header := p.agent.Render(name) + " " + p.muted.Render(m.CreatedAt.Local().Format("15:04"))
	return header + "\n" + p.paragraphs(render.Render(m.Content))
}

func (p *painter) errorLine(msg string) string {
	return p.failure.Render("error: " + msg)
}

func (p *painter) note(format string, args ...any) string {
	return p.muted.Render(fmt.Sprintf(format, args...))
}
