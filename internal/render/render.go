// Package render splits normalized reply text into display blocks. It is a pure function
// of its input and can be re-run on every redraw.
package render

import (
	"regexp"
	"strings"
)

// Kind classifies a rendered line.
type Kind string

const (
	KindText     Kind = "text"
	KindBullet   Kind = "bullet"
	KindNumbered Kind = "numbered"
	KindCallout  Kind = "callout"
)

// Span is a run of inline text.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Block is one display line.
type Block struct {
	Kind   Kind   `json:"kind"`
	Number string `json:"number,omitempty"`
	Spans  []Span `json:"spans"`
}

// Paragraph groups the blocks between two blank lines.
type Paragraph struct {
	Blocks []Block `json:"blocks"`
}

var (
	bulletRegex   = regexp.MustCompile(`^[•*-]\s`)
	numberedRegex = regexp.MustCompile(`^(\d+)\.\s(.*)$`)
	boldSpanRegex = regexp.MustCompile(`\*\*[^*]+\*\*`)
)

// calloutGlyphs mark person, clipboard and chart highlights.
var calloutGlyphs = []string{"👤", "📋", "📊"}

// Render returns the paragraphs of text. Blank paragraphs and blank lines produce nothing.
func Render(text string) []Paragraph {
	var out []Paragraph
	for _, chunk := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		var blocks []Block
		for _, line := range strings.Split(chunk, "\n") {
			if b, ok := classify(line); ok {
				blocks = append(blocks, b)
			}
		}
		if len(blocks) > 0 {
			out = append(out, Paragraph{Blocks: blocks})
		}
	}
	return out
}

func classify(line string) (Block, bool) {
	if loc := bulletRegex.FindStringIndex(line); loc != nil {
		return Block{Kind: KindBullet, Spans: Inline(line[loc[1]:])}, true
	}
	if m := numberedRegex.FindStringSubmatch(line); m != nil {
		return Block{Kind: KindNumbered, Number: m[1], Spans: Inline(m[2])}, true
	}
	for _, glyph := range calloutGlyphs {
		if strings.HasPrefix(line, glyph) {
			return Block{Kind: KindCallout, Spans: Inline(line)}, true
		}
	}
	if strings.TrimSpace(line) == "" {
		return Block{}, false
	}
	return Block{Kind: KindText, Spans: Inline(line)}, true
}

// Inline splits text on **bold** spans. Unbalanced markers stay literal.
func Inline(text string) []Span {
	spans := make([]Span, 0, 1)
	last := 0
	for _, loc := range boldSpanRegex.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: text[last:loc[0]]})
		}
		spans = append(spans, Span{Text: text[loc[0]+2 : loc[1]-2], Bold: true})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

// PlainText flattens a block back to its visible characters.
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}
