package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/orgchat/backend/internal/format"
)

func TestRenderNormalizedScenario(t *testing.T) {
	t.Parallel()

	paragraphs := Render(format.Normalize("### Title\n\n* one\n* two"))
	require.Len(t, paragraphs, 2)

	require.Len(t, paragraphs[0].Blocks, 1)
	assert.Equal(t, Block{Kind: KindText, Spans: []Span{{Text: "Title", Bold: true}}}, paragraphs[0].Blocks[0])

	require.Len(t, paragraphs[1].Blocks, 2)
	assert.Equal(t, KindBullet, paragraphs[1].Blocks[0].Kind)
	assert.Equal(t, "one", paragraphs[1].Blocks[0].PlainText())
	assert.Equal(t, KindBullet, paragraphs[1].Blocks[1].Kind)
	assert.Equal(t, "two", paragraphs[1].Blocks[1].PlainText())
}

func TestRenderLineKinds(t *testing.T) {
	t.Parallel()

	text := "• dot\n- dash\n* star\n7. seventh\n3. third\n👤 **Jane** (ID: 1)\n📋 policy\n📊 chart\nplain **x**\n   \nlast"
	paragraphs := Render(text)
	require.Len(t, paragraphs, 1)

	blocks := paragraphs[0].Blocks
	require.Len(t, blocks, 10)

	kinds := make([]Kind, 0, len(blocks))
	for _, b := range blocks {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []Kind{
		KindBullet, KindBullet, KindBullet,
		KindNumbered, KindNumbered,
		KindCallout, KindCallout, KindCallout,
		KindText, KindText,
	}, kinds)

	assert.Equal(t, "7", blocks[3].Number)
	assert.Equal(t, "seventh", blocks[3].PlainText())
	assert.Equal(t, "3", blocks[4].Number, "numbers are kept verbatim")
	assert.Equal(t, "👤 Jane (ID: 1)", blocks[5].PlainText())
	assert.Equal(t, []Span{{Text: "plain "}, {Text: "x", Bold: true}}, blocks[8].Spans)
}

func TestRenderSkipsBlankParagraphs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Render(""))
	assert.Empty(t, Render("\n\n   \n\n"))
	assert.Len(t, Render("a\n\n\n\nb"), 2)
}

func TestRenderNumberedWithoutText(t *testing.T) {
	t.Parallel()

	paragraphs := Render("1. ")
	require.Len(t, paragraphs, 1)
	b := paragraphs[0].Blocks[0]
	assert.Equal(t, KindNumbered, b.Kind)
	assert.Equal(t, "1", b.Number)
	assert.Empty(t, b.Spans)
}

func TestRenderBoldPrefixIsNotBullet(t *testing.T) {
	t.Parallel()

	paragraphs := Render("**Heading** text")
	require.Len(t, paragraphs, 1)
	assert.Equal(t, KindText, paragraphs[0].Blocks[0].Kind)
}

func TestInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{
			name:  "bold and single stars",
			input: "**bold** and *not bold*",
			want:  []Span{{Text: "bold", Bold: true}, {Text: " and *not bold*"}},
		},
		{
			name:  "unbalanced markers stay literal",
			input: "**open and never closed",
			want:  []Span{{Text: "**open and never closed"}},
		},
		{
			name:  "adjacent bold spans",
			input: "**a****b**",
			want:  []Span{{Text: "a", Bold: true}, {Text: "b", Bold: true}},
		},
		{
			name:  "empty markers are literal",
			input: "x **** y",
			want:  []Span{{Text: "x **** y"}},
		},
		{
			name:  "empty",
			input: "",
			want:  []Span{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Inline(tt.input))
		})
	}
}
