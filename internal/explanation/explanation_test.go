package explanation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		explanation string
		want        []Block
	}{
		{
			name:        "heading, paragraph and list",
			explanation: "<h3>Core Concept</h3><p>A linear   equation has\n degree <strong>one</strong>.</p><ul><li>First</li><li> Second </li></ul>",
			want: []Block{
				{Kind: KindHeading, Text: "Core Concept"},
				{Kind: KindParagraph, Text: "A linear equation has degree one."},
				{Kind: KindListItem, Text: "First"},
				{Kind: KindListItem, Text: "Second"},
			},
		},
		{
			name:        "ordered list is numbered",
			explanation: "<ol><li>Isolate x</li><li>Divide</li></ol>",
			want: []Block{
				{Kind: KindOrderedListItem, Number: 1, Text: "Isolate x"},
				{Kind: KindOrderedListItem, Number: 2, Text: "Divide"},
			},
		},
		{
			name:        "code keeps line breaks",
			explanation: "<pre><code>x = 2\ny = 3\n</code></pre>",
			want: []Block{
				{Kind: KindCode, Text: "x = 2\ny = 3"},
			},
		},
		{
			name:        "bare text becomes a paragraph",
			explanation: "Just text",
			want: []Block{
				{Kind: KindParagraph, Text: "Just text"},
			},
		},
		{
			name:        "empty elements are skipped",
			explanation: "<p>  </p><blockquote>Remember this</blockquote><script>alert(1)</script>",
			want: []Block{
				{Kind: KindQuote, Text: "Remember this"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.explanation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText("<h3>Core Concept</h3><p>Balance both sides.</p><ul><li>First</li></ul><ol><li>Step</li></ol>")
	assert.Equal(t, "CORE CONCEPT\nBalance both sides.\n  • First\n  1. Step", got)
}

func TestMarkdown(t *testing.T) {
	got := Markdown("<h3>Core Concept</h3><p>Balance both sides.</p><ul><li>First</li><li>Second</li></ul><pre>x = 1</pre>")
	assert.Equal(t, "### Core Concept\n\nBalance both sides.\n\n- First\n- Second\n\n```\nx = 1\n```", got)
}
