package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		contains   []string
		notContain []string
	}{
		{
			name:     "plain markup passes through",
			input:    `<p>Hello <strong>world</strong></p>`,
			contains: []string{"<p>Hello <strong>world</strong></p>"},
		},
		{
			name:       "script element removed with content",
			input:      `<p>ok</p><script>alert(1)</script>`,
			contains:   []string{"<p>ok</p>"},
			notContain: []string{"script", "alert"},
		},
		{
			name:       "nested iframe and style removed",
			input:      `<div><style>p{}</style><iframe src="x"></iframe><em>kept</em></div>`,
			contains:   []string{"<em>kept</em>"},
			notContain: []string{"iframe", "style"},
		},
		{
			name:       "event handlers stripped",
			input:      `<img src="a.png" onerror="steal()" alt="pic"/>`,
			contains:   []string{`src="a.png"`, `alt="pic"`},
			notContain: []string{"onerror", "steal"},
		},
		{
			name:       "javascript urls stripped",
			input:      `<a href=" JavaScript:alert(1)" title="t">link</a>`,
			contains:   []string{`title="t"`, "link"},
			notContain: []string{"href", "alert"},
		},
		{
			name:       "comments removed",
			input:      `<p>a<!-- secret --></p>`,
			notContain: []string{"secret"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.input)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.notContain {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestToMarkdown(t *testing.T) {
	got, err := ToMarkdown(`<h2>Title</h2><p>Some <strong>bold</strong> text</p><ul><li>one</li></ul>`)
	require.NoError(t, err)
	assert.Contains(t, got, "## Title")
	assert.Contains(t, got, "**bold**")
	assert.Contains(t, got, "- one")
	assert.False(t, strings.HasSuffix(got, "\n"))
}

func TestText(t *testing.T) {
	got := Text("<p>Hello\n  <b>there</b></p><script>x()</script><p>friend</p>")
	assert.Equal(t, "Hello there friend", got)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("<p>short</p>", 10))
	assert.Equal(t, "Hello…", Excerpt("<p>Hello world</p>", 6))
	assert.Equal(t, "", Excerpt("<p>anything</p>", 0))
}
