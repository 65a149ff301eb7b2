package slides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseMarkdown(t *testing.T, doc string) []BlockElement {
	t.Helper()
	parser := &MarkdownSourceParser{}
	elements, err := parser.ParseElements(&Presentation{}, []byte(doc))
	require.NoError(t, err)
	return elements
}

func TestCodeBlockHighlighted(t *testing.T) {
	elements := parseMarkdown(t, "```go\npackage main\n```\n")
	require.Len(t, elements, 1)

	out := string(elements[0].HTML)
	assert.Contains(t, out, `<div class="go">`)
	assert.Contains(t, out, "<span")
	assert.NotContains(t, out, "&lt;span")
}

func TestCodeBlockWithoutLanguage(t *testing.T) {
	elements := parseMarkdown(t, "```\n<b>raw</b>\n```\n")
	require.Len(t, elements, 1)

	// Default rendering: escaped, no highlight container.
	out := string(elements[0].HTML)
	assert.Contains(t, out, "<pre><code>")
	assert.Contains(t, out, "&lt;b&gt;raw&lt;/b&gt;")
	assert.NotContains(t, out, "<div class=")
}

func TestCodeBlockUnknownLanguage(t *testing.T) {
	elements := parseMarkdown(t, "```nosuchlanguage\nstuff\n```\n")
	require.Len(t, elements, 1)

	// Falls back to the default escaped rendering.
	out := string(elements[0].HTML)
	assert.Contains(t, out, "stuff")
	assert.NotContains(t, out, `<div class="nosuchlanguage">`)
}

func TestCodeLanguage(t *testing.T) {
	assert.Equal(t, "go", codeLanguage([]byte("go")))
	assert.Equal(t, "go", codeLanguage([]byte("go linenos")))
	assert.Equal(t, "", codeLanguage(nil))
}
