package slides

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPresentation(t *testing.T) {
	src, err := LoadSource(context.Background(), "./testdata/deck.md")
	require.NoError(t, err)

	pres := &Presentation{}
	require.NoError(t, BuildPresentation(pres, src))

	assert.Equal(t, "Test Deck", pres.Name)
	assert.Equal(t, "A deck used by the tests", pres.Description)
	require.Len(t, pres.Slides, 3)

	assert.Equal(t, LayoutTitleSubtitle, pres.Slides[0].Layout)
	assert.Equal(t, "slide-1", pres.Slides[0].SectionID)

	assert.Equal(t, LayoutDefault, pres.Slides[1].Layout)
	assert.True(t, pres.Slides[1].HasNotes())
	assert.Contains(t, string(pres.Slides[1].Notes), "mention the demo")
	assert.NotContains(t, string(pres.Slides[1].Content()), "mention the demo")

	assert.Equal(t, LayoutTitleOnly, pres.Slides[2].Layout)
	assert.Equal(t, 3, pres.Slides[2].Number)
}

func TestRenderIndex(t *testing.T) {
	src, err := LoadSource(context.Background(), "./testdata/deck.md")
	require.NoError(t, err)

	pres := &Presentation{}
	out, err := RenderIndex(pres, src)
	require.NoError(t, err)

	page := string(out)
	assert.Contains(t, page, "<title>Test Deck</title>")
	assert.Contains(t, page, `id="slide-1"`)
	assert.Contains(t, page, `id="slide-3"`)
	assert.Contains(t, page, "title-subtitle")
	assert.Contains(t, page, "title-only")
	assert.Contains(t, page, "js/deck.js")
}

func TestBuildPresentationFromHTML(t *testing.T) {
	src := Source{
		Format:  FormatHTML,
		Content: []byte("<h1>Hello</h1><hr><p>Body</p>"),
	}

	pres := &Presentation{}
	require.NoError(t, BuildPresentation(pres, src))
	require.Len(t, pres.Slides, 2)
	assert.Equal(t, LayoutTitleOnly, pres.Slides[0].Layout)
	assert.Equal(t, []string{"p"}, Tags(pres.Slides[1].Elements))
}

func TestHTMLSourceNotes(t *testing.T) {
	src := Source{
		Format:  FormatHTML,
		Content: []byte("<h1>Hello</h1><!-- note: from the html deck --><hr><p>Body</p>"),
	}

	pres := &Presentation{}
	require.NoError(t, BuildPresentation(pres, src))
	require.Len(t, pres.Slides, 2)

	assert.True(t, pres.Slides[0].HasNotes())
	assert.Contains(t, string(pres.Slides[0].Notes), "from the html deck")
	// With the note removed, the slide is back to a bare title.
	assert.Equal(t, LayoutTitleOnly, pres.Slides[0].Layout)
	assert.False(t, pres.Slides[1].HasNotes())
}

func TestBuildPresentationUnknownFormat(t *testing.T) {
	pres := &Presentation{}
	err := BuildPresentation(pres, Source{Format: Format("docx")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching source parser")
}

func TestParseFrontMatter(t *testing.T) {
	fm, content := parseFrontMatter([]byte("+++\nname: Deck\n+++\n# Hello\n"))
	assert.Equal(t, "\nname: Deck\n", string(fm))
	assert.Equal(t, "\n# Hello\n", string(content))

	fm, content = parseFrontMatter([]byte("# Hello\n"))
	assert.Nil(t, fm)
	assert.Equal(t, "# Hello\n", string(content))

	// Unterminated front matter is treated as content.
	fm, content = parseFrontMatter([]byte("+++\nname: Deck\n# Hello\n"))
	assert.Nil(t, fm)
	assert.Equal(t, "+++\nname: Deck\n# Hello\n", string(content))
}

func TestSlideContentOrder(t *testing.T) {
	s := &Slide{Elements: []BlockElement{
		{Tag: "h1", HTML: "<h1>a</h1>"},
		{Tag: "p", HTML: "<p>b</p>"},
	}}
	assert.Equal(t, "<h1>a</h1><p>b</p>", string(s.Content()))
}

func TestSlideByFragment(t *testing.T) {
	pres := &Presentation{Slides: testSlides(3)}
	require.NotNil(t, pres.SlideByFragment("slide-2"))
	assert.Equal(t, 2, pres.SlideByFragment("slide-2").Number)
	assert.Nil(t, pres.SlideByFragment("nope"))
}

func TestMarkdownSegmentation(t *testing.T) {
	doc := strings.Join([]string{
		"# One", "", "## Two", "", "---", "", "Body text.", "", "---", "", "# Three", "",
	}, "\n")

	pres := &Presentation{}
	require.NoError(t, BuildPresentation(pres, Source{Format: FormatMarkdown, Content: []byte(doc)}))
	require.Len(t, pres.Slides, 3)
	assert.Equal(t, []string{"h1", "h2"}, Tags(pres.Slides[0].Elements))
	assert.Equal(t, []string{"p"}, Tags(pres.Slides[1].Elements))
	assert.Equal(t, []string{"h1"}, Tags(pres.Slides[2].Elements))
}
