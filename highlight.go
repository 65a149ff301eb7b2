package slides

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	blackfriday "gopkg.in/russross/blackfriday.v2"
)

// DefaultHighlightStyle is used when a presentation does not configure one.
const DefaultHighlightStyle = "github"

// Renderer renders markdown AST nodes to HTML.
type Renderer interface {
	RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus
}

// HighlightRenderer wraps the stock HTML renderer and replaces only the
// rendering of fenced code blocks that declare a language. Blocks without
// a language tag fall through to the default escaped rendering.
type HighlightRenderer struct {
	base  *blackfriday.HTMLRenderer
	style string
}

// NewHighlightRenderer builds a renderer highlighting code blocks with the
// named chroma style.
func NewHighlightRenderer(style string) *HighlightRenderer {
	if style == "" {
		style = DefaultHighlightStyle
	}
	return &HighlightRenderer{
		base: blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.CommonHTMLFlags,
		}),
		style: style,
	}
}

func (r *HighlightRenderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	if node.Type != blackfriday.CodeBlock {
		return r.base.RenderNode(w, node, entering)
	}
	lang := codeLanguage(node.Info)
	if lang == "" {
		return r.base.RenderNode(w, node, entering)
	}
	var buf bytes.Buffer
	if err := highlightCode(&buf, string(node.Literal), lang, r.style); err != nil {
		return r.base.RenderNode(w, node, entering)
	}
	w.Write(buf.Bytes())
	return blackfriday.GoToNext
}

// highlightCode runs source through chroma and wraps the result in a
// container classed by language. The highlighter output is trusted HTML
// and written verbatim.
func highlightCode(w io.Writer, source, lang, styleName string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return fmt.Errorf("no lexer for language %q", lang)
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "<div class=\"%s\">\n", template.HTMLEscapeString(lang)); err != nil {
		return err
	}
	if err := chromahtml.New().Format(w, style, iterator); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n</div>\n")
	return err
}

func codeLanguage(info []byte) string {
	lang := string(info)
	if i := strings.IndexAny(lang, " \t"); i >= 0 {
		lang = lang[:i]
	}
	return strings.TrimSpace(lang)
}
