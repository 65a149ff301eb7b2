package slides

import (
	"bytes"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func init() {
	RegisterSourceFormat(FormatHTML, &HTMLSourceParser{})
}

// HTMLSourceParser decomposes a pre-rendered HTML fragment into its
// top-level block elements. Text between elements is ignored unless it
// carries non-whitespace content, in which case it is kept as a
// paragraph. Comments survive as "html" elements so speaker-note
// comments work in HTML decks too.
type HTMLSourceParser struct{}

func (h *HTMLSourceParser) ParseElements(pres *Presentation, input []byte) ([]BlockElement, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(bytes.NewReader(input), body)
	if err != nil {
		return nil, err
	}

	var elements []BlockElement
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			var buf bytes.Buffer
			if err := html.Render(&buf, n); err != nil {
				return nil, err
			}
			elements = append(elements, BlockElement{
				Tag:  n.Data,
				HTML: template.HTML(buf.String()),
			})
		case html.CommentNode:
			var buf bytes.Buffer
			if err := html.Render(&buf, n); err != nil {
				return nil, err
			}
			elements = append(elements, BlockElement{
				Tag:  "html",
				HTML: template.HTML(buf.String()),
			})
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			if text == "" {
				continue
			}
			elements = append(elements, BlockElement{
				Tag:  "p",
				HTML: template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>"),
			})
		}
	}
	return elements, nil
}
