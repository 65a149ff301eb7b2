package slides

import (
	"bytes"
	"html/template"
	"strconv"

	blackfriday "gopkg.in/russross/blackfriday.v2"
)

func init() {
	RegisterSourceFormat(FormatMarkdown, &MarkdownSourceParser{})
}

const markdownExtensions = blackfriday.NoIntraEmphasis | blackfriday.Tables | blackfriday.FencedCode |
	blackfriday.Strikethrough | blackfriday.SpaceHeadings | blackfriday.HeadingIDs |
	blackfriday.BackslashLineBreak | blackfriday.DefinitionLists

// MarkdownSourceParser renders a markdown document into a flat sequence of
// block elements, one per top-level AST node. Fenced code blocks go
// through the presentation's highlight renderer.
type MarkdownSourceParser struct{}

func (m *MarkdownSourceParser) ParseElements(pres *Presentation, input []byte) ([]BlockElement, error) {
	var renderer Renderer = NewHighlightRenderer(pres.HighlightStyle)
	md := blackfriday.New(blackfriday.WithExtensions(markdownExtensions))
	doc := md.Parse(input)

	var elements []BlockElement
	for node := doc.FirstChild; node != nil; node = node.Next {
		var buf bytes.Buffer
		node.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
			return renderer.RenderNode(&buf, n, entering)
		})
		elements = append(elements, BlockElement{
			Tag:  blockTag(node),
			HTML: template.HTML(buf.String()),
		})
	}
	return elements, nil
}

// renderInlineMarkdown renders a markdown snippet (speaker notes) in one
// shot, without segmentation.
func renderInlineMarkdown(input []byte) template.HTML {
	out := blackfriday.Run(input, blackfriday.WithExtensions(markdownExtensions))
	return template.HTML(out)
}

func blockTag(n *blackfriday.Node) string {
	switch n.Type {
	case blackfriday.Heading:
		return "h" + strconv.Itoa(n.Level)
	case blackfriday.Paragraph:
		return "p"
	case blackfriday.HorizontalRule:
		return "hr"
	case blackfriday.CodeBlock:
		return "pre"
	case blackfriday.List:
		if n.ListFlags&blackfriday.ListTypeOrdered != 0 {
			return "ol"
		}
		return "ul"
	case blackfriday.BlockQuote:
		return "blockquote"
	case blackfriday.Table:
		return "table"
	case blackfriday.HTMLBlock:
		return "html"
	}
	return "div"
}
