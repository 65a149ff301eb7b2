package slides

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"

	"gopkg.in/yaml.v2"
)

var Version = "undefined"

var frontMatterDelimiter = []byte(`+++`)

var mainTmpl = `[[define "main" ]] [[ template "base" . ]] [[ end ]]`

var baseTmpl = `
[[ define "base" ]]
<html>
	<head>
		<title>[[ .Name ]]</title>
		<meta charset="utf-8">
		<link rel="stylesheet" href="css/deck.css">
	</head>
	<body>
		<div class="deck">
			[[ range .Slides ]]
				[[ template "slide" . ]]
			[[ end ]]
		</div>
		[[ block "js" . ]]
		<script src="js/deck.js"></script>
		<script>
			Deck.initialize();
		</script>
		[[ end ]]
	</body>
</html>
[[ end ]]
`

var slideTmpl = `
[[ define "slide" ]]
<section id="[[ .SectionID ]]" data-layout="[[ .Layout ]]" class="slide [[ .Layout ]]">
[[ .Content ]]
[[ if .HasNotes ]]
<aside class="notes">
[[ .Notes ]]
</aside>
[[ end ]]
</section>
[[ end ]]
`

var sourceParsers = map[Format]SourceParser{}

func RegisterSourceFormat(format Format, parser SourceParser) {
	sourceParsers[format] = parser
}

// SourceParser turns a raw deck document into a flat sequence of block
// elements, ready for segmentation.
type SourceParser interface {
	ParseElements(pres *Presentation, input []byte) ([]BlockElement, error)
}

// Slide is one segment of the deck: its block elements in order, the
// layout inferred from them, and a stable 1-based number.
type Slide struct {
	Number    int
	SectionID string
	Layout    Layout
	Elements  []BlockElement
	Notes     template.HTML
}

// Content concatenates the slide's element markup in document order.
func (s *Slide) Content() template.HTML {
	var buf bytes.Buffer
	for _, el := range s.Elements {
		buf.WriteString(string(el.HTML))
	}
	return template.HTML(buf.String())
}

func (s *Slide) HasNotes() bool {
	return len(s.Notes) > 0
}

// Presentation is a whole deck plus its frontmatter configuration.
type Presentation struct {
	Name           string    `yaml:"name"`
	Description    string    `yaml:"description"`
	Ratio          string    `yaml:"ratio"`
	HighlightStyle string    `yaml:"highlightStyle"`
	Nav            NavConfig `yaml:"nav"`
	Slides         []*Slide  `yaml:"-"`
}

// SlideByFragment resolves a URL fragment identifier to a slide.
func (p *Presentation) SlideByFragment(fragment string) *Slide {
	for _, s := range p.Slides {
		if s.SectionID == fragment {
			return s
		}
	}
	return nil
}

func DefaultRenderer() *template.Template {
	var err error
	tmpl := template.New("main")
	tmpl.Delims("[[", "]]")
	for _, tmplStr := range []string{mainTmpl, baseTmpl, slideTmpl} {
		tmpl, err = tmpl.Parse(tmplStr)
		if err != nil {
			panic(err)
		}
	}
	return tmpl
}

func parseFrontMatter(in []byte) (fm []byte, content []byte) {
	if !bytes.HasPrefix(in, frontMatterDelimiter) {
		return nil, in
	}

	parts := bytes.SplitN(in, frontMatterDelimiter, 3)
	if len(parts) < 3 {
		return nil, in
	}

	return parts[1], parts[2]
}

func decodeFrontMatter(fm []byte, pres *Presentation) error {
	if err := yaml.Unmarshal(fm, pres); err != nil {
		return fmt.Errorf("parse front matter: %w", err)
	}
	return nil
}

var noteComment = regexp.MustCompile(`(?s)\A\s*<!--\s*note:\s*(.*?)\s*-->\s*\z`)

// extractNotes pulls speaker-note comments out of a slide's elements.
// Notes are written in markdown, so they are rendered to HTML. Removing
// note elements can change the slide's tag signature, so the layout is
// reclassified afterwards.
func extractNotes(s *Slide) {
	var kept []BlockElement
	var notes bytes.Buffer
	for _, el := range s.Elements {
		if el.Tag == "html" {
			if m := noteComment.FindStringSubmatch(string(el.HTML)); m != nil {
				notes.WriteString(m[1])
				notes.WriteString("\n")
				continue
			}
		}
		kept = append(kept, el)
	}
	if notes.Len() == 0 {
		return
	}
	s.Elements = kept
	s.Notes = renderInlineMarkdown(notes.Bytes())
	s.Layout = Classify(Tags(kept))
}

// BuildPresentation parses a source document into pres: frontmatter is
// decoded into the presentation, the body is decomposed into block
// elements and segmented into slides.
func BuildPresentation(pres *Presentation, src Source) error {
	body := src.Content
	if src.Format == FormatMarkdown {
		fm, rest := parseFrontMatter(src.Content)
		if len(fm) > 0 {
			if err := decodeFrontMatter(fm, pres); err != nil {
				return err
			}
		}
		body = rest
	}

	parser, exists := sourceParsers[src.Format]
	if !exists {
		return fmt.Errorf("no matching source parser for format: %s", src.Format)
	}

	elements, err := parser.ParseElements(pres, body)
	if err != nil {
		return err
	}

	pres.Slides = Segment(elements)
	for _, s := range pres.Slides {
		extractNotes(s)
	}
	return nil
}

// RenderIndex builds the presentation from src and renders the full deck
// page.
func RenderIndex(pres *Presentation, src Source) ([]byte, error) {
	if err := BuildPresentation(pres, src); err != nil {
		return nil, err
	}

	tmpl := DefaultRenderer()
	buf := &bytes.Buffer{}
	err := tmpl.ExecuteTemplate(buf, "main", pres)
	return buf.Bytes(), err
}
