package slides

import (
	"fmt"
	"html/template"
)

// BlockElement is a single rendered block-level node: a tag name plus its
// serialized markup. Elements are produced by a SourceParser and owned by
// exactly one Slide after segmentation.
type BlockElement struct {
	Tag  string
	HTML template.HTML
}

// Tags projects an element sequence onto its ordered tag names.
func Tags(elements []BlockElement) []string {
	tags := make([]string, len(elements))
	for i, el := range elements {
		tags[i] = el.Tag
	}
	return tags
}

// Segment groups a flat element sequence into slides, splitting at
// horizontal rules. The rule element itself is a separator and never
// becomes slide content. Empty groups (a leading rule, or a trailing rule
// with nothing after it) produce no slide. Slides are numbered 1-based in
// encounter order and classified from their tag-name projection.
func Segment(elements []BlockElement) []*Slide {
	var out []*Slide
	var group []BlockElement

	closeGroup := func() {
		if len(group) == 0 {
			return
		}
		n := len(out) + 1
		out = append(out, &Slide{
			Number:    n,
			SectionID: fmt.Sprintf("slide-%d", n),
			Elements:  group,
			Layout:    Classify(Tags(group)),
		})
		group = nil
	}

	for _, el := range elements {
		if el.Tag == "hr" {
			closeGroup()
			continue
		}
		group = append(group, el)
	}
	closeGroup()

	return out
}
