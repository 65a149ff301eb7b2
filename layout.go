package slides

import "strings"

// Layout classifies a slide by the shape of its content.
type Layout string

const (
	LayoutTitleOnly     Layout = "title-only"
	LayoutTitleSubtitle Layout = "title-subtitle"
	LayoutDefault       Layout = "default"
)

// Classify derives a layout from the ordered tag names of a slide's
// elements. It is a pure function: identical sequences always yield
// identical layouts.
func Classify(tags []string) Layout {
	switch strings.Join(tags, ",") {
	case "h1":
		return LayoutTitleOnly
	case "h1,h2":
		return LayoutTitleSubtitle
	}
	return LayoutDefault
}
