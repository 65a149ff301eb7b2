package slides

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// wrapperTmpl is the standalone conversion shell: a complete HTML page
// holding the markdown verbatim in a textarea, plus the externally hosted
// remark engine that renders it client-side.
var wrapperTmpl = `<!DOCTYPE html>
<html>
	<head>
		<title>[[ .Title ]]</title>
		<meta charset="utf-8">
		<style>
			@import url(https://fonts.googleapis.com/css?family=Yanone+Kaffeesatz);
			@import url(https://fonts.googleapis.com/css?family=Droid+Serif:400,700,400italic);
			@import url(https://fonts.googleapis.com/css?family=Ubuntu+Mono:400,700,400italic);
			body { font-family: 'Droid Serif'; }
			h1, h2, h3 {
				font-family: 'Yanone Kaffeesatz';
				font-weight: normal;
			}
			.remark-code, .remark-inline-code { font-family: 'Ubuntu Mono'; }
		</style>
	</head>
	<body>
		<textarea id="source">
[[ .Markdown ]]</textarea>
		<script src="https://remarkjs.com/downloads/remark-latest.min.js"></script>
		<script>
			var slideshow = remark.create({
				ratio: '4:3',
				highlightStyle: 'github'
			});
		</script>
	</body>
</html>
`

// OutputPath rewrites a .md suffix to .html. Inputs without the suffix
// pass through the same rewrite and come out unchanged.
func OutputPath(input string) string {
	if strings.HasSuffix(input, ".md") {
		return strings.TrimSuffix(input, ".md") + ".html"
	}
	return input
}

// PageTitle derives the wrapper page title from the input file name.
func PageTitle(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Wrap writes the wrapper page for the given markdown, embedded verbatim.
// The shell renders with text/template: html/template escapes the
// markdown inside the textarea.
func Wrap(w io.Writer, title string, markdown []byte) error {
	tmpl, err := template.New("wrapper").Delims("[[", "]]").Parse(wrapperTmpl)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, struct {
		Title    string
		Markdown string
	}{
		Title:    title,
		Markdown: string(markdown),
	})
}

// WrapFile converts a markdown file into a standalone HTML slideshow
// page next to it, returning the output path. The markdown is not
// validated or transformed; it is passed through unchanged.
func WrapFile(inputPath string) (string, error) {
	markdown, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", inputPath, err)
	}

	outputPath := OutputPath(inputPath)
	out, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", outputPath, err)
	}
	defer out.Close()

	if err := Wrap(out, PageTitle(inputPath), markdown); err != nil {
		return "", fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return outputPath, nil
}
