package slides

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Format names a source document format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// Source is a deck document together with its detected format.
type Source struct {
	Format  Format
	Content []byte
}

// DetectFormat infers a source format from a path or URL. Only the .htm
// and .html extensions select HTML; everything else, including .md and
// .markdown, is treated as markdown. A URL's query and fragment are not
// part of the extension.
func DetectFormat(ref string) Format {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".htm", ".html":
		return FormatHTML
	}
	return FormatMarkdown
}

// LoadSource reads a deck document from a local path or an http(s) URL.
func LoadSource(ctx context.Context, ref string) (Source, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return FetchSource(ctx, ref)
	}
	content, err := os.ReadFile(ref)
	if err != nil {
		return Source{}, err
	}
	return Source{Format: DetectFormat(ref), Content: content}, nil
}

// FetchSource retrieves a remote deck document. The request is issued
// once; there are no retries and an in-flight fetch is never aborted.
func FetchSource(ctx context.Context, url string) (Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Source{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Source{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Source{}, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return Source{}, err
	}
	return Source{Format: DetectFormat(url), Content: content}, nil
}
