package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

// Text reads a UTF-8 plain text file as a single page.
type Text struct{}

// Extract implements Extractor.
func (Text) Extract(ctx context.Context, path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: read %s: %v", internalerr.ErrExtraction, path, err)
	}
	if !utf8.Valid(data) {
		return Document{}, fmt.Errorf("%w: %s is not valid UTF-8", internalerr.ErrExtraction, path)
	}
	return Document{Path: path, Pages: []string{string(data)}}, nil
}

// HTML reads the visible text of an HTML file as a single page.
type HTML struct{}

// Extract implements Extractor.
func (HTML) Extract(ctx context.Context, path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: open %s: %v", internalerr.ErrExtraction, path, err)
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return Document{}, fmt.Errorf("%w: parse %s: %v", internalerr.ErrExtraction, path, err)
	}
	return Document{Path: path, Pages: []string{visibleText(root)}}, nil
}

func visibleText(root *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.TrimSpace(buf.String())
}
