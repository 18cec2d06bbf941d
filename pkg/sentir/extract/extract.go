// Package extract pulls raw text out of documents on disk.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

// Document is the raw paginated text of one file. Pages are in document order;
// a page without text is an empty string.
type Document struct {
	Path  string
	Pages []string
}

// Text concatenates the pages in order.
func (d Document) Text() string {
	return strings.Join(d.Pages, "")
}

// Extractor reads one document.
type Extractor interface {
	Extract(ctx context.Context, path string) (Document, error)
}

// Registry dispatches to an Extractor by file extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Extractor)}
}

// DefaultRegistry knows PDF, plain text and HTML.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".pdf", PDF{})
	r.Register(".txt", Text{})
	html := HTML{}
	r.Register(".html", html)
	r.Register(".htm", html)
	return r
}

// Register maps ext (".pdf", case-insensitive) to e.
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[normalizeExt(ext)] = e
}

// Supports reports whether ext has an extractor.
func (r *Registry) Supports(ext string) bool {
	_, ok := r.byExt[normalizeExt(ext)]
	return ok
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract implements Extractor by dispatching on the path's extension.
func (r *Registry) Extract(ctx context.Context, path string) (Document, error) {
	e, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s: %w", internalerr.ErrExtraction, path, internalerr.ErrUnsupported)
	}
	return e.Extract(ctx, path)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
