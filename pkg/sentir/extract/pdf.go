package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

// PDF extracts the plain text of each page of a PDF file.
type PDF struct{}

// Extract implements Extractor. The file handle is released on every path,
// including parser panics on corrupt input, which are reported as ErrExtraction.
func (PDF) Extract(ctx context.Context, path string) (doc Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: open %s: %v", internalerr.ErrExtraction, path, err)
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			doc = Document{}
			err = fmt.Errorf("%w: parse %s: %v", internalerr.ErrExtraction, path, r)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return Document{}, fmt.Errorf("%w: stat %s: %v", internalerr.ErrExtraction, path, err)
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return Document{}, fmt.Errorf("%w: parse %s: %v", internalerr.ErrExtraction, path, err)
	}

	n := reader.NumPage()
	doc = Document{Path: path, Pages: make([]string, 0, n)}
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return Document{}, fmt.Errorf("%w: %s: %w", internalerr.ErrExtraction, path, err)
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return Document{}, fmt.Errorf("%w: %s page %d: %v", internalerr.ErrExtraction, path, i, err)
		}
		doc.Pages = append(doc.Pages, text)
	}

	return doc, nil
}
