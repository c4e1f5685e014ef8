package pdfdoc

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of a cached PDF file, page by page in
// document order.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	text, err := readPDFText(ctx, path)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return text, nil
}

// readPDFText walks every page with a shared font cache. The pdf package
// panics on some malformed files, so the panic is converted into an error
// here instead of taking the process down.
func readPDFText(ctx context.Context, path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	fonts := make(map[string]*pdf.Font)
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("extract pdf page %d: %w", pageNum, err)
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}
