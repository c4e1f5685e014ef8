package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Extractor reads a cached download as UTF-8 text. It is the fallback for
// anything that is neither a PDF nor an HTML page.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}

	if !utf8.Valid(raw) {
		return "", fmt.Errorf("document is not valid UTF-8 text")
	}

	return strings.TrimSpace(string(raw)), nil
}
