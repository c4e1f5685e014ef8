package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avezina/paperlens/internal/core/domain"
	"github.com/avezina/paperlens/internal/core/ports"
	"github.com/avezina/paperlens/internal/infrastructure/extractor/htmldoc"
	"github.com/avezina/paperlens/internal/infrastructure/extractor/pdfdoc"
	"github.com/avezina/paperlens/internal/infrastructure/extractor/plaintext"
	"github.com/avezina/paperlens/internal/infrastructure/storage/localfs"
)

const userAgent = "paperlens/1.0"

// TextExtractor produces plain text from one cached download.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

type docFormat string

const (
	formatPDF   docFormat = "pdf"
	formatHTML  docFormat = "html"
	formatPlain docFormat = "plain"
)

// Fetcher downloads a document URL into the local cache, picks a text
// extractor by content type, extension or sniffed magic bytes, and cleans
// the extracted text of page-layout artifacts. The cached file is removed
// as soon as the text is out.
type Fetcher struct {
	client  *http.Client
	storage *localfs.Storage
	pdf     TextExtractor
	html    TextExtractor
	plain   TextExtractor
	logger  *slog.Logger
}

func New(storage *localfs.Storage, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		storage: storage,
		pdf:     pdfdoc.NewExtractor(),
		html:    htmldoc.NewExtractor(),
		plain:   plaintext.NewExtractor(),
		logger:  logger,
	}
}

var _ ports.DocumentFetcher = (*Fetcher)(nil)

func (f *Fetcher) FetchDocumentText(ctx context.Context, source string) (string, error) {
	parsed, err := url.Parse(source)
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "fetch document", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", domain.WrapError(domain.ErrInvalidInput, "fetch document",
			fmt.Errorf("unsupported scheme %q", parsed.Scheme))
	}

	cached, contentType, size, err := f.download(ctx, source, parsed.Path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.storage.Remove(ctx, cached)
	}()

	format := detectFormat(contentType, parsed.Path, readHead(cached))
	text, err := f.extractorFor(format).Extract(ctx, cached)
	if err != nil {
		return "", domain.WrapError(domain.ErrFetch, fmt.Sprintf("extract %s text", format), err)
	}

	text = CleanArtifacts(text)
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrFetch, "extract text", fmt.Errorf("document yielded no text"))
	}

	f.logger.Info("document_fetched",
		"source", source,
		"content_type", contentType,
		"bytes", size,
		"format", string(format),
		"text_chars", len(text),
	)
	return text, nil
}

// download streams the response body into the cache and returns the
// cached file path, the response content type and the byte count.
func (f *Fetcher) download(ctx context.Context, source, sourcePath string) (string, string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", "", 0, domain.WrapError(domain.ErrInvalidInput, "fetch document", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", 0, domain.WrapError(domain.ErrFetch, "download document", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", 0, domain.WrapError(domain.ErrFetch, "download document",
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	counted := &countingReader{r: resp.Body}
	key := fmt.Sprintf("%s_%s", uuid.NewString(), localfs.SanitizeFilename(path.Base(sourcePath)))
	cached, err := f.storage.Save(ctx, key, counted)
	if err != nil {
		return "", "", 0, domain.WrapError(domain.ErrFetch, "cache document", err)
	}
	return cached, resp.Header.Get("Content-Type"), counted.n, nil
}

func (f *Fetcher) extractorFor(format docFormat) TextExtractor {
	switch format {
	case formatPDF:
		return f.pdf
	case formatHTML:
		return f.html
	default:
		return f.plain
	}
}

// detectFormat prefers the declared content type, then the URL extension,
// then the file's leading bytes.
func detectFormat(contentType, sourcePath string, head []byte) docFormat {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "application/pdf":
			return formatPDF
		case "text/html", "application/xhtml+xml":
			return formatHTML
		}
	}

	switch strings.ToLower(path.Ext(sourcePath)) {
	case ".pdf":
		return formatPDF
	case ".html", ".htm":
		return formatHTML
	}

	if bytes.HasPrefix(head, []byte("%PDF")) {
		return formatPDF
	}
	if strings.HasPrefix(http.DetectContentType(head), "text/html") {
		return formatHTML
	}
	return formatPlain
}

func readHead(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	return head[:n]
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
