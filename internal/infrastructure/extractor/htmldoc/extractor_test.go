package htmldoc

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestExtractSkipsScriptAndStyle(t *testing.T) {
	path := writeFixture(t, `<html><head><title>Paper</title><style>p{color:red}</style></head>
<body><script>var x = "hidden";</script><p>Visible   paragraph.</p></body></html>`)

	text, err := NewExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if strings.Contains(text, "hidden") || strings.Contains(text, "color:red") {
		t.Fatalf("expected script/style content to be dropped, got %q", text)
	}
	if !strings.Contains(text, "Visible paragraph.") {
		t.Fatalf("expected collapsed paragraph text, got %q", text)
	}
}

func TestExtractSeparatesBlockElements(t *testing.T) {
	path := writeFixture(t, `<body><h1>Heading</h1><p>First para.</p><p>Second para.</p></body>`)

	text, err := NewExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), text)
	}
	if lines[0] != "Heading" || lines[1] != "First para." || lines[2] != "Second para." {
		t.Fatalf("unexpected line split: %q", lines)
	}
}

func TestExtractDropsBlankLines(t *testing.T) {
	path := writeFixture(t, "<body><div>  </div><div>content</div><div>\n\t\n</div></body>")

	text, err := NewExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "content" {
		t.Fatalf("expected only non-blank content, got %q", text)
	}
}
