package ports

import (
	"context"

	"github.com/avezina/paperlens/internal/core/domain"
)

// DocumentFetcher resolves an external location to a complete extracted
// text blob.
type DocumentFetcher interface {
	FetchDocumentText(ctx context.Context, source string) (string, error)
}

// Embedder builds a fixed-dimension vector for one text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces text from a system instruction and a user prompt.
type Generator interface {
	Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error)
}

// Chunker splits raw text into overlapping positioned chunks.
type Chunker interface {
	Split(text string) []domain.Chunk
}
