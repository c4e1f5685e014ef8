package usecase

import (
	"context"
	"fmt"

	"github.com/avezina/paperlens/internal/core/domain"
	"github.com/avezina/paperlens/internal/core/ports"
)

// SemanticIndex holds one document's chunks with their embedding vectors.
// It is read only after construction; a changed document requires building
// a new index, never mutating one in place.
type SemanticIndex struct {
	entries []domain.IndexEntry
}

// BuildSemanticIndex embeds every chunk in order, one call per chunk. Any
// failed embedding aborts the build; no partial index is returned.
func BuildSemanticIndex(ctx context.Context, embedder ports.Embedder, chunks []domain.Chunk) (*SemanticIndex, error) {
	entries := make([]domain.IndexEntry, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return nil, domain.WrapError(domain.ErrEmbedding, fmt.Sprintf("embed chunk %d", i+1), err)
		}
		if len(entries) > 0 && len(vector) != len(entries[0].Vector) {
			return nil, domain.WrapError(domain.ErrEmbedding, fmt.Sprintf("embed chunk %d", i+1),
				fmt.Errorf("vector dimension %d differs from %d", len(vector), len(entries[0].Vector)))
		}
		entries = append(entries, domain.IndexEntry{Chunk: chunk, Vector: vector})
	}
	return &SemanticIndex{entries: entries}, nil
}

func (ix *SemanticIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}
