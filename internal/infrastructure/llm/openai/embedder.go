package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/avezina/paperlens/internal/core/domain"
)

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "embed", fmt.Errorf("empty text"))
	}

	var vector []float32
	err := e.client.execute(ctx, "embeddings", func(ctx context.Context) error {
		resp, err := e.client.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(e.client.cfg.EmbedModel),
			Input: []string{text},
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return fmt.Errorf("empty embedding response")
		}
		raw := resp.Data[0].Embedding
		vector = make([]float32, len(raw))
		for i := range raw {
			vector[i] = float32(raw[i])
		}
		return nil
	})
	if err != nil {
		return nil, wrapTemporaryIfNeeded("embed", err)
	}
	return vector, nil
}
