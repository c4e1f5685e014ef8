package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Sampling settings for analysis generation. Low temperature keeps the
// model close to the excerpts it is asked to ground on.
const (
	genTemperature float32 = 0.3
	genTopP        float32 = 0.9
	genMaxTokens           = 1500
)

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	var out string
	err := g.client.execute(ctx, "chat_completion", func(ctx context.Context) error {
		resp, err := g.client.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: g.client.cfg.GenModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: genTemperature,
			TopP:        genTopP,
			MaxTokens:   genMaxTokens,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty completion response")
		}
		out = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", wrapTemporaryIfNeeded("generate", err)
	}
	return out, nil
}
