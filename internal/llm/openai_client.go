// internal/llm/openai_client.go
// Client LLM untuk ringkasan analisis rapport (expert)
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var ErrNotConfigured = errors.New("llm: OPENAI_API_KEY not set")

// Client = kontrak minimal yang dipakai services.
type Client interface {
	// Jawaban naratif (non-JSON, non-stream)
	Complete(ctx context.Context, system, prompt string) (string, error)

	// Nama model aktif
	Model() string
}

type OpenAIClient struct {
	api   *openai.Client
	model string
}

// New membuat client; apiKey kosong → ErrNotConfigured (pemanggil pakai fallback).
func New(apiKey, baseURL, model string) (Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, ErrNotConfigured
	}
	cfg := openai.DefaultConfig(key)
	if base := strings.TrimSpace(baseURL); base != "" {
		cfg.BaseURL = base
	}
	if model = strings.TrimSpace(model); model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}, nil
}

func (c *OpenAIClient) Model() string { return c.model }

func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	}

	var cancel context.CancelFunc
	if _, ok := ctx.Deadline(); !ok {
		ctx, cancel = context.WithTimeout(ctx, 18*time.Second)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
