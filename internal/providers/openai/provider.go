package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/briefly/briefly-backend/internal/config"
	"github.com/briefly/briefly-backend/internal/providers"
)

// Provider implements the OpenAI generation provider.
type Provider struct {
	config config.ProviderConfig
	client *openai.Client
	model  string
}

// NewProvider creates a new OpenAI provider.
func NewProvider(cfg config.ProviderConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &Provider{
		config: cfg,
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return p.config.Name
}

// Generate produces text for a multimodal prompt. Images are sent as
// base64 data URLs, which is how the chat completions API takes inline
// visual input.
func (p *Provider) Generate(ctx context.Context, req providers.GenerateRequest) (string, error) {
	content := make([]openai.ChatMessagePart, 0, len(req.Parts))
	for _, part := range req.Parts {
		if part.IsImage() {
			content = append(content, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: "data:" + part.MIME + ";base64," + base64.StdEncoding.EncodeToString(part.Image),
				},
			})
			continue
		}
		content = append(content, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: part.Text,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: content,
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from model")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	if p.config.APIKey == "" {
		return errors.New("API key is required")
	}
	return nil
}
