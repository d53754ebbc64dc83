package gemini

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/briefly/briefly-backend/internal/config"
	"github.com/briefly/briefly-backend/internal/providers"
)

// Provider implements the Gemini generation provider.
type Provider struct {
	config config.ProviderConfig
	client *genai.Client
	model  string
}

// NewProvider creates a new Gemini provider.
func NewProvider(ctx context.Context, cfg config.ProviderConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	return &Provider{
		config: cfg,
		client: client,
		model:  model,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return p.config.Name
}

// Generate produces text for a multimodal prompt.
func (p *Provider) Generate(ctx context.Context, req providers.GenerateRequest) (string, error) {
	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, part := range req.Parts {
		if part.IsImage() {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: part.MIME,
					Data:     part.Image,
				},
			})
			continue
		}
		parts = append(parts, genai.NewPartFromText(part.Text))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	if p.config.APIKey == "" {
		return errors.New("API key is required")
	}
	return nil
}
