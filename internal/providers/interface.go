package providers

import (
	"context"
)

// Provider is the generation client contract: a prompt made of ordered text
// and image parts goes out, generated text comes back. Calls may be slow and
// must be bounded by the caller's context deadline.
type Provider interface {
	// Name returns the provider's display name.
	Name() string

	// Generate produces text from the given multimodal prompt.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// ValidateConfig validates the provider configuration.
	ValidateConfig() error
}

// GenerateRequest is a single multimodal generation call.
type GenerateRequest struct {
	Parts []Part `json:"parts"`
}

// Part is one element of a prompt: either text or an inline image.
type Part struct {
	Text  string `json:"text,omitempty"`
	Image []byte `json:"-"`
	MIME  string `json:"mime,omitempty"`
}

// TextPart builds a text prompt part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart builds an inline PNG prompt part.
func ImagePart(png []byte) Part {
	return Part{Image: png, MIME: "image/png"}
}

// IsImage reports whether the part carries inline image data.
func (p Part) IsImage() bool {
	return len(p.Image) > 0
}
