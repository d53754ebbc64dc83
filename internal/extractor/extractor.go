package extractor

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/briefly/briefly-backend/internal/config"
	"github.com/briefly/briefly-backend/internal/models"
)

// Extractor turns raw document bytes into an ordered sequence of pages with
// extracted text and, depending on the backend, a rendered page image.
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) (*models.Document, error)
}

// New selects the extractor backend from configuration.
func New(cfg config.ExtractorConfig, log *logrus.Logger) (Extractor, error) {
	switch cfg.Backend {
	case "", "fitz":
		return newFitzExtractor(cfg, log), nil
	case "native":
		return newNativeExtractor(log), nil
	default:
		return nil, fmt.Errorf("unknown extractor backend %q", cfg.Backend)
	}
}
