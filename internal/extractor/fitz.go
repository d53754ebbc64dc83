package extractor

import (
	"context"

	"github.com/gen2brain/go-fitz"
	"github.com/sirupsen/logrus"

	"github.com/briefly/briefly-backend/internal/config"
	"github.com/briefly/briefly-backend/internal/core"
	"github.com/briefly/briefly-backend/internal/models"
)

// fitzExtractor extracts text and renders each page to PNG through MuPDF.
type fitzExtractor struct {
	dpi float64
	log *logrus.Logger
}

func newFitzExtractor(cfg config.ExtractorConfig, log *logrus.Logger) *fitzExtractor {
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = 96
	}
	return &fitzExtractor{dpi: dpi, log: log}
}

func (e *fitzExtractor) Extract(ctx context.Context, name string, data []byte) (*models.Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, &core.ExtractionError{Err: err}
	}
	defer doc.Close()

	total := doc.NumPage()
	e.log.WithFields(logrus.Fields{
		"document": name,
		"pages":    total,
	}).Info("extracting PDF")

	pages := make([]models.Page, 0, total)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := doc.Text(i)
		if err != nil {
			return nil, &core.ExtractionError{Err: err}
		}

		png, err := doc.ImagePNG(i, e.dpi)
		if err != nil {
			return nil, &core.ExtractionError{Err: err}
		}

		pages = append(pages, models.Page{
			PageNumber: i + 1,
			Text:       text,
			Image:      png,
		})
	}

	return &models.Document{
		Name:       name,
		TotalPages: total,
		Pages:      pages,
	}, nil
}
