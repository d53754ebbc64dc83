package extractor

import (
	"bytes"
	"context"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"

	"github.com/briefly/briefly-backend/internal/core"
	"github.com/briefly/briefly-backend/internal/models"
)

// nativeExtractor is the pure-Go fallback backend. It extracts page text
// only; pages carry no rendered image, so generation runs text-only.
type nativeExtractor struct {
	log *logrus.Logger
}

func newNativeExtractor(log *logrus.Logger) *nativeExtractor {
	return &nativeExtractor{log: log}
}

func (e *nativeExtractor) Extract(ctx context.Context, name string, data []byte) (*models.Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &core.ExtractionError{Err: err}
	}

	total := reader.NumPage()
	e.log.WithFields(logrus.Fields{
		"document": name,
		"pages":    total,
	}).Info("extracting PDF (text only)")

	pages := make([]models.Page, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		var text string
		if !page.V.IsNull() {
			// Some pages have no extractable text, that is not fatal.
			if t, err := page.GetPlainText(nil); err == nil {
				text = t
			}
		}

		pages = append(pages, models.Page{
			PageNumber: i,
			Text:       text,
		})
	}

	return &models.Document{
		Name:       name,
		TotalPages: total,
		Pages:      pages,
	}, nil
}
