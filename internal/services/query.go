package services

import (
	"context"
	"fmt"

	"github.com/briefly/briefly-backend/internal/core"
	"github.com/briefly/briefly-backend/internal/providers"
)

// QueryBlock answers a one-off question scoped to a block. blockIndex is
// 0-based. Answers are never cached: every call goes out to the provider.
func (e *Engine) QueryBlock(ctx context.Context, sessionID string, blockIndex int, question string) (string, error) {
	sess, ok := e.store.Get(sessionID)
	if !ok {
		return "", &core.SessionNotFoundError{SessionID: sessionID}
	}

	doc := sess.Document
	startPage, endPage, err := e.part.Range(doc.TotalPages, blockIndex)
	if err != nil {
		return "", err
	}

	pages := doc.Pages[startPage:endPage]
	parts := make([]providers.Part, 0, len(pages)+1)
	parts = append(parts, providers.TextPart(
		blockQueryPrompt(doc.Name, question, blockIndex+1, startPage+1, endPage, pages)))
	parts = append(parts, imageParts(pages)...)

	target := fmt.Sprintf("block %d query", blockIndex+1)
	return e.callProvider(ctx, e.cfg.QueryTimeout(), target, parts)
}

// QueryPage answers a one-off question scoped to a single page. pageNumber
// is 1-based, matching how users address pages. Never cached.
func (e *Engine) QueryPage(ctx context.Context, sessionID string, pageNumber int, question string) (string, error) {
	sess, ok := e.store.Get(sessionID)
	if !ok {
		return "", &core.SessionNotFoundError{SessionID: sessionID}
	}

	doc := sess.Document
	if pageNumber < 1 || pageNumber > doc.TotalPages {
		return "", &core.PageOutOfRangeError{Page: pageNumber, TotalPages: doc.TotalPages}
	}

	page := doc.Pages[pageNumber-1]
	parts := []providers.Part{providers.TextPart(pageQueryPrompt(doc.Name, question, page))}
	if len(page.Image) > 0 {
		parts = append(parts, providers.ImagePart(page.Image))
	}

	target := fmt.Sprintf("page %d query", pageNumber)
	return e.callProvider(ctx, e.cfg.QueryTimeout(), target, parts)
}

// GeneralQuery answers a free-text question with no document context. It is
// a single text-only call with the shorter general timeout.
func (e *Engine) GeneralQuery(ctx context.Context, question string) (string, error) {
	parts := []providers.Part{providers.TextPart(generalQueryPrompt(question))}
	return e.callProvider(ctx, e.cfg.GeneralTimeout(), "general query", parts)
}
