package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/briefly/briefly-backend/internal/blocks"
	"github.com/briefly/briefly-backend/internal/config"
	"github.com/briefly/briefly-backend/internal/core"
	"github.com/briefly/briefly-backend/internal/models"
	"github.com/briefly/briefly-backend/internal/providers"
	"github.com/briefly/briefly-backend/internal/store"
)

// Engine is the summarization core. It memoizes block summaries per session,
// deduplicates concurrent generation of the same block, caps concurrent
// outbound generation calls, and bounds every call in time.
type Engine struct {
	store    *store.Store
	registry *providers.Registry
	provider string
	part     blocks.Partitioner
	gate     *semaphore.Weighted
	flight   singleflight.Group
	tasks    *TaskRunner
	cfg      config.EngineConfig
	log      *logrus.Logger
}

// NewEngine wires the summarization engine.
func NewEngine(cfg config.EngineConfig, providerID string, registry *providers.Registry, st *store.Store, tasks *TaskRunner, log *logrus.Logger) *Engine {
	width := cfg.MaxConcurrentGenerations
	if width < 1 {
		width = 1
	}
	return &Engine{
		store:    st,
		registry: registry,
		provider: providerID,
		part:     blocks.New(cfg.BlockSize),
		gate:     semaphore.NewWeighted(int64(width)),
		tasks:    tasks,
		cfg:      cfg,
		log:      log,
	}
}

// Partitioner exposes the block partitioner the engine was built with.
func (e *Engine) Partitioner() blocks.Partitioner {
	return e.part
}

// SummarizeBlock returns the summary for one block of a session's document,
// generating and memoizing it on first use. Concurrent calls for the same
// (session, block) share a single outbound generation call.
func (e *Engine) SummarizeBlock(ctx context.Context, sessionID string, blockIndex int) (*models.BlockSummary, error) {
	sess, ok := e.store.Get(sessionID)
	if !ok {
		return nil, &core.SessionNotFoundError{SessionID: sessionID}
	}

	doc := sess.Document
	total := e.part.TotalBlocks(doc.TotalPages)
	startPage, endPage, err := e.part.Range(doc.TotalPages, blockIndex)
	if err != nil {
		return nil, err
	}
	pageRange := fmt.Sprintf("%d-%d", startPage+1, endPage)

	if text, ok := sess.CachedSummary(blockIndex); ok {
		return &models.BlockSummary{
			BlockIndex:  blockIndex + 1,
			PageRange:   pageRange,
			Summary:     text,
			TotalBlocks: total,
		}, nil
	}

	key := sessionID + ":" + strconv.Itoa(blockIndex)
	v, err, _ := e.flight.Do(key, func() (interface{}, error) {
		// A previous flight may have filled the cache while we queued.
		if text, ok := sess.CachedSummary(blockIndex); ok {
			return text, nil
		}

		target := fmt.Sprintf("block %d (pages %s)", blockIndex+1, pageRange)
		pages := doc.Pages[startPage:endPage]

		parts := make([]providers.Part, 0, len(pages)+1)
		parts = append(parts, providers.TextPart(
			blockSummaryPrompt(doc.Name, blockIndex+1, startPage+1, endPage, pages)))
		parts = append(parts, imageParts(pages)...)

		started := time.Now()
		text, err := e.callProvider(ctx, e.cfg.SummaryTimeout(), target, parts)
		if err != nil {
			return nil, err
		}

		e.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"block":      blockIndex + 1,
			"elapsed":    time.Since(started).Round(time.Millisecond),
		}).Info("block summary generated")

		// The session may have been reclaimed while we were generating, in
		// which case the result is dropped on the floor.
		e.store.StoreSummary(sessionID, blockIndex, text)
		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return &models.BlockSummary{
		BlockIndex:  blockIndex + 1,
		PageRange:   pageRange,
		Summary:     v.(string),
		TotalBlocks: total,
	}, nil
}

// AdvanceToNextBlock moves the session's cursor forward and schedules
// background summarization of the new block. Advances are rate limited per
// session; reaching past the last block is a terminal outcome, not an error.
func (e *Engine) AdvanceToNextBlock(ctx context.Context, sessionID string) (*models.AdvanceOutcome, error) {
	sess, ok := e.store.Get(sessionID)
	if !ok {
		return nil, &core.SessionNotFoundError{SessionID: sessionID}
	}
	if !sess.HasProgress() {
		return nil, core.ErrNoProgress
	}

	total := e.part.TotalBlocks(sess.Document.TotalPages)
	nextBlock := sess.CurrentBlock() + 1
	if nextBlock >= total {
		return &models.AdvanceOutcome{Complete: true, TotalBlocks: total}, nil
	}

	remaining, ok := sess.Advance(nextBlock, e.cfg.AdvanceInterval(), time.Now())
	if !ok {
		return nil, &core.RateLimitedError{Remaining: remaining}
	}

	e.tasks.Submit(fmt.Sprintf("summarize %s block %d", sessionID, nextBlock), func() error {
		_, err := e.SummarizeBlock(context.Background(), sessionID, nextBlock)
		if err != nil && core.IsSessionNotFound(err) {
			return nil
		}
		return err
	})

	return &models.AdvanceOutcome{
		ProcessingBlock: nextBlock + 1,
		TotalBlocks:     total,
		IsLastBlock:     nextBlock+1 == total,
	}, nil
}

// GetCurrentSummary returns the summary of the block the session is on,
// generating it synchronously when the background task has not finished or
// has failed. The shared flight group guarantees no duplicate outbound call
// when the background generation is still running.
func (e *Engine) GetCurrentSummary(ctx context.Context, sessionID string) (*models.BlockSummary, error) {
	sess, ok := e.store.Get(sessionID)
	if !ok {
		return nil, &core.SessionNotFoundError{SessionID: sessionID}
	}
	if !sess.HasProgress() {
		return nil, core.ErrNoProgress
	}

	return e.SummarizeBlock(ctx, sessionID, sess.CurrentBlock())
}

// callProvider performs one bounded generation call: acquire the concurrency
// gate, apply the timeout, classify the failure. The gate is released no
// matter how the call ends.
func (e *Engine) callProvider(ctx context.Context, timeout time.Duration, target string, parts []providers.Part) (string, error) {
	provider := e.registry.Get(e.provider)
	if provider == nil {
		return "", &core.GenerationError{Target: target, Err: fmt.Errorf("provider %q not registered", e.provider)}
	}

	if err := e.gate.Acquire(ctx, 1); err != nil {
		return "", &core.GenerationError{Target: target, Err: err}
	}
	defer e.gate.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := provider.Generate(callCtx, providers.GenerateRequest{Parts: parts})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			e.log.WithField("target", target).Error("generation timed out")
			return "", &core.TimeoutError{Target: target}
		}
		e.log.WithError(err).WithField("target", target).Error("generation failed")
		return "", &core.GenerationError{Target: target, Err: err}
	}

	return text, nil
}
