package core

import (
	"errors"
	"fmt"
)

// ErrNoProgress is returned when a session exists but no block summary has
// been generated or scheduled for it yet.
var ErrNoProgress = errors.New("no block progress for this session")

// SessionNotFoundError indicates the referenced session does not exist,
// either because it never did or because it was reclaimed.
type SessionNotFoundError struct {
	SessionID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.SessionID)
}

// BlockOutOfRangeError indicates a block index outside [0, TotalBlocks).
// Block is 0-based; messages shown to users are 1-based.
type BlockOutOfRangeError struct {
	Block       int
	TotalBlocks int
}

func (e *BlockOutOfRangeError) Error() string {
	return fmt.Sprintf("block %d does not exist, the document has %d blocks", e.Block+1, e.TotalBlocks)
}

// PageOutOfRangeError indicates a 1-based page number outside [1, TotalPages].
type PageOutOfRangeError struct {
	Page       int
	TotalPages int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("page number must be between 1 and %d", e.TotalPages)
}

// RateLimitedError is advisory: the caller asked for the next block before the
// per-session minimum interval elapsed. No state was changed.
type RateLimitedError struct {
	Remaining int // whole seconds left to wait
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting the next block", e.Remaining)
}

// TimeoutError indicates a generation call exceeded its deadline. Target names
// the unit being processed, e.g. "block 2 (pages 4-6)".
type TimeoutError struct {
	Target string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generation timed out for %s", e.Target)
}

// GenerationError wraps a failure from the generation provider.
type GenerationError struct {
	Target string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
	return fmt.Sprintf("generation failed for %s: %v", e.Target, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ExtractionError wraps a failure to parse an uploaded document.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not process the PDF file: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// IsSessionNotFound reports whether err is a missing-session failure,
// including the no-progress variant.
func IsSessionNotFound(err error) bool {
	var snf *SessionNotFoundError
	return errors.As(err, &snf) || errors.Is(err, ErrNoProgress)
}

// IsTimeout reports whether err is a generation timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsRateLimited reports whether err is the advisory rate-limit outcome.
func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}
