package models

import "time"

// Page is one extracted page of an uploaded document. Image holds the
// rendered PNG of the full page, used as visual context for generation.
// Pages are immutable once extracted.
type Page struct {
	PageNumber int    `json:"pageNumber"` // 1-based
	Text       string `json:"text"`
	Image      []byte `json:"-"`
}

// Document is the per-session extracted document. Exactly one Document
// exists per session; it never changes after upload.
type Document struct {
	SessionID  string    `json:"sessionId"`
	Name       string    `json:"name"`
	TotalPages int       `json:"totalPages"`
	Pages      []Page    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SessionProgress tracks a client's walk through the document's blocks.
// Summaries is populated lazily, one write-once entry per block index.
type SessionProgress struct {
	LastBlock      int
	LastAdvancedAt time.Time
	Summaries      map[int]string
}

// BlockSummary is the result of summarizing one block. BlockIndex is 1-based
// because it is user-facing.
type BlockSummary struct {
	BlockIndex  int    `json:"blockIndex"`
	PageRange   string `json:"pageRange"`
	Summary     string `json:"summary"`
	TotalBlocks int    `json:"totalBlocks"`
}

// AdvanceOutcome reports the result of moving to the next block. Complete
// means the whole document has already been walked; it is terminal, not an
// error, and implies no generation was scheduled.
type AdvanceOutcome struct {
	Complete        bool `json:"complete"`
	ProcessingBlock int  `json:"processingBlock,omitempty"` // 1-based
	TotalBlocks     int  `json:"totalBlocks"`
	IsLastBlock     bool `json:"isLastBlock,omitempty"`
}

// SessionInfo is the read-only view of a session exposed to clients.
type SessionInfo struct {
	DocumentName string    `json:"documentName"`
	TotalPages   int       `json:"totalPages"`
	TotalBlocks  int       `json:"totalBlocks"`
	CurrentBlock int       `json:"currentBlock"` // 1-based
	CreatedAt    time.Time `json:"createdAt"`
}
