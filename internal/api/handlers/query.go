package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/briefly/briefly-backend/internal/core"
	"github.com/briefly/briefly-backend/internal/services"
)

var (
	blockQueryRe = regexp.MustCompile(`(?i)^block\s+(\d+)\s*:\s*(.+)$`)
	pageQueryRe  = regexp.MustCompile(`(?i)^page\s+(\d+)\s*:\s*(.+)$`)
)

// Query is the main chat endpoint. A multipart file starts a new session;
// otherwise the query text is dispatched as a command ("get summary",
// "next block", "block N: ...", "page N: ...") or a general question.
func Query(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := strings.TrimSpace(c.FormValue("query"))
		sessionID := c.FormValue("sessionId")

		if file, err := c.FormFile("files"); err == nil && file != nil {
			return handleUpload(c, svc, file)
		}

		if query == "" && sessionID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "a query, a file or a session ID is required",
			})
		}

		if sessionID != "" {
			if strings.EqualFold(query, "get summary") {
				return handleCurrentSummary(c, svc, sessionID)
			}
			if strings.EqualFold(query, "next block") {
				return handleNextBlock(c, svc, sessionID)
			}
			if m := blockQueryRe.FindStringSubmatch(query); m != nil {
				return handleBlockQuery(c, svc, sessionID, m[1], m[2])
			}
			if m := pageQueryRe.FindStringSubmatch(query); m != nil {
				return handlePageQuery(c, svc, sessionID, m[1], m[2])
			}
		}

		answer, err := svc.Engine.GeneralQuery(c.Context(), query)
		if err != nil {
			return failure(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": answer,
		})
	}
}

func handleUpload(c *fiber.Ctx, svc *services.Services, file *multipart.FileHeader) error {
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "only PDF files are allowed",
		})
	}
	if svc.Config.Upload.MaxBytes > 0 && file.Size > int64(svc.Config.Upload.MaxBytes) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"success": false,
			"error":   "file is too large",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "could not read the uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "could not read the uploaded file",
		})
	}

	doc, err := svc.Extractor.Extract(c.Context(), file.Filename, data)
	if err != nil {
		return failure(c, err)
	}

	sess := svc.Store.Create(doc)
	totalBlocks := svc.Engine.Partitioner().TotalBlocks(doc.TotalPages)
	sessionID := sess.Document.SessionID

	// Kick off the first block's summary; the client polls it via
	// "get summary" once this first message is on screen.
	svc.Tasks.Submit(fmt.Sprintf("summarize %s block 0", sessionID), func() error {
		_, err := svc.Engine.SummarizeBlock(context.Background(), sessionID, 0)
		if err != nil && core.IsSessionNotFound(err) {
			return nil
		}
		return err
	})

	message := fmt.Sprintf("PDF %q loaded successfully. %d pages in %d blocks.\n\n", file.Filename, doc.TotalPages, totalBlocks)
	message += fmt.Sprintf("Processing Block 1 (of %d)...\n", totalBlocks)
	message += `To see the following blocks, type "next block" after receiving each summary.`

	return c.JSON(fiber.Map{
		"success":         true,
		"message":         message,
		"sessionId":       sessionID,
		"totalPages":      doc.TotalPages,
		"totalBlocks":     totalBlocks,
		"processingBlock": 1,
	})
}

func handleCurrentSummary(c *fiber.Ctx, svc *services.Services, sessionID string) error {
	summary, err := svc.Engine.GetCurrentSummary(c.Context(), sessionID)
	if err != nil {
		return failure(c, err)
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"message":        summary.Summary,
		"block":          summary.BlockIndex,
		"totalBlocks":    summary.TotalBlocks,
		"isBlockSummary": true,
	})
}

func handleNextBlock(c *fiber.Ctx, svc *services.Services, sessionID string) error {
	outcome, err := svc.Engine.AdvanceToNextBlock(c.Context(), sessionID)
	if err != nil {
		return failure(c, err)
	}

	if outcome.Complete {
		return c.JSON(fiber.Map{
			"success":  true,
			"message":  "You have reached the end of the document. All available blocks have been processed.",
			"complete": true,
		})
	}

	message := fmt.Sprintf("Processing Block %d (of %d)...\n", outcome.ProcessingBlock, outcome.TotalBlocks)
	if outcome.IsLastBlock {
		message += "This is the last block of the document."
	} else {
		message += `To see the next block after this one, type "next block" again.`
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"message":         message,
		"processingBlock": outcome.ProcessingBlock,
		"totalBlocks":     outcome.TotalBlocks,
	})
}

func handleBlockQuery(c *fiber.Ctx, svc *services.Services, sessionID, number, question string) error {
	blockNumber, err := strconv.Atoi(number)
	if err != nil {
		return failure(c, err)
	}

	answer, err := svc.Engine.QueryBlock(c.Context(), sessionID, blockNumber-1, strings.TrimSpace(question))
	if err != nil {
		return failure(c, err)
	}

	sess, ok := svc.Store.Get(sessionID)
	if !ok {
		// Reaped between the answer and now; the answer is still good.
		return c.JSON(fiber.Map{"success": true, "message": answer, "block": blockNumber})
	}
	part := svc.Engine.Partitioner()
	startPage, endPage, _ := part.Range(sess.Document.TotalPages, blockNumber-1)

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      answer,
		"block":        blockNumber,
		"pageRange":    fmt.Sprintf("%d-%d", startPage+1, endPage),
		"documentName": sess.Document.Name,
		"totalBlocks":  part.TotalBlocks(sess.Document.TotalPages),
	})
}

func handlePageQuery(c *fiber.Ctx, svc *services.Services, sessionID, number, question string) error {
	pageNumber, err := strconv.Atoi(number)
	if err != nil {
		return failure(c, err)
	}

	answer, err := svc.Engine.QueryPage(c.Context(), sessionID, pageNumber, strings.TrimSpace(question))
	if err != nil {
		return failure(c, err)
	}

	resp := fiber.Map{
		"success": true,
		"message": answer,
		"page":    pageNumber,
	}
	if sess, ok := svc.Store.Get(sessionID); ok {
		resp["documentName"] = sess.Document.Name
	}
	return c.JSON(resp)
}
