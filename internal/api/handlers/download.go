package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/briefly/briefly-backend/internal/services"
)

type conversationItem struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type downloadRequest struct {
	Conversation []conversationItem `json:"conversation"`
	SessionID    string             `json:"sessionId"`
}

var senderLabels = map[string]string{
	"user":   "User",
	"bot":    "Briefly",
	"system": "System",
}

// DownloadConversation renders a chat transcript to a text file in the temp
// directory and returns its name for a follow-up download request.
func DownloadConversation(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req downloadRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body",
			})
		}
		if len(req.Conversation) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "There is no conversation to download",
			})
		}

		var b strings.Builder
		b.WriteString("# Conversation with Briefly PDF Assistant\n")
		fmt.Fprintf(&b, "Date: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

		if sess, ok := svc.Store.Get(req.SessionID); ok {
			doc := sess.Document
			part := svc.Engine.Partitioner()
			fmt.Fprintf(&b, "Document: %s\n", doc.Name)
			fmt.Fprintf(&b, "Pages: %d\n", doc.TotalPages)
			fmt.Fprintf(&b, "Blocks: %d\n\n", part.TotalBlocks(doc.TotalPages))
		}

		b.WriteString("## Conversation history\n\n")
		for _, item := range req.Conversation {
			ts := time.Now()
			if item.Timestamp > 0 {
				ts = time.Unix(item.Timestamp, 0)
			}
			label, ok := senderLabels[item.Sender]
			if !ok {
				label = item.Sender
			}
			fmt.Fprintf(&b, "[%s] %s: %s\n\n", ts.Format("15:04:05"), label, item.Message)
		}

		filename := fmt.Sprintf("Briefly_Conversation_%s.txt", time.Now().Format("20060102_150405"))
		dir := svc.Config.Server.TempDir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return transcriptError(c, err)
		}
		if err := os.WriteFile(filepath.Join(dir, filename), []byte(b.String()), 0o644); err != nil {
			return transcriptError(c, err)
		}

		return c.JSON(fiber.Map{
			"success":  true,
			"filename": filename,
		})
	}
}

// DownloadFile serves a previously generated transcript as an attachment.
func DownloadFile(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Base strips any path traversal from the requested name.
		filename := filepath.Base(c.Params("filename"))
		path := filepath.Join(svc.Config.Server.TempDir, filename)

		if _, err := os.Stat(path); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "File not found",
			})
		}

		return c.Download(path, filename)
	}
}

func transcriptError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Could not generate the conversation file: " + err.Error(),
	})
}
