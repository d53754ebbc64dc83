package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/briefly/briefly-backend/internal/models"
	"github.com/briefly/briefly-backend/internal/services"
)

// GetSessionInfo returns the read-only view of a session
func GetSessionInfo(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("id")

		sess, ok := svc.Store.Get(sessionID)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Session not found",
			})
		}

		doc := sess.Document
		part := svc.Engine.Partitioner()

		return c.JSON(fiber.Map{
			"success": true,
			"sessionInfo": models.SessionInfo{
				DocumentName: doc.Name,
				TotalPages:   doc.TotalPages,
				TotalBlocks:  part.TotalBlocks(doc.TotalPages),
				CurrentBlock: sess.CurrentBlock() + 1,
				CreatedAt:    doc.CreatedAt,
			},
		})
	}
}

// DeleteSession deletes a session and everything it owns
func DeleteSession(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("id")

		if !svc.Store.Delete(sessionID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Session not found",
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Session " + sessionID + " deleted successfully",
		})
	}
}
