package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/briefly/briefly-backend/internal/core"
)

// failure serializes a typed core failure into the wire shape the chat
// frontend expects. Validation and advisory failures keep a 200 status with
// success=false, mirroring the conversational error style of the endpoint;
// unknown errors become a 500.
func failure(c *fiber.Ctx, err error) error {
	switch {
	case core.IsSessionNotFound(err):
		return c.JSON(fiber.Map{
			"success": false,
			"message": "No document loaded for this session. Please upload a PDF first.",
		})
	case core.IsRateLimited(err), core.IsTimeout(err):
		return c.JSON(fiber.Map{
			"success": false,
			"message": friendly(err),
		})
	}

	var (
		blockErr   *core.BlockOutOfRangeError
		pageErr    *core.PageOutOfRangeError
		genErr     *core.GenerationError
		extractErr *core.ExtractionError
	)
	switch {
	case errors.As(err, &blockErr), errors.As(err, &pageErr), errors.As(err, &genErr):
		return c.JSON(fiber.Map{
			"success": false,
			"message": friendly(err),
		})
	case errors.As(err, &extractErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   friendly(err),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Something went wrong processing your request: " + err.Error(),
	})
}

func friendly(err error) string {
	if core.IsTimeout(err) {
		return "The request is taking too long. Please try again or ask a more specific question."
	}
	return capitalize(err.Error())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
