package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/yt-transcribe/internal/storage"
)

const defaultHistoryLimit = 50

// HistoryHandler serves GET /api/history.
type HistoryHandler struct {
	history *storage.HistoryDB
}

// NewHistoryHandler creates the history handler.
func NewHistoryHandler(history *storage.HistoryDB) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// Handle lists recent pipeline invocations, newest first.
func (h *HistoryHandler) Handle(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit < 1 || limit > 500 {
		limit = defaultHistoryLimit
	}

	entries, err := h.history.List(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entries)
}
