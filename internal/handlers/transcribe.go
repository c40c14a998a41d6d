package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/yt-transcribe/internal/apperr"
	"github.com/codebuildervaibhav/yt-transcribe/internal/resolver"
	"github.com/codebuildervaibhav/yt-transcribe/internal/storage"
	"github.com/codebuildervaibhav/yt-transcribe/internal/types"
)

// Runner executes one transcription pipeline invocation.
type Runner interface {
	Run(ctx context.Context, id, url string) (*types.Result, error)
}

// TranscribeHandler serves GET /api/transcribe.
type TranscribeHandler struct {
	pipeline Runner
	history  *storage.HistoryDB
	strategy string
}

// NewTranscribeHandler creates the transcribe handler. history may be nil to
// disable request recording.
func NewTranscribeHandler(pipeline Runner, history *storage.HistoryDB, strategy string) *TranscribeHandler {
	return &TranscribeHandler{
		pipeline: pipeline,
		history:  history,
		strategy: strategy,
	}
}

// Handle runs the pipeline for ?id= / ?url= and writes the terminal result.
func (h *TranscribeHandler) Handle(c *fiber.Ctx) error {
	id := c.Query("id")
	url := c.Query("url")

	start := time.Now()
	result, err := h.pipeline.Run(c.UserContext(), id, url)
	elapsed := time.Since(start)

	if err != nil {
		kind := apperr.KindOf(err)
		log.Printf("Request failed (%s) after %s: %v", kind, elapsed.Round(time.Millisecond), err)
		h.record(storage.Entry{
			VideoID:    historyVideoID(id, url),
			Strategy:   h.strategy,
			Status:     string(kind),
			Error:      err.Error(),
			DurationMS: elapsed.Milliseconds(),
		})
		return c.Status(kind.StatusCode()).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("Transcribed %s (%q) in %s", result.Video.ID, result.Video.Title,
		elapsed.Round(time.Millisecond))
	h.record(storage.Entry{
		VideoID:    result.Video.ID,
		Title:      result.Video.Title,
		Strategy:   h.strategy,
		Status:     "ok",
		DurationMS: elapsed.Milliseconds(),
	})

	return c.JSON(result)
}

// record persists a history entry best-effort; a failed insert never fails
// the request.
func (h *TranscribeHandler) record(e storage.Entry) {
	if h.history == nil {
		return
	}
	if err := h.history.Record(e); err != nil {
		log.Printf("Failed to record request history: %v", err)
	}
}

// historyVideoID resolves the canonical id for the history row when possible,
// falling back to the raw input.
func historyVideoID(id, url string) string {
	if ref, err := resolver.Resolve(id, url); err == nil {
		return ref.ID
	}
	if id != "" {
		return id
	}
	return url
}
