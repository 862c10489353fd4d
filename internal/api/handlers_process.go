// handlers_process.go - Batch submission handler
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dataclean-pro/gateway/internal/client"
	"github.com/dataclean-pro/gateway/internal/models"
)

// HandleProcess submits every staged file to the cleaning service with a
// shared options snapshot and waits for the whole batch to settle.
// Per-file progress is pushed over the WebSocket hub while the request
// blocks. On success the staging set is cleared and the index-aligned
// results are returned; on failure staged files stay put so the user can
// retry.
func (h *Handler) HandleProcess(c echo.Context) error {
	var opts models.ProcessingOptions
	if err := c.Bind(&opts); err != nil {
		return NewBadRequestError("invalid options body", err)
	}

	staged := h.staging.List()
	start := time.Now()

	fmt.Printf("[Process] submitting batch of %d file(s)\n", len(staged))

	results, err := h.submitter.Submit(c.Request().Context(), staged, opts, func(done, total int, filename string, ferr error) {
		h.hub.BroadcastProgress(done, total, filename, ferr)
	})
	if err != nil {
		h.hub.BroadcastBatchError(err.Error())
		return err
	}

	// Guard against a session torn down while the batch was in flight:
	// results referencing a dead session are discarded, not displayed.
	if !h.session.Authenticated() {
		h.hub.BroadcastBatchError("session expired, please log in again")
		return client.ErrSessionExpired
	}

	h.results.Replace(results)
	h.staging.Clear()
	h.hub.BroadcastBatchComplete(len(results))

	fmt.Printf("[Process] batch of %d file(s) completed in %.2fs\n",
		len(results), time.Since(start).Seconds())

	return c.JSON(http.StatusOK, results)
}
