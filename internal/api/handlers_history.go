// handlers_history.go - Processing-history handlers
package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dataclean-pro/gateway/internal/history"
	"github.com/dataclean-pro/gateway/internal/models"
)

// HandleGetHistory fetches the user's processing records from the
// cleaning service and applies the search/status filters. The unfiltered
// snapshot replaces the local cache wholesale.
func (h *Handler) HandleGetHistory(c echo.Context) error {
	records, err := h.history.Fetch(c.Request().Context())
	if err != nil {
		return err
	}

	search := c.QueryParam("search")
	status := models.HistoryStatus(c.QueryParam("status"))

	return c.JSON(http.StatusOK, history.Filter(records, search, status))
}

func historyIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, NewValidationError("id")
	}
	return id, nil
}

// HandleDeleteHistory removes one record, server first, then the cache
func (h *Handler) HandleDeleteHistory(c echo.Context) error {
	id, err := historyIDParam(c)
	if err != nil {
		return err
	}

	if err := h.history.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	fmt.Printf("[History] record %d deleted\n", id)
	return c.NoContent(http.StatusNoContent)
}

// HandleHistoryDownload re-requests the cleaned CSV for a past record
func (h *Handler) HandleHistoryDownload(c echo.Context) error {
	id, err := historyIDParam(c)
	if err != nil {
		return err
	}

	var rec *models.HistoryRecord
	for _, r := range h.history.Records() {
		if r.ID == id {
			rec = &r
			break
		}
	}
	if rec == nil {
		return NewNotFoundError("history record", c.Param("id"))
	}

	body, name, err := h.history.Redownload(c.Request().Context(), *rec)
	if err != nil {
		return err
	}
	defer body.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().WriteHeader(http.StatusOK)

	_, err = io.Copy(c.Response(), body)
	return err
}

// HandleHistorySummary returns the aggregate counters for the summary cards
func (h *Handler) HandleHistorySummary(c echo.Context) error {
	summary, err := h.history.Summarize()
	if err != nil {
		return NewInternalError("failed to compute summary", err)
	}
	return c.JSON(http.StatusOK, summary)
}
