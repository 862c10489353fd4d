// handlers_staging.go - Staged-file handlers: add, list, remove
package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dataclean-pro/gateway/internal/models"
	"github.com/dataclean-pro/gateway/internal/sniff"
)

// HandleStageFile accepts a CSV file (multipart/form-data), validates it
// with a streaming sniff and adds it to the staging set. Files that fail
// the sniff are rejected and never stored.
func (h *Handler) HandleStageFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".csv") {
		return NewBadRequestError("only .csv files can be staged", nil)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	shape, err := sniff.Sniff(src)
	if err != nil {
		return err
	}

	// Re-read from the start for storage.
	if _, err := src.Seek(0, 0); err != nil {
		return NewInternalError("failed to rewind uploaded file", err)
	}

	id, size, err := h.bytes.Save(file.Filename, src)
	if err != nil {
		return NewInternalError("failed to store file", err)
	}

	staged := &models.StagedFile{
		FileID:      id,
		Name:        file.Filename,
		Size:        size,
		RowCount:    shape.Rows,
		ColumnCount: shape.Columns,
		StagedAt:    time.Now(),
	}
	h.staging.Add(staged)

	fmt.Printf("[Staging %s] %s staged (%d rows, %d cols, %d bytes)\n",
		id[:8], staged.Name, shape.Rows, shape.Columns, size)

	return c.JSON(http.StatusCreated, staged)
}

// HandleListStaged returns the staged files in insertion order
func (h *Handler) HandleListStaged(c echo.Context) error {
	return c.JSON(http.StatusOK, h.staging.List())
}

// HandleUnstageFile removes a staged file by name
func (h *Handler) HandleUnstageFile(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return NewValidationError("name")
	}

	h.staging.Remove(name)
	return c.NoContent(http.StatusNoContent)
}

// HandleClearStaged empties the staging set
func (h *Handler) HandleClearStaged(c echo.Context) error {
	for _, f := range h.staging.List() {
		h.staging.Remove(f.Name)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleGetPresets returns the configured option presets
func (h *Handler) HandleGetPresets(c echo.Context) error {
	return c.JSON(http.StatusOK, h.presets)
}
