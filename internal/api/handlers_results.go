// handlers_results.go - Batch result handlers: listing, preview, download, export
package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tealeg/xlsx/v3"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dataclean-pro/gateway/internal/history"
	"github.com/dataclean-pro/gateway/internal/models"
	"github.com/dataclean-pro/gateway/internal/result"
)

// HandleListResults returns the results of the most recent batch
func (h *Handler) HandleListResults(c echo.Context) error {
	return c.JSON(http.StatusOK, h.results.List())
}

func (h *Handler) resultFromParam(c echo.Context) (models.ProcessingResult, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return models.ProcessingResult{}, NewValidationError("index")
	}

	res, err := h.results.Get(index)
	if err != nil {
		return models.ProcessingResult{}, NewNotFoundError("result", c.Param("index"))
	}
	return res, nil
}

// HandleResultPreview returns one result's cleaned-data preview. With
// ?format=msgpack the payload is MessagePack-encoded, which the SPA uses
// for wide tables.
func (h *Handler) HandleResultPreview(c echo.Context) error {
	res, err := h.resultFromParam(c)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"headers": res.Headers,
		"rows":    res.DataPreview,
		"total":   res.CleanedRows,
	}

	if c.QueryParam("format") == "msgpack" {
		data, err := msgpack.Marshal(payload)
		if err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(http.StatusOK, "application/msgpack", data)
	}

	return c.JSON(http.StatusOK, payload)
}

// HandleResultDownload re-submits the original staged bytes to the
// cleaning service and streams back the cleaned CSV as an attachment.
func (h *Handler) HandleResultDownload(c echo.Context) error {
	res, err := h.resultFromParam(c)
	if err != nil {
		return err
	}

	content, err := h.bytes.Open(res.FileID)
	if err != nil {
		return NewNotFoundError("file", res.FileID)
	}
	defer content.Close()

	body, err := h.remote.DownloadCSV(c.Request().Context(), res.Filename, content, res.Options)
	if err != nil {
		return err
	}
	defer body.Close()

	name := history.DownloadName(res.Filename)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().WriteHeader(http.StatusOK)

	_, err = io.Copy(c.Response(), body)
	return err
}

// HandleResultExport writes one result's summary, statistics and preview
// to an Excel workbook.
func (h *Handler) HandleResultExport(c echo.Context) error {
	res, err := h.resultFromParam(c)
	if err != nil {
		return err
	}

	wb, err := buildResultWorkbook(res)
	if err != nil {
		return NewInternalError("failed to build workbook", err)
	}

	name := fmt.Sprintf("report_%s.xlsx", res.Filename)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	return wb.Write(c.Response())
}

// buildResultWorkbook lays out three sheets: Summary, Statistics and Preview.
func buildResultWorkbook(res models.ProcessingResult) (*xlsx.File, error) {
	wb := xlsx.NewFile()

	summary, err := wb.AddSheet("Summary")
	if err != nil {
		return nil, err
	}
	addPair := func(label string, value interface{}) {
		row := summary.AddRow()
		row.AddCell().SetString(label)
		row.AddCell().SetValue(value)
	}
	addPair("Filename", res.Filename)
	addPair("Original rows", res.OriginalRows)
	addPair("Original columns", res.OriginalCols)
	addPair("Cleaned rows", res.CleanedRows)
	addPair("Duplicates removed", res.DuplicatesRemoved)
	addPair("Missing-value rows removed", res.MissingValueRowsRemoved)
	addPair("Outliers removed", res.OutliersRemoved)
	addPair("Processing time (s)", result.FormatStat(res.ProcessingTimeSeconds))
	for _, op := range res.OperationsPerformed {
		addPair("Operation", op)
	}

	stats, err := wb.AddSheet("Statistics")
	if err != nil {
		return nil, err
	}
	header := stats.AddRow()
	for _, col := range []string{"Column", "Kind", "Count", "Mean", "Std", "Min", "Max", "Unique", "Top", "Freq"} {
		header.AddCell().SetString(col)
	}
	for name, ns := range res.Statistics.Numerical {
		row := stats.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetString("numerical")
		row.AddCell().SetString(result.FormatStat(ns.Count))
		row.AddCell().SetString(result.FormatStat(ns.Mean))
		row.AddCell().SetString(result.FormatStat(ns.Std))
		row.AddCell().SetString(result.FormatStat(ns.Min))
		row.AddCell().SetString(result.FormatStat(ns.Max))
	}
	for name, cs := range res.Statistics.Categorical {
		row := stats.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetString("categorical")
		row.AddCell().SetValue(cs.Count)
		row.AddCell().SetString("")
		row.AddCell().SetString("")
		row.AddCell().SetString("")
		row.AddCell().SetString("")
		row.AddCell().SetValue(cs.Unique)
		row.AddCell().SetString(cs.Top)
		row.AddCell().SetValue(cs.Freq)
	}

	preview, err := wb.AddSheet("Preview")
	if err != nil {
		return nil, err
	}
	head := preview.AddRow()
	for _, col := range res.Headers {
		head.AddCell().SetString(col)
	}
	for _, pr := range res.DataPreview {
		row := preview.AddRow()
		for _, col := range res.Headers {
			row.AddCell().SetValue(pr[col])
		}
	}

	return wb, nil
}
