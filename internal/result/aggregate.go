// Package result normalizes the cleaning service's heterogeneous per-file
// responses into the single shape the preview UI renders. Responses may
// omit whole sections depending on which operations ran; normalization
// fills defaults so downstream code never checks for absence.
package result

import (
	"fmt"
	"strconv"

	"github.com/dataclean-pro/gateway/internal/client"
	"github.com/dataclean-pro/gateway/internal/models"
)

// opStandardized is the operation label the service appends when it
// standardized numerical columns.
const opStandardized = "Standardized Data"

// Normalize converts a raw upload response into a ProcessingResult,
// stamping it with the originating file and the options snapshot. The raw
// response is not modified.
func Normalize(raw *client.UploadResponse, fileID string, opts models.ProcessingOptions) models.ProcessingResult {
	res := models.ProcessingResult{
		Filename:              raw.Filename,
		FileID:                fileID,
		OriginalRows:          raw.OriginalRows,
		OriginalCols:          raw.OriginalCols,
		CleanedRows:           raw.CleanedRows,
		StandardizedColumns:   append([]string(nil), raw.StandardizedColumns...),
		ProcessingTimeSeconds: raw.ProcessingTimeSeconds,
		Options:               opts,
	}

	if raw.DuplicatesRemoved != nil {
		res.DuplicatesRemoved = *raw.DuplicatesRemoved
	}
	if raw.MissingValueRowsRemoved != nil {
		res.MissingValueRowsRemoved = *raw.MissingValueRowsRemoved
	}
	if raw.OutliersRemoved != nil {
		res.OutliersRemoved = *raw.OutliersRemoved
	}

	res.OperationsPerformed = append([]string{}, raw.OperationsPerformed...)
	res.Statistics = normalizeStatistics(raw.Statistics)
	res.DataPreview = append([]models.PreviewRow{}, raw.DataPreview.Rows...)
	res.Headers = headers(raw.DataPreview)
	res.QualityChecks = qualityChecks(res)

	return res
}

// normalizeStatistics returns statistics with both maps present. The raw
// maps are copied so the result owns its data.
func normalizeStatistics(raw *client.UploadStatistics) models.Statistics {
	stats := models.Statistics{
		Numerical:   make(map[string]models.NumericStats),
		Categorical: make(map[string]models.CategoricalStats),
	}
	if raw == nil {
		return stats
	}
	for col, s := range raw.Numerical {
		stats.Numerical[col] = s
	}
	for col, s := range raw.Categorical {
		stats.Categorical[col] = s
	}
	return stats
}

// headers derives table column headers from the first preview row's key
// set. An empty preview yields no headers.
func headers(preview client.Preview) []string {
	if len(preview.Rows) == 0 {
		return nil
	}
	return append([]string(nil), preview.Columns...)
}

// qualityChecks builds the data-quality lines. Duplicate and missing-value
// rows always read as resolved; outliers only warn when some were removed.
func qualityChecks(res models.ProcessingResult) []models.QualityCheck {
	checks := []models.QualityCheck{
		{
			Label: fmt.Sprintf("%d duplicates removed.", res.DuplicatesRemoved),
			Level: models.QualityOK,
		},
		{
			Label: fmt.Sprintf("%d rows with missing values removed.", res.MissingValueRowsRemoved),
			Level: models.QualityOK,
		},
	}

	outlierLevel := models.QualityOK
	if res.OutliersRemoved > 0 {
		outlierLevel = models.QualityWarn
	}
	checks = append(checks, models.QualityCheck{
		Label: fmt.Sprintf("%d potential outliers removed.", res.OutliersRemoved),
		Level: outlierLevel,
	})

	for _, op := range res.OperationsPerformed {
		if op == opStandardized {
			checks = append(checks, models.QualityCheck{
				Label: "Numerical data was standardized.",
				Level: models.QualityOK,
			})
			break
		}
	}

	return checks
}

// FormatStat renders a statistic with the fixed two-decimal precision the
// statistics view uses. Exports reuse it so numbers match across surfaces.
func FormatStat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
