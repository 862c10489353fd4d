package client

import "github.com/dataclean-pro/gateway/internal/models"

// UploadResponse is the raw per-file payload from POST /api/upload. The
// service omits sections for operations that did not run, so most fields
// are optional; the result package fills in defaults. Decoding happens
// exactly once, here at the service boundary.
type UploadResponse struct {
	Filename                string            `json:"filename"`
	User                    string            `json:"user,omitempty"`
	OriginalRows            int               `json:"original_rows"`
	OriginalCols            int               `json:"original_cols"`
	CleanedRows             int               `json:"cleaned_rows"`
	DuplicatesRemoved       *int              `json:"duplicates_removed,omitempty"`
	MissingValueRowsRemoved *int              `json:"missing_value_rows_removed,omitempty"`
	OutliersRemoved         *int              `json:"outliers_removed,omitempty"`
	StandardizedColumns     []string          `json:"standardized_columns,omitempty"`
	OperationsPerformed     []string          `json:"operations_performed,omitempty"`
	ProcessingTimeSeconds   float64           `json:"processing_time_seconds"`
	Statistics              *UploadStatistics `json:"statistics,omitempty"`
	DataPreview             Preview           `json:"data_preview,omitempty"`
}

// UploadStatistics is the optional statistics section of an upload
// response. Either map may be nil or empty.
type UploadStatistics struct {
	Numerical   map[string]models.NumericStats     `json:"numerical,omitempty"`
	Categorical map[string]models.CategoricalStats `json:"categorical,omitempty"`
}
