package models

// Field names follow the remote cleaning service's wire format (snake_case)
// so results can be passed through to the SPA unchanged.

// NumericStats holds the per-column descriptive statistics the service
// computes for numeric columns.
type NumericStats struct {
	Count float64 `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// CategoricalStats holds the per-column statistics for text columns.
type CategoricalStats struct {
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top"`
	Freq   int    `json:"freq"`
}

// Statistics groups column statistics by kind. Both maps are always
// non-nil after normalization, even when the service omitted the section.
type Statistics struct {
	Numerical   map[string]NumericStats     `json:"numerical"`
	Categorical map[string]CategoricalStats `json:"categorical"`
}

// PreviewRow is one row of the cleaned-data preview, column -> value.
type PreviewRow map[string]any

// QualityLevel classifies a quality check for display.
type QualityLevel string

const (
	QualityOK   QualityLevel = "ok"
	QualityWarn QualityLevel = "warn"
)

// QualityCheck is one line of the data-quality view.
type QualityCheck struct {
	Label string       `json:"label"`
	Level QualityLevel `json:"level"`
}

// ProcessingResult is the normalized per-file outcome of a batch
// submission. FileID and Options point back at the originating staged
// file and the options snapshot so the cleaned file can be re-downloaded.
type ProcessingResult struct {
	Filename                string            `json:"filename"`
	FileID                  string            `json:"fileId"`
	OriginalRows            int               `json:"original_rows"`
	OriginalCols            int               `json:"original_cols"`
	CleanedRows             int               `json:"cleaned_rows"`
	DuplicatesRemoved       int               `json:"duplicates_removed"`
	MissingValueRowsRemoved int               `json:"missing_value_rows_removed"`
	OutliersRemoved         int               `json:"outliers_removed"`
	StandardizedColumns     []string          `json:"standardized_columns,omitempty"`
	OperationsPerformed     []string          `json:"operations_performed"`
	ProcessingTimeSeconds   float64           `json:"processing_time_seconds"`
	Statistics              Statistics        `json:"statistics"`
	DataPreview             []PreviewRow      `json:"data_preview"`
	Headers                 []string          `json:"headers"`
	QualityChecks           []QualityCheck    `json:"quality_checks"`
	Options                 ProcessingOptions `json:"options"`
}
