package models

import "time"

// HistoryStatus represents the server-side status of a processing record.
type HistoryStatus string

const (
	HistoryStatusCompleted  HistoryStatus = "completed"
	HistoryStatusProcessing HistoryStatus = "processing"
	HistoryStatusFailed     HistoryStatus = "failed"

	// HistoryStatusAll is the filter sentinel matching every status.
	HistoryStatusAll HistoryStatus = "all"
)

// HistorySummary is the per-record summary the service stores alongside
// each processing run.
type HistorySummary struct {
	OriginalRows          int     `json:"original_rows"`
	CleanedRows           int     `json:"cleaned_rows"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
}

// HistoryRecord is one past processing run, owned by the remote service.
// The gateway only holds a read-through cached copy.
type HistoryRecord struct {
	ID         int64          `json:"id"`
	Filename   string         `json:"filename"`
	UploadDate time.Time      `json:"upload_date"`
	Status     HistoryStatus  `json:"status"`
	Summary    HistorySummary `json:"summary"`
}
