package models

import "time"

// StagedFile represents a CSV file the user has staged for processing.
// RowCount and ColumnCount come from the streaming sniff performed at
// staging time; the raw bytes live in storage under FileID.
type StagedFile struct {
	FileID      string    `json:"fileId"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	RowCount    int       `json:"rowCount"`
	ColumnCount int       `json:"columnCount"`
	StagedAt    time.Time `json:"stagedAt"`
}
