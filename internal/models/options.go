package models

// ProcessingOptions selects which cleaning operations the remote service
// applies. A snapshot is captured at submit time and shared by every file
// in the batch.
type ProcessingOptions struct {
	RemoveDuplicates bool `json:"removeDuplicates" yaml:"removeDuplicates"`
	HandleMissing    bool `json:"handleMissing" yaml:"handleMissing"`
	DetectOutliers   bool `json:"detectOutliers" yaml:"detectOutliers"`
	StandardizeData  bool `json:"standardizeData" yaml:"standardizeData"`
}

// DefaultOptions matches the upload form's initial state: every cleaning
// step enabled. Also used for history re-downloads, where the original
// options snapshot is no longer available.
func DefaultOptions() ProcessingOptions {
	return ProcessingOptions{
		RemoveDuplicates: true,
		HandleMissing:    true,
		DetectOutliers:   true,
		StandardizeData:  true,
	}
}
