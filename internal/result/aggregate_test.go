package result

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataclean-pro/gateway/internal/client"
	"github.com/dataclean-pro/gateway/internal/models"
	"github.com/dataclean-pro/gateway/internal/testutil"
)

func intPtr(i int) *int { return &i }

func fullResponse(t *testing.T) *client.UploadResponse {
	t.Helper()

	// Decoded from JSON so preview column order is captured the way the
	// client sees it on the wire.
	raw := `{
		"filename": "people.csv",
		"original_rows": 120,
		"original_cols": 4,
		"cleaned_rows": 115,
		"duplicates_removed": 3,
		"missing_value_rows_removed": 2,
		"outliers_removed": 5,
		"standardized_columns": ["age", "salary"],
		"operations_performed": ["Removed Duplicates", "Handled Missing Values", "Removed Outliers", "Standardized Data"],
		"processing_time_seconds": 0.42,
		"statistics": {
			"numerical": {"age": {"count": 115, "mean": 34.5, "std": 8.2, "min": 18, "max": 65}},
			"categorical": {"city": {"count": 115, "unique": 12, "top": "Austin", "freq": 31}}
		},
		"data_preview": [
			{"name": "Ada", "age": 36, "city": "Austin", "salary": 98000},
			{"name": "Ben", "age": 29, "city": "Denver", "salary": 72000}
		]
	}`

	var resp client.UploadResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	return &resp
}

func TestNormalizeFullResponse(t *testing.T) {
	opts := models.DefaultOptions()
	res := Normalize(fullResponse(t), "file-1", opts)

	assert.Equal(t, "people.csv", res.Filename)
	assert.Equal(t, "file-1", res.FileID)
	assert.Equal(t, 120, res.OriginalRows)
	assert.Equal(t, 115, res.CleanedRows)
	assert.Equal(t, 3, res.DuplicatesRemoved)
	assert.Equal(t, 2, res.MissingValueRowsRemoved)
	assert.Equal(t, 5, res.OutliersRemoved)
	assert.Equal(t, opts, res.Options)

	// Headers follow the wire order of the first preview row.
	assert.Equal(t, []string{"name", "age", "city", "salary"}, res.Headers)
	assert.Len(t, res.DataPreview, 2)

	assert.Contains(t, res.Statistics.Numerical, "age")
	assert.Contains(t, res.Statistics.Categorical, "city")
}

func TestNormalizeSparseResponse(t *testing.T) {
	// Only deduplication ran; everything else is absent.
	raw := &client.UploadResponse{
		Filename:            "slim.csv",
		OriginalRows:        10,
		OriginalCols:        2,
		CleanedRows:         9,
		DuplicatesRemoved:   intPtr(1),
		OperationsPerformed: []string{"Removed Duplicates"},
	}

	res := Normalize(raw, "file-2", models.ProcessingOptions{RemoveDuplicates: true})

	assert.Equal(t, 1, res.DuplicatesRemoved)
	assert.Equal(t, 0, res.MissingValueRowsRemoved)
	assert.Equal(t, 0, res.OutliersRemoved)

	// Maps are present even when the service omitted the section.
	assert.NotNil(t, res.Statistics.Numerical)
	assert.NotNil(t, res.Statistics.Categorical)
	assert.Empty(t, res.Statistics.Numerical)

	// No preview rows means no headers.
	assert.Nil(t, res.Headers)
	assert.Empty(t, res.DataPreview)
}

func TestNormalizeDoesNotShareRawState(t *testing.T) {
	raw := fullResponse(t)
	res := Normalize(raw, "file-3", models.DefaultOptions())

	res.OperationsPerformed[0] = "mutated"
	res.Statistics.Numerical["age"] = models.NumericStats{}

	assert.Equal(t, "Removed Duplicates", raw.OperationsPerformed[0])
	assert.Equal(t, 34.5, raw.Statistics.Numerical["age"].Mean)
}

func TestQualityChecks(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*client.UploadResponse)
		wantLabels []string
		wantWarn   bool
	}{
		{
			name:   "outliers removed warns",
			mutate: func(r *client.UploadResponse) {},
			wantLabels: []string{
				"3 duplicates removed.",
				"2 rows with missing values removed.",
				"5 potential outliers removed.",
				"Numerical data was standardized.",
			},
			wantWarn: true,
		},
		{
			name: "zero outliers stays ok",
			mutate: func(r *client.UploadResponse) {
				r.OutliersRemoved = intPtr(0)
			},
			wantLabels: []string{
				"3 duplicates removed.",
				"2 rows with missing values removed.",
				"0 potential outliers removed.",
				"Numerical data was standardized.",
			},
		},
		{
			name: "no standardization drops the line",
			mutate: func(r *client.UploadResponse) {
				r.OperationsPerformed = []string{"Removed Duplicates"}
				r.OutliersRemoved = intPtr(0)
			},
			wantLabels: []string{
				"3 duplicates removed.",
				"2 rows with missing values removed.",
				"0 potential outliers removed.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := fullResponse(t)
			tt.mutate(raw)

			res := Normalize(raw, "f", models.DefaultOptions())

			labels := []string{}
			warned := false
			for _, check := range res.QualityChecks {
				labels = append(labels, check.Label)
				if check.Level == models.QualityWarn {
					warned = true
				}
			}
			assert.Equal(t, tt.wantLabels, labels)
			assert.Equal(t, tt.wantWarn, warned)
		})
	}
}

func TestFormatStat(t *testing.T) {
	assert.Equal(t, "34.50", FormatStat(34.5))
	assert.Equal(t, "0.00", FormatStat(0))
	assert.Equal(t, "12345.68", FormatStat(12345.6789))
	assert.Equal(t, "-1.25", FormatStat(-1.25))
}

func TestStore(t *testing.T) {
	bytes := testutil.NewMockByteStore()
	s := NewStore(bytes)
	assert.Equal(t, 0, s.Len())

	_, err := s.Get(0)
	assert.Error(t, err)

	bytes.AddFile("id-a", []byte("a"))
	bytes.AddFile("id-b", []byte("b"))
	s.Replace([]models.ProcessingResult{
		{Filename: "a.csv", FileID: "id-a"},
		{Filename: "b.csv", FileID: "id-b"},
	})
	assert.Equal(t, 2, s.Len())

	res, err := s.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, "b.csv", res.Filename)

	_, err = s.Get(2)
	assert.Error(t, err)
	_, err = s.Get(-1)
	assert.Error(t, err)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, bytes.FileCount())
}

func TestStoreReplaceReleasesDisplacedBytes(t *testing.T) {
	bytes := testutil.NewMockByteStore()
	s := NewStore(bytes)

	bytes.AddFile("id-old", []byte("old"))
	s.Replace([]models.ProcessingResult{{Filename: "old.csv", FileID: "id-old"}})
	assert.Equal(t, 1, bytes.FileCount())

	bytes.AddFile("id-new", []byte("new"))
	s.Replace([]models.ProcessingResult{{Filename: "new.csv", FileID: "id-new"}})

	assert.Equal(t, 1, bytes.FileCount())
	_, err := bytes.Open("id-old")
	assert.Error(t, err)
	_, err = bytes.Open("id-new")
	assert.NoError(t, err)
}
