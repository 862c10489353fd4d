// Package history manages the processing-history view: a read-through
// cached copy of the records the remote service owns, plus filtering,
// deletion and best-effort re-downloads.
package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dataclean-pro/gateway/internal/auth"
	"github.com/dataclean-pro/gateway/internal/client"
	"github.com/dataclean-pro/gateway/internal/models"
)

// ErrNotAuthenticated is returned when history is requested without a
// stored credential. No network call is made.
var ErrNotAuthenticated = errors.New("you are not logged in, please log in to view history")

// ErrFetchFailed wraps remote failures during fetch; the cache keeps its
// last-known-good contents.
var ErrFetchFailed = errors.New("failed to fetch processing history")

// ErrDeleteFailed wraps remote failures during delete; the record stays
// in the cache.
var ErrDeleteFailed = errors.New("failed to delete record")

// redownloadPlaceholder is sent as the file body for history re-downloads.
// The original bytes are not retained in history, only the filename; the
// service reprocesses this stand-in content.
var redownloadPlaceholder = []byte("placeholder")

// Service is the slice of the cleaning-service client the view needs.
type Service interface {
	History(ctx context.Context) ([]models.HistoryRecord, error)
	DeleteHistory(ctx context.Context, id int64) error
	DownloadCSV(ctx context.Context, filename string, content io.Reader, opts models.ProcessingOptions) (io.ReadCloser, error)
}

// View holds the cached history. The in-memory cache is authoritative for
// filtering; the optional DuckDB cache persists it across restarts and
// answers summary aggregates.
type View struct {
	mu      sync.RWMutex
	svc     Service
	session *auth.Session
	records []models.HistoryRecord
	cache   *DuckCache
}

// NewView creates a history view. cache may be nil to run memory-only.
func NewView(svc Service, session *auth.Session, cache *DuckCache) *View {
	v := &View{svc: svc, session: session, cache: cache}

	if cache != nil {
		records, err := cache.Load()
		if err != nil {
			fmt.Printf("[History] failed to warm cache from disk: %v\n", err)
		} else {
			v.records = records
		}
	}

	return v
}

// Fetch replaces the cache wholesale with the remote service's records.
// Without a credential it returns ErrNotAuthenticated and issues no
// network call; on remote failure the cache is left untouched.
func (v *View) Fetch(ctx context.Context) ([]models.HistoryRecord, error) {
	if !v.session.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	records, err := v.svc.History(ctx)
	if err != nil {
		if errors.Is(err, client.ErrSessionExpired) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	v.mu.Lock()
	v.records = records
	v.mu.Unlock()

	if v.cache != nil {
		if err := v.cache.ReplaceAll(records); err != nil {
			fmt.Printf("[History] failed to persist cache: %v\n", err)
		}
	}

	return v.Records(), nil
}

// Records returns a snapshot of the cached records.
func (v *View) Records() []models.HistoryRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]models.HistoryRecord, len(v.records))
	copy(out, v.records)
	return out
}

// Delete removes a record remotely, then from the cache. The cache is
// only touched after the server confirms.
func (v *View) Delete(ctx context.Context, id int64) error {
	if err := v.svc.DeleteHistory(ctx, id); err != nil {
		if errors.Is(err, client.ErrSessionExpired) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	v.mu.Lock()
	kept := v.records[:0]
	for _, rec := range v.records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	v.records = kept
	v.mu.Unlock()

	if v.cache != nil {
		if err := v.cache.Delete(id); err != nil {
			fmt.Printf("[History] failed to delete %d from cache: %v\n", id, err)
		}
	}

	return nil
}

// Redownload reconstructs a download request for a past record. Only the
// filename survives in history, so a placeholder body and the default
// options snapshot are resent. Returns the cleaned CSV stream and the
// attachment name.
func (v *View) Redownload(ctx context.Context, rec models.HistoryRecord) (io.ReadCloser, string, error) {
	body, err := v.svc.DownloadCSV(ctx, rec.Filename, bytes.NewReader(redownloadPlaceholder), models.DefaultOptions())
	if err != nil {
		return nil, "", err
	}
	return body, DownloadName(rec.Filename), nil
}

// DownloadName returns the attachment filename for a cleaned file.
func DownloadName(original string) string {
	return "cleaned_" + original
}

// Filter returns the records whose filename contains search
// (case-insensitive) and whose status matches exactly. The "all" sentinel
// (or empty status) matches every status. Filter is pure and idempotent.
func Filter(records []models.HistoryRecord, search string, status models.HistoryStatus) []models.HistoryRecord {
	search = strings.ToLower(search)

	out := make([]models.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if search != "" && !strings.Contains(strings.ToLower(rec.Filename), search) {
			continue
		}
		if status != "" && status != models.HistoryStatusAll && rec.Status != status {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Summary holds the aggregate cards shown above the history table.
type Summary struct {
	Completed   int `json:"completed"`
	Processing  int `json:"processing"`
	Failed      int `json:"failed"`
	TotalRows   int `json:"totalRows"`
	CleanedRows int `json:"cleanedRows"`
}

// Summarize computes the aggregates. The DuckDB cache answers when
// present; otherwise the in-memory records are folded directly.
func (v *View) Summarize() (Summary, error) {
	if v.cache != nil {
		return v.cache.Summary()
	}

	var s Summary
	for _, rec := range v.Records() {
		switch rec.Status {
		case models.HistoryStatusCompleted:
			s.Completed++
		case models.HistoryStatusProcessing:
			s.Processing++
		case models.HistoryStatusFailed:
			s.Failed++
		}
		s.TotalRows += rec.Summary.OriginalRows
		s.CleanedRows += rec.Summary.CleanedRows
	}
	return s, nil
}
