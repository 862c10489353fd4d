// Package submit runs batch submissions: one concurrent upload per staged
// file, settled all together, with results re-associated to their source
// files by index rather than by arrival order.
package submit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dataclean-pro/gateway/internal/auth"
	"github.com/dataclean-pro/gateway/internal/client"
	"github.com/dataclean-pro/gateway/internal/models"
	"github.com/dataclean-pro/gateway/internal/result"
	"github.com/dataclean-pro/gateway/internal/storage"
)

// ErrAuthRequired is returned before any request is issued when no
// credential is stored.
var ErrAuthRequired = errors.New("authentication required, please log in")

// ErrNothingStaged is returned when the staging set is empty.
var ErrNothingStaged = errors.New("no files staged for processing")

// genericFailure is shown when the service supplied no error detail.
const genericFailure = "An error occurred during processing."

// Outcome is the per-file disposition of a batch. Err is nil for files
// whose submission succeeded, even when the batch as a whole failed.
type Outcome struct {
	Index    int
	Filename string
	Err      error
}

// Error reports a failed batch. Successful submissions in the same batch
// are not rolled back server-side; Outcomes preserves the per-file
// dispositions for logging and the progress stream.
type Error struct {
	Detail   string
	Outcomes []Outcome
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return genericFailure
}

// Uploader is the slice of the service client a batch needs.
type Uploader interface {
	Upload(ctx context.Context, filename string, content io.Reader, opts models.ProcessingOptions) (*client.UploadResponse, error)
}

// ProgressFunc is invoked once per settled submission, under the
// submitter's lock; done counts settled files.
type ProgressFunc func(done, total int, filename string, err error)

// Submitter submits staged batches to the cleaning service.
type Submitter struct {
	uploader Uploader
	bytes    storage.Store
	session  *auth.Session
}

// New creates a Submitter.
func New(uploader Uploader, bytes storage.Store, session *auth.Session) *Submitter {
	return &Submitter{uploader: uploader, bytes: bytes, session: session}
}

// Submit sends every staged file with the shared options snapshot and
// waits for all submissions to settle. On success the returned slice is
// index-aligned with staged. On any failure it returns an *Error carrying
// the first server-supplied detail (session expiry takes precedence);
// partial results are discarded.
//
// Submissions run one goroutine per file with no explicit cap; the
// transport's connection limits provide the bound.
func (s *Submitter) Submit(ctx context.Context, staged []*models.StagedFile, opts models.ProcessingOptions, progress ProgressFunc) ([]models.ProcessingResult, error) {
	if len(staged) == 0 {
		return nil, ErrNothingStaged
	}
	if !s.session.Authenticated() {
		return nil, ErrAuthRequired
	}

	results := make([]models.ProcessingResult, len(staged))
	outcomes := make([]Outcome, len(staged))

	var (
		mu   sync.Mutex
		done int
		wg   sync.WaitGroup
	)

	for i, f := range staged {
		wg.Add(1)
		go func(i int, f *models.StagedFile) {
			defer wg.Done()

			err := s.submitOne(ctx, i, f, opts, results)

			mu.Lock()
			outcomes[i] = Outcome{Index: i, Filename: f.Name, Err: err}
			done++
			settled := done
			mu.Unlock()

			if progress != nil {
				progress(settled, len(staged), f.Name, err)
			}
		}(i, f)
	}
	wg.Wait()

	if err := batchError(outcomes); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Submitter) submitOne(ctx context.Context, i int, f *models.StagedFile, opts models.ProcessingOptions, results []models.ProcessingResult) error {
	content, err := s.bytes.Open(f.FileID)
	if err != nil {
		return fmt.Errorf("opening staged file %q: %w", f.Name, err)
	}
	defer content.Close()

	resp, err := s.uploader.Upload(ctx, f.Name, content, opts)
	if err != nil {
		return err
	}

	// Each goroutine writes only its own index; no lock needed.
	results[i] = result.Normalize(resp, f.FileID, opts)
	return nil
}

// batchError collapses per-file outcomes into the single user-facing
// failure. Session expiry overrides everything else so the global
// teardown wins over inline error display.
func batchError(outcomes []Outcome) error {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	if len(failed) == 0 {
		return nil
	}

	detail := ""
	for _, o := range failed {
		if errors.Is(o.Err, client.ErrSessionExpired) {
			return client.ErrSessionExpired
		}
		var remoteErr *client.RemoteError
		if detail == "" && errors.As(o.Err, &remoteErr) && remoteErr.Detail != "" {
			detail = remoteErr.Detail
		}
	}

	return &Error{Detail: detail, Outcomes: outcomes}
}
