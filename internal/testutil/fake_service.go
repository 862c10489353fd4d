// fake_service.go - An httptest stand-in for the remote cleaning service
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dataclean-pro/gateway/internal/models"
)

// FakeService mimics the cleaning service's HTTP surface: bearer auth,
// multipart uploads, {"detail": "..."} error bodies.
type FakeService struct {
	*httptest.Server

	mu sync.Mutex

	// Token is the only credential the fake accepts. Empty rejects all
	// authenticated calls with 401.
	Token string

	// FailUploads maps a filename to the error detail its upload returns
	// (HTTP 400). Other uploads succeed.
	FailUploads map[string]string

	// UploadDelay stalls each named upload, for ordering tests.
	UploadDelay map[string]time.Duration

	// Records is served by /api/history.
	Records []models.HistoryRecord

	// Uploads records filenames in arrival order.
	Uploads []string

	// Deleted records history IDs removed via DELETE.
	Deleted []int64
}

// NewFakeService starts the fake with a valid token.
func NewFakeService() *FakeService {
	f := &FakeService{
		Token:       "test-token",
		FailUploads: make(map[string]string),
		UploadDelay: make(map[string]time.Duration),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.route))
	return f
}

func (f *FakeService) detail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}

func (f *FakeService) authorized(r *http.Request) bool {
	f.mu.Lock()
	token := f.Token
	f.mu.Unlock()
	return token != "" && r.Header.Get("Authorization") == "Bearer "+token
}

func (f *FakeService) route(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/login" && r.Method == http.MethodPost:
		f.handleLogin(w, r)
	case r.URL.Path == "/api/register" && r.Method == http.MethodPost:
		w.WriteHeader(http.StatusCreated)
	case r.URL.Path == "/api/upload" && r.Method == http.MethodPost:
		f.handleUpload(w, r)
	case r.URL.Path == "/api/download/csv" && r.Method == http.MethodPost:
		f.handleDownload(w, r)
	case r.URL.Path == "/api/history" && r.Method == http.MethodGet:
		f.handleHistory(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/history/") && r.Method == http.MethodDelete:
		f.handleDeleteHistory(w, r)
	case r.URL.Path == "/api/users/me" && r.Method == http.MethodGet:
		f.handleMe(w, r)
	default:
		f.detail(w, http.StatusNotFound, "not found")
	}
}

func (f *FakeService) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		f.detail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if creds.Password == "wrong" {
		f.detail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	f.mu.Lock()
	token := f.Token
	f.mu.Unlock()

	json.NewEncoder(w).Encode(map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (f *FakeService) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		f.detail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		f.detail(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		f.detail(w, http.StatusBadRequest, "file part missing")
		return
	}
	file.Close()
	name := header.Filename

	f.mu.Lock()
	delay := f.UploadDelay[name]
	failDetail, failing := f.FailUploads[name]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	f.Uploads = append(f.Uploads, name)
	f.mu.Unlock()

	if failing {
		f.detail(w, http.StatusBadRequest, failDetail)
		return
	}

	json.NewEncoder(w).Encode(SampleUploadBody(name))
}

func (f *FakeService) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		f.detail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	fmt.Fprint(w, "a,b\n1,2\n")
}

func (f *FakeService) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		f.detail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	f.mu.Lock()
	records := f.Records
	f.mu.Unlock()

	if records == nil {
		records = []models.HistoryRecord{}
	}
	json.NewEncoder(w).Encode(records)
}

func (f *FakeService) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		f.detail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/history/"), 10, 64)
	if err != nil {
		f.detail(w, http.StatusBadRequest, "invalid id")
		return
	}

	f.mu.Lock()
	f.Deleted = append(f.Deleted, id)
	f.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeService) handleMe(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		f.detail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"username": "tester"})
}

// Expire invalidates the fake's token so every subsequent authenticated
// call returns 401.
func (f *FakeService) Expire() {
	f.mu.Lock()
	f.Token = ""
	f.mu.Unlock()
}

// DeletedIDs returns the history IDs removed so far, in arrival order.
func (f *FakeService) DeletedIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int64, len(f.Deleted))
	copy(out, f.Deleted)
	return out
}

// UploadedFiles returns the filenames received so far, in arrival order.
func (f *FakeService) UploadedFiles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Uploads))
	copy(out, f.Uploads)
	return out
}

// SampleUploadBody builds a realistic upload response payload for name.
func SampleUploadBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"filename":                   name,
		"original_rows":              120,
		"original_cols":              4,
		"cleaned_rows":               115,
		"duplicates_removed":         3,
		"missing_value_rows_removed": 2,
		"outliers_removed":           0,
		"standardized_columns":       []string{"age", "salary"},
		"operations_performed": []string{
			"Removed Duplicates",
			"Handled Missing Values",
			"Removed Outliers",
			"Standardized Data",
		},
		"processing_time_seconds": 0.42,
		"statistics": map[string]interface{}{
			"numerical": map[string]interface{}{
				"age": map[string]float64{
					"count": 115, "mean": 34.5, "std": 8.2, "min": 18, "max": 65,
				},
			},
			"categorical": map[string]interface{}{
				"city": map[string]interface{}{
					"count": 115, "unique": 12, "top": "Austin", "freq": 31,
				},
			},
		},
		"data_preview": []map[string]interface{}{
			{"name": "Ada", "age": 36, "city": "Austin", "salary": 98000},
			{"name": "Ben", "age": 29, "city": "Denver", "salary": 72000},
		},
	}
}
