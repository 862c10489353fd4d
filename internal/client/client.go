// Package client talks to the remote data-cleaning service. It owns the
// wire contract (multipart uploads, JSON responses, FastAPI-style error
// bodies) and the cross-cutting 401 handling: any unauthorized response
// expires the session so every component tears down consistently.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dataclean-pro/gateway/internal/auth"
	"github.com/dataclean-pro/gateway/internal/models"
)

// ErrSessionExpired is returned when the remote service rejects the
// current credential. The session has already been expired by the time
// callers see this error.
var ErrSessionExpired = errors.New("session expired, please log in again")

// ErrNoToken is returned when an authenticated call is attempted without
// a stored credential. No network request is issued in that case.
var ErrNoToken = errors.New("not authenticated")

// RemoteError is a non-401 error response from the cleaning service.
// Detail carries the service's own message when it supplied one.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("cleaning service returned HTTP %d", e.Status)
}

// Client is an HTTP client for the cleaning service. The bearer token is
// read from the session before every request, never cached.
type Client struct {
	baseURL string
	http    *http.Client
	session *auth.Session
}

// New creates a client for the service at baseURL.
func New(baseURL string, timeout time.Duration, session *auth.Session) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		session: session,
	}
}

// newRequest builds a request; authenticated requests carry the bearer
// token and fail with ErrNoToken when none is stored.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, authenticated bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if authenticated {
		token := c.session.Token()
		if token == "" {
			return nil, ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// checkStatus converts error responses. A 401 on an authenticated call
// expires the session before reporting ErrSessionExpired; this is the
// single place the expiry side effect lives.
func (c *Client) checkStatus(resp *http.Response, authenticated bool) error {
	if resp.StatusCode < 400 {
		return nil
	}

	detail := decodeDetail(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		c.session.Expire()
		return ErrSessionExpired
	}

	return &RemoteError{Status: resp.StatusCode, Detail: detail}
}

// decodeDetail extracts the service's {"detail": "..."} error message.
func decodeDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	data, err := io.ReadAll(io.LimitReader(r, 1<<16))
	if err != nil {
		return ""
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Detail
}

// multipartBody assembles the service's upload form: a binary "file" part
// and the options snapshot JSON-encoded under "options".
func multipartBody(filename string, content io.Reader, opts models.ProcessingOptions) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", fmt.Errorf("copying file content: %w", err)
	}

	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("options", string(optsJSON)); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// Upload submits one file for cleaning and returns the raw, typed
// response. Normalization into a display shape happens in the result
// package; this is the only place the payload is decoded.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader, opts models.ProcessingOptions) (*UploadResponse, error) {
	body, contentType, err := multipartBody(filename, content, opts)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", body, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, true); err != nil {
		return nil, err
	}

	var out UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	return &out, nil
}

// DownloadCSV asks the service to clean the file again and returns the
// cleaned CSV stream. The caller must close the reader.
func (c *Client) DownloadCSV(ctx context.Context, filename string, content io.Reader, opts models.ProcessingOptions) (io.ReadCloser, error) {
	body, contentType, err := multipartBody(filename, content, opts)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/download/csv", body, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if err := c.checkStatus(resp, true); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp.Body, nil
}

// History fetches all processing records for the current user.
func (c *Client) History(ctx context.Context) ([]models.HistoryRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/history", nil, true)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, true); err != nil {
		return nil, err
	}

	var records []models.HistoryRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}
	return records, nil
}

// DeleteHistory removes one processing record server-side.
func (c *Client) DeleteHistory(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/history/%d", id), nil, true)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus(resp, true)
}

// Me returns the current principal's display identity.
func (c *Client) Me(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/users/me", nil, true)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, true); err != nil {
		return "", err
	}

	var out struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding user: %w", err)
	}
	return out.Username, nil
}

// Login exchanges credentials for a bearer token and stores it in the
// session. A 401 here means bad credentials, not an expired session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/login", bytes.NewReader(payload), false)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, false); err != nil {
		return err
	}

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decoding token: %w", err)
	}
	if out.AccessToken == "" {
		return &RemoteError{Status: resp.StatusCode, Detail: "login response carried no token"}
	}

	c.session.SetToken(out.AccessToken, username)
	return nil
}

// Register creates a new account on the remote service.
func (c *Client) Register(ctx context.Context, username, password string) error {
	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/register", bytes.NewReader(payload), false)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus(resp, false)
}
