package client

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataclean-pro/gateway/internal/auth"
	"github.com/dataclean-pro/gateway/internal/models"
	"github.com/dataclean-pro/gateway/internal/testutil"
)

func newTestClient(t *testing.T) (*Client, *testutil.FakeService, *auth.Session) {
	t.Helper()

	svc := testutil.NewFakeService()
	t.Cleanup(svc.Close)

	session := auth.NewSession()
	c := New(svc.URL, 5*time.Second, session)
	return c, svc, session
}

func TestLoginStoresToken(t *testing.T) {
	c, _, session := newTestClient(t)

	require.NoError(t, c.Login(context.Background(), "ada", "secret"))
	assert.True(t, session.Authenticated())
	assert.Equal(t, "ada", session.Username())
	assert.Equal(t, "test-token", session.Token())
}

func TestLoginBadCredentialsIsNotExpiry(t *testing.T) {
	c, _, session := newTestClient(t)

	expired := false
	session.OnExpiry(func() { expired = true })

	err := c.Login(context.Background(), "ada", "wrong")
	require.Error(t, err)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "Incorrect username or password", remoteErr.Detail)

	// A login failure must not fire the session-expired teardown.
	assert.False(t, expired)
	assert.False(t, session.Authenticated())
}

func TestUploadDecodesResponse(t *testing.T) {
	c, _, _ := newTestClient(t)
	require.NoError(t, c.Login(context.Background(), "ada", "secret"))

	resp, err := c.Upload(context.Background(), "people.csv", strings.NewReader("a,b\n1,2\n"), models.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "people.csv", resp.Filename)
	assert.Equal(t, 120, resp.OriginalRows)
	assert.Equal(t, 115, resp.CleanedRows)
	require.NotNil(t, resp.DuplicatesRemoved)
	assert.Equal(t, 3, *resp.DuplicatesRemoved)
	require.NotNil(t, resp.Statistics)
	assert.Contains(t, resp.Statistics.Numerical, "age")
	assert.Len(t, resp.DataPreview.Rows, 2)
	assert.Len(t, resp.DataPreview.Columns, 4)
}

func TestUploadWithoutTokenIsLocal(t *testing.T) {
	c, svc, _ := newTestClient(t)

	_, err := c.Upload(context.Background(), "people.csv", strings.NewReader("a\n1\n"), models.DefaultOptions())
	assert.ErrorIs(t, err, ErrNoToken)

	// The request never left the process.
	assert.Empty(t, svc.UploadedFiles())
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	c, svc, session := newTestClient(t)
	require.NoError(t, c.Login(context.Background(), "ada", "secret"))

	expiredCalls := 0
	session.OnExpiry(func() { expiredCalls++ })

	// The service invalidates the token server-side.
	svc.Expire()

	_, err := c.History(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, expiredCalls)
	assert.False(t, session.Authenticated())

	// A second call fails locally: no token, no notification.
	_, err = c.History(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, 1, expiredCalls)
}

func TestRemoteErrorCarriesDetail(t *testing.T) {
	c, svc, _ := newTestClient(t)
	require.NoError(t, c.Login(context.Background(), "ada", "secret"))

	svc.FailUploads["bad.csv"] = "File bad.csv has invalid encoding"

	_, err := c.Upload(context.Background(), "bad.csv", strings.NewReader("x\n"), models.DefaultOptions())
	require.Error(t, err)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "File bad.csv has invalid encoding", remoteErr.Detail)
	assert.Equal(t, "File bad.csv has invalid encoding", err.Error())
}

func TestDownloadCSVStreams(t *testing.T) {
	c, _, _ := newTestClient(t)
	require.NoError(t, c.Login(context.Background(), "ada", "secret"))

	body, err := c.DownloadCSV(context.Background(), "people.csv", strings.NewReader("a,b\n1,2\n"), models.DefaultOptions())
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestHistoryAndDelete(t *testing.T) {
	c, svc, _ := newTestClient(t)
	require.NoError(t, c.Login(context.Background(), "ada", "secret"))

	svc.Records = []models.HistoryRecord{
		{ID: 7, Filename: "people.csv", Status: models.HistoryStatusCompleted},
	}

	records, err := c.History(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(7), records[0].ID)

	require.NoError(t, c.DeleteHistory(context.Background(), 7))
	assert.Equal(t, []int64{7}, svc.DeletedIDs())
}

func TestMe(t *testing.T) {
	c, _, _ := newTestClient(t)
	require.NoError(t, c.Login(context.Background(), "ada", "secret"))

	username, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tester", username)
}
