package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rpi/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html>index</html>"))
	})
	mux.HandleFunc("/txt/RM2790.zip", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("PK-archive-bytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	res, err := New(0).Fetch(context.Background(), srv.URL+"/rpi/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "<html>index</html>", string(res.Body))
}

func TestFetch_BadStatus(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	_, err := New(0).Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "unexpected status 404")
}

func TestDownload(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	dest := filepath.Join(t.TempDir(), "work", "RM2790.zip")

	require.NoError(t, New(0).Download(context.Background(), srv.URL+"/txt/RM2790.zip", dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "PK-archive-bytes", string(data))
}

func TestDownload_FailureLeavesNoFile(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	dest := filepath.Join(t.TempDir(), "P2790.zip")

	err := New(0).Download(context.Background(), srv.URL+"/txt/P2790.zip", dest)
	assert.Error(t, err)
	_, statErr := os.Stat(dest)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestFetch_Canceled(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(0).Fetch(ctx, srv.URL+"/rpi/")
	assert.True(t, errors.Is(err, context.Canceled))
}
