package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jploot/picomaven/pkg/errors"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestGet(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("payload"))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(time.Second, "")

	t.Run("success with default user agent", func(t *testing.T) {
		data, err := client.Get(context.Background(), mustParse(t, server.URL+"/ok"))
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
		assert.Equal(t, DefaultUserAgent, gotUA)
	})

	t.Run("custom user agent", func(t *testing.T) {
		c := NewClient(time.Second, "test-agent/0.1")
		_, err := c.Get(context.Background(), mustParse(t, server.URL+"/ok"))
		require.NoError(t, err)
		assert.Equal(t, "test-agent/0.1", gotUA)
	})

	t.Run("404 is ErrNotFound", func(t *testing.T) {
		_, err := client.Get(context.Background(), mustParse(t, server.URL+"/missing"))
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.False(t, pkgerrors.IsConnectivity(err))
	})

	t.Run("other status is ErrDownloadFailed", func(t *testing.T) {
		_, err := client.Get(context.Background(), mustParse(t, server.URL+"/boom"))
		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrors.ErrDownloadFailed)
		assert.False(t, pkgerrors.IsNotFound(err))
	})
}

func TestGetConnectivity(t *testing.T) {
	// A server that is immediately closed leaves a refused port behind.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	target := server.URL
	server.Close()

	client := NewClient(time.Second, "")
	_, err := client.Get(context.Background(), mustParse(t, target))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConnectivity(err))
}

func TestGetCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(time.Second, "")
	_, err := client.Get(ctx, mustParse(t, server.URL))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConnectivity(err))
}
