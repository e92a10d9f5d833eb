package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte("a;b\n1;2\n"))
	}))
	defer srv.Close()

	f := New(Config{})
	res, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("a;b\n1;2\n"), res.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, res.Hash, 64)
}

func TestFetchNonSuccessStatus(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusMovedPermanently} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if code == http.StatusMovedPermanently {
				// A redirect without Location is returned as-is by the client.
				w.WriteHeader(code)
				return
			}
			http.Error(w, "nope", code)
		}))

		_, err := New(Config{}).Fetch(context.Background(), srv.URL)
		srv.Close()

		require.Error(t, err)
		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, code, te.StatusCode)
		assert.Contains(t, err.Error(), "for url: "+srv.URL)
		assert.True(t, IsTransportError(err))
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(Config{}).Fetch(context.Background(), url)
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.Contains(t, err.Error(), "GET "+url)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := New(Config{Timeout: 50 * time.Millisecond}).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
}

func TestFetchBodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 1024))
	}))
	defer srv.Close()

	_, err := NewWithClient(srv.Client(), Config{MaxBytes: 100}).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBodyTooLarge))
	assert.True(t, IsTransportError(err))
}

func TestFetchCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{}).Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
