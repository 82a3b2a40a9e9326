package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/ValentinKolb/timesman/lib/store/lstore"
	storetesting "github.com/ValentinKolb/timesman/lib/store/testing"
	"github.com/ValentinKolb/timesman/rest/server"
	"github.com/stretchr/testify/require"
)

// startService serves a fresh local store over httptest and returns its url
func startService(t *testing.T) string {
	t.Helper()

	backend, err := lstore.NewLocalStore(filepath.Join(t.TempDir(), "times.db"))
	require.NoError(t, err)
	h := handle.New(backend)

	ts := httptest.NewServer(server.NewRESTServer(server.Config{}, h).Handler())
	t.Cleanup(func() {
		ts.Close()
		require.NoError(t, h.Close())
	})
	return ts.URL
}

func TestRESTStore(t *testing.T) {
	storetesting.RunStoreTests(t, "RESTStore", func(t *testing.T) store.IStore {
		s, err := NewRESTStore(Config{BaseURL: startService(t)})
		require.NoError(t, err)
		return s
	})
}

func TestBaseURLWithoutScheme(t *testing.T) {
	url := startService(t)
	s, err := NewRESTStore(Config{BaseURL: strings.TrimPrefix(url, "http://") + "/"})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ListCollections(context.Background())
	require.NoError(t, err)
}

func TestEmptyBaseURL(t *testing.T) {
	_, err := NewRESTStore(Config{BaseURL: "  "})
	require.ErrorIs(t, err, store.ErrInvalid)
}

func TestCancelWhileBlocked(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte("[]"))
	}))
	defer ts.Close()
	defer close(release)

	s, err := NewRESTStore(Config{BaseURL: ts.URL})
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = s.ListCollections(ctx)
	require.ErrorIs(t, err, store.ErrUnavailable)
	require.Less(t, time.Since(start), 2*time.Second, "cancelled call must not wait for the response")
}

func TestMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer ts.Close()

	s, err := NewRESTStore(Config{BaseURL: ts.URL})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ListCollections(context.Background())
	require.ErrorIs(t, err, store.ErrMalformed)
}

func TestServerErrorIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	s, err := NewRESTStore(Config{BaseURL: ts.URL})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.AppendEntry(context.Background(), 1, "x")
	require.ErrorIs(t, err, store.ErrUnavailable)
}

func TestCircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	s, err := NewRESTStore(Config{BaseURL: ts.URL, FailureThreshold: 2, OpenTimeout: time.Minute})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err = s.ListCollections(ctx)
		require.ErrorIs(t, err, store.ErrUnavailable)
	}
	require.Equal(t, int32(2), calls.Load())

	// open: fails fast without reaching the service
	_, err = s.ListCollections(ctx)
	require.ErrorIs(t, err, store.ErrUnavailable)
	require.Contains(t, err.Error(), "open")
	require.Equal(t, int32(2), calls.Load())
}

func TestAnswersDoNotTripBreaker(t *testing.T) {
	s, err := NewRESTStore(Config{BaseURL: startService(t), FailureThreshold: 1})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err = s.ListEntries(ctx, 4242)
		require.ErrorIs(t, err, store.ErrNotFound)
	}
	_, err = s.CreateCollection(ctx, "still closed")
	require.NoError(t, err)
}
