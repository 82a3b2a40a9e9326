package server

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store/lstore"
	"github.com/ValentinKolb/timesman/rest"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, config Config) *Server {
	t.Helper()
	backend, err := lstore.NewLocalStore(filepath.Join(t.TempDir(), "times.db"))
	require.NoError(t, err)
	h := handle.New(backend)
	t.Cleanup(func() { _ = h.Close() })
	return NewRESTServer(config, h)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) rest.ErrorResponse {
	t.Helper()
	var resp rest.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestEndpoints(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := do(t, s, http.MethodGet, "/times", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/times", `{"title":"  20240101  "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var times rest.Times
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &times))
	require.Equal(t, "20240101", times.Title)
	require.Nil(t, times.UpdatedAt)

	rec = do(t, s, http.MethodPost, "/times/"+itoa(times.ID)+"/append", `{"comment":"hello"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var comment rest.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))
	require.Equal(t, "hello", comment.Comment)

	rec = do(t, s, http.MethodGet, "/times/"+itoa(times.ID)+"/list", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []rest.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 1)
	require.Equal(t, comment.ID, comments[0].ID)

	rec = do(t, s, http.MethodGet, "/times", "")
	var all []rest.Times
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 1)
	require.NotNil(t, all[0].UpdatedAt)
}

func TestLegacyRoutes(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := do(t, s, http.MethodGet, "/list", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/append", `{"comment":"nowhere"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NotFound", decodeError(t, rec).Code)

	var older, newer rest.Times
	rec = do(t, s, http.MethodPost, "/times", `{"title":"older"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &older))
	rec = do(t, s, http.MethodPost, "/times", `{"title":"newer"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &newer))

	rec = do(t, s, http.MethodPost, "/append", `{"comment":"legacy"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var comments []rest.Comment
	rec = do(t, s, http.MethodGet, "/times/"+itoa(newer.ID)+"/list", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 1)
	require.Equal(t, "legacy", comments[0].Comment)

	rec = do(t, s, http.MethodGet, "/times/"+itoa(older.ID)+"/list", "")
	require.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/list", "")
	require.Equal(t, http.StatusOK, rec.Code)
	comments = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 1)
	require.Equal(t, "legacy", comments[0].Comment)

	rec = do(t, s, http.MethodPost, "/append", `{"comment":"   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrors(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := do(t, s, http.MethodPost, "/times", `{"title":"   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid", decodeError(t, rec).Code)
	require.Contains(t, decodeError(t, rec).Error, "title is required")

	rec = do(t, s, http.MethodPost, "/times", `{"title":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/times/abc/list", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/times/4242/list", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NotFound", decodeError(t, rec).Code)

	rec = do(t, s, http.MethodPost, "/times/4242/append", `{"comment":"lost"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/times", `{"title":"dup"}`).Code)
	rec = do(t, s, http.MethodPost, "/times", `{"title":"dup"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Conflict", decodeError(t, rec).Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := do(t, s, http.MethodGet, "/times", "")
	require.Len(t, rec.Header().Get(chimiddleware.RequestIDHeader), 36, "expected a uuid")

	req := httptest.NewRequest(http.MethodGet, "/times", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "client-id")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, "client-id", rec.Header().Get(chimiddleware.RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, Config{Metrics: true})
	do(t, s, http.MethodGet, "/times", "")

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "timesman_rest_requests_total")
	require.Contains(t, rec.Body.String(), "timesman_store_calls_total")

	disabled := newTestServer(t, Config{})
	require.Equal(t, http.StatusNotFound, do(t, disabled, http.MethodGet, "/metrics", "").Code)
}

func TestServeAndClose(t *testing.T) {
	s := newTestServer(t, Config{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ln) }()

	// wait until the server answers
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/times")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Close())
	require.NoError(t, <-done)
	require.NoError(t, s.Close())
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
