package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/ValentinKolb/timesman/rest"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/sony/gobreaker"
)

var Logger = logger.GetLogger("rest")

// maxResponseSize bounds the size of a response body
const maxResponseSize = 64 * 1024 * 1024

// Config holds the settings of the REST Client Store
type Config struct {
	// BaseURL of the service, e.g. http://localhost:8080
	BaseURL string
	// Timeout bounds a single http call, 0 uses 10 seconds
	Timeout time.Duration
	// FailureThreshold is the number of consecutive unavailable calls that opens the breaker, 0 uses 5
	FailureThreshold uint32
	// OpenTimeout is the time the breaker stays open before probing again, 0 uses 30 seconds
	OpenTimeout time.Duration
}

// NewRESTStore creates a store.IStore backed by the timesman REST service.
// The http calls are blocking. Each operation runs its call on its own goroutine
// and waits for the result or the end of ctx, whichever comes first.
func NewRESTStore(config Config) (store.IStore, error) {
	base := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if base == "" {
		return nil, store.NewError(store.RetCInvalid, "rest: base url must not be empty")
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	threshold := config.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := config.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	s := &restStore{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "rest:" + base,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			Logger.Warningf("Circuit breaker '%s' state changed from %v to %v", name, from, to)
		},
		// only an unreachable service counts as failure, NotFound etc. are answers
		IsSuccessful: func(err error) bool {
			return store.CodeOf(err) != store.RetCUnavailable
		},
	})

	Logger.Infof("Created REST client for %s", base)
	return s, nil
}

type restStore struct {
	base    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (s *restStore) ListCollections(ctx context.Context) ([]store.Collection, error) {
	return call(ctx, s, func() ([]store.Collection, error) {
		var resp []rest.Times
		if err := s.request(http.MethodGet, "/times", nil, &resp); err != nil {
			return nil, err
		}
		collections := make([]store.Collection, 0, len(resp))
		for _, w := range resp {
			collections = append(collections, w.Collection())
		}
		return collections, nil
	})
}

func (s *restStore) CreateCollection(ctx context.Context, title string) (store.Collection, error) {
	return call(ctx, s, func() (store.Collection, error) {
		var resp rest.Times
		if err := s.request(http.MethodPost, "/times", rest.CreateTimesRequest{Title: title}, &resp); err != nil {
			return store.Collection{}, err
		}
		return resp.Collection(), nil
	})
}

func (s *restStore) LatestEntry(ctx context.Context, collectionID uint64) (store.Entry, bool, error) {
	entries, err := s.ListEntries(ctx, collectionID)
	if err != nil || len(entries) == 0 {
		return store.Entry{}, false, err
	}
	return entries[len(entries)-1], true, nil
}

func (s *restStore) AppendEntry(ctx context.Context, collectionID uint64, body string) (store.Entry, error) {
	return call(ctx, s, func() (store.Entry, error) {
		var resp rest.Comment
		path := fmt.Sprintf("/times/%d/append", collectionID)
		if err := s.request(http.MethodPost, path, rest.AppendRequest{Comment: body}, &resp); err != nil {
			return store.Entry{}, err
		}
		return resp.Entry(collectionID), nil
	})
}

func (s *restStore) ListEntries(ctx context.Context, collectionID uint64) ([]store.Entry, error) {
	return call(ctx, s, func() ([]store.Entry, error) {
		var resp []rest.Comment
		if err := s.request(http.MethodGet, fmt.Sprintf("/times/%d/list", collectionID), nil, &resp); err != nil {
			return nil, err
		}
		entries := make([]store.Entry, 0, len(resp))
		for _, w := range resp {
			entries = append(entries, w.Entry(collectionID))
		}
		return entries, nil
	})
}

func (s *restStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// call runs fn through the circuit breaker on its own goroutine and waits for
// the result or the end of ctx. A call abandoned by ctx finishes in the background.
func call[R any](ctx context.Context, s *restStore, fn func() (R, error)) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, store.Errorf(store.RetCUnavailable, "rest: %v", err)
	}

	type result struct {
		val R
		err error
	}
	done := make(chan result, 1)

	go func() {
		val, err := s.breaker.Execute(func() (interface{}, error) {
			return fn()
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			done <- result{zero, store.Errorf(store.RetCUnavailable, "rest: %v", err)}
			return
		}
		if err != nil {
			done <- result{zero, err}
			return
		}
		done <- result{val.(R), nil}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		return zero, store.Errorf(store.RetCUnavailable, "rest: %v", ctx.Err())
	}
}

// request performs one blocking http call and decodes the response into out
func (s *restStore) request(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return store.Errorf(store.RetCInternalError, "rest: encode request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.base+path, reader)
	if err != nil {
		return store.Errorf(store.RetCInvalid, "rest: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return store.Errorf(store.RetCUnavailable, "rest: %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return store.Errorf(store.RetCUnavailable, "rest: read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := resp.Status
		var errResp rest.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return store.NewError(rest.CodeOfStatus(resp.StatusCode), msg)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return store.Errorf(store.RetCMalformed, "rest: decode response: %v", err)
	}
	return nil
}
