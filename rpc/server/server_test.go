package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/ValentinKolb/timesman/lib/store/lstore"
	storetesting "github.com/ValentinKolb/timesman/lib/store/testing"
	"github.com/ValentinKolb/timesman/rpc/client"
	"github.com/ValentinKolb/timesman/rpc/common"
	"github.com/ValentinKolb/timesman/rpc/serializer"
	"github.com/ValentinKolb/timesman/rpc/transport"
	"github.com/ValentinKolb/timesman/rpc/transport/http"
	"github.com/ValentinKolb/timesman/rpc/transport/tcp"
	"github.com/ValentinKolb/timesman/rpc/transport/unix"
	"github.com/stretchr/testify/require"
)

type transportCase struct {
	name    string
	network string
	server  func() transport.IRPCServerTransport
	client  func() transport.IRPCClientTransport
}

var transportCases = []transportCase{
	{"HTTP", "tcp", http.NewHttpServerTransport, http.NewHttpClientTransport},
	{"TCP", "tcp", tcp.NewTCPServerTransport, tcp.NewTCPClientTransport},
	{"Unix", "unix", unix.NewUnixServerTransport, unix.NewUnixClientTransport},
}

var serializerCases = map[string]func() serializer.IRPCSerializer{
	"JSON": serializer.NewJSONSerializer,
	"GOB":  serializer.NewGOBSerializer,
}

// listen opens a listener on a free port or a fresh socket path
func listen(t *testing.T, network string) net.Listener {
	t.Helper()
	address := "127.0.0.1:0"
	if network == "unix" {
		// t.TempDir paths may exceed the socket path limit
		dir, err := os.MkdirTemp("", "tm")
		require.NoError(t, err)
		t.Cleanup(func() { _ = os.RemoveAll(dir) })
		address = filepath.Join(dir, "rpc.sock")
	}
	ln, err := net.Listen(network, address)
	require.NoError(t, err)
	return ln
}

// newBackend opens a fresh local store
func newBackend(t *testing.T) store.IStore {
	t.Helper()
	backend, err := lstore.NewLocalStore(filepath.Join(t.TempDir(), "times.db"))
	require.NoError(t, err)
	return backend
}

// startServer serves a fresh local store and returns the endpoint
func startServer(t *testing.T, tc transportCase, newSerializer func() serializer.IRPCSerializer) string {
	t.Helper()
	return serveStore(t, tc, newSerializer, newBackend(t))
}

// serveStore serves backend and returns the endpoint. The server owns backend.
func serveStore(t *testing.T, tc transportCase, newSerializer func() serializer.IRPCSerializer, backend store.IStore) string {
	t.Helper()

	h := handle.New(backend)

	s := NewRPCServer(
		common.ServerConfig{
			TimeoutSecond: 5,
			Transport: common.ServerTransportConfig{
				WorkersPerConn: 4,
				TCPConf:        common.TCPConf{TCPNoDelay: true, TCPLingerSec: -1},
			},
		},
		tc.server(),
		newSerializer(),
		h,
	)

	ln := listen(t, tc.network)
	done := make(chan error, 1)
	go func() {
		done <- s.ServeListener(ln)
	}()

	t.Cleanup(func() {
		require.NoError(t, s.Close())
		if err := <-done; err != nil {
			require.ErrorIs(t, err, net.ErrClosed)
		}
		require.NoError(t, h.Close())
	})

	return ln.Addr().String()
}

func connect(t *testing.T, tc transportCase, endpoint string, newSerializer func() serializer.IRPCSerializer) store.IStore {
	t.Helper()
	return connectWithTimeout(t, tc, endpoint, newSerializer, 5)
}

func connectWithTimeout(t *testing.T, tc transportCase, endpoint string, newSerializer func() serializer.IRPCSerializer, timeoutSecond int) store.IStore {
	t.Helper()
	s, err := client.NewRPCStore(
		common.ClientConfig{
			TimeoutSecond: timeoutSecond,
			Transport: common.ClientTransportConfig{
				Endpoints:              []string{endpoint},
				RetryCount:             3,
				ConnectionsPerEndpoint: 2,
				TCPConf:                common.TCPConf{TCPNoDelay: true, TCPLingerSec: -1},
			},
		},
		tc.client(),
		newSerializer(),
	)
	require.NoError(t, err)
	return s
}

func TestRPCStore(t *testing.T) {
	for _, tc := range transportCases {
		for serName, newSerializer := range serializerCases {
			storetesting.RunStoreTests(t, tc.name+serName, func(t *testing.T) store.IStore {
				endpoint := startServer(t, tc, newSerializer)
				return connect(t, tc, endpoint, newSerializer)
			})
		}
	}
}

func TestServerErrorsSurvive(t *testing.T) {
	tc := transportCases[1]
	endpoint := startServer(t, tc, serializer.NewGOBSerializer)
	s := connect(t, tc, endpoint, serializer.NewGOBSerializer)
	defer s.Close()

	ctx := context.Background()
	_, err := s.CreateCollection(ctx, "20240101")
	require.NoError(t, err)

	_, err = s.CreateCollection(ctx, "20240101")
	require.ErrorIs(t, err, store.ErrConflict)

	_, err = s.AppendEntry(ctx, 999, "lost")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.CreateCollection(ctx, "   ")
	require.ErrorIs(t, err, store.ErrInvalid)
}

func TestUnreachableServer(t *testing.T) {
	ln := listen(t, "tcp")
	endpoint := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err := client.NewRPCStore(
		common.ClientConfig{
			TimeoutSecond: 1,
			Transport:     common.ClientTransportConfig{Endpoints: []string{endpoint}, TCPConf: common.TCPConf{TCPLingerSec: -1}},
		},
		tcp.NewTCPClientTransport(),
		serializer.NewJSONSerializer(),
	)
	require.ErrorIs(t, err, store.ErrUnavailable)
}

func TestAdapter(t *testing.T) {
	backend, err := lstore.NewLocalStore(filepath.Join(t.TempDir(), "times.db"))
	require.NoError(t, err)
	defer backend.Close()

	adapter := NewIStoreServerAdapter()
	ctx := context.Background()

	resp := adapter.Handle(ctx, common.NewCreateCollectionRequest("work"), backend)
	require.NoError(t, resp.AsError())
	require.Len(t, resp.Collections, 1)
	id := resp.Collections[0].ID

	resp = adapter.Handle(ctx, common.NewLatestEntryRequest(id), backend)
	require.NoError(t, resp.AsError())
	require.False(t, resp.Ok)
	require.Empty(t, resp.Entries)

	resp = adapter.Handle(ctx, common.NewAppendEntryRequest(id, "first"), backend)
	require.NoError(t, resp.AsError())
	require.Equal(t, "first", resp.Entries[0].Body)

	resp = adapter.Handle(ctx, common.NewLatestEntryRequest(id), backend)
	require.True(t, resp.Ok)
	require.Equal(t, "first", resp.Entries[0].Body)

	resp = adapter.Handle(ctx, &common.Message{MsgType: common.MsgTSuccess}, backend)
	require.Equal(t, common.MsgTError, resp.MsgType)
	require.ErrorIs(t, resp.AsError(), store.ErrInvalid)

	resp = adapter.Handle(ctx, common.NewListCollectionsRequest(), nil)
	require.Equal(t, store.RetCInternalError, store.CodeOf(resp.AsError()))
}

// slowAppendStore delays the first AppendEntry past the client timeout.
// The delayed append still completes.
type slowAppendStore struct {
	store.IStore
	delay   time.Duration
	delayed atomic.Bool
}

func (s *slowAppendStore) AppendEntry(ctx context.Context, collectionID uint64, body string) (store.Entry, error) {
	if s.delayed.CompareAndSwap(false, true) {
		time.Sleep(s.delay)
		ctx = context.WithoutCancel(ctx)
	}
	return s.IStore.AppendEntry(ctx, collectionID, body)
}

func TestTimedOutAppendNotRepeated(t *testing.T) {
	for _, tc := range transportCases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &slowAppendStore{IStore: newBackend(t), delay: 1500 * time.Millisecond}
			endpoint := serveStore(t, tc, serializer.NewGOBSerializer, backend)
			s := connectWithTimeout(t, tc, endpoint, serializer.NewGOBSerializer, 1)
			defer s.Close()

			ctx := context.Background()
			c, err := s.CreateCollection(ctx, "20240101")
			require.NoError(t, err)

			_, err = s.AppendEntry(ctx, c.ID, "once")
			require.ErrorIs(t, err, store.ErrUnavailable)

			require.Eventually(t, func() bool {
				entries, err := backend.ListEntries(ctx, c.ID)
				return err == nil && len(entries) == 1
			}, 5*time.Second, 50*time.Millisecond)

			time.Sleep(200 * time.Millisecond)
			entries, err := s.ListEntries(ctx, c.ID)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			require.Equal(t, "once", entries[0].Body)
		})
	}
}
