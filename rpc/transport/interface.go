package transport

import (
	"context"
	"errors"
	"net"

	"github.com/ValentinKolb/timesman/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes the serialized request and returns the serialized response.
// The context ends when the server is closed or the request times out.
type ServerHandleFunc func(ctx context.Context, req []byte) (resp []byte)

// IRPCServerTransport is the interface for the RPC transport layer
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	RegisterHandler(handler ServerHandleFunc)
	// Listen creates a listener for config.Endpoint and serves requests until Close is called.
	Listen(config common.ServerConfig) error
	// Serve serves requests on an existing listener until Close is called.
	Serve(listener net.Listener, config common.ServerConfig) error
	// Close stops serving and closes the listener.
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// ErrMaybeHandled marks a failed request that already reached the server.
// Client transports never retry such requests.
var ErrMaybeHandled = errors.New("request sent but no response received")

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response.
	// Send gives up when ctx ends. Only attempts that never reached the
	// server are retried; otherwise the error wraps ErrMaybeHandled.
	Send(ctx context.Context, req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
