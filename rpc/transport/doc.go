// Package transport defines the interfaces for moving serialized RPC messages
// between the timesman RPC client and server. It provides a common contract that
// all transport implementations must fulfill, enabling protocol-agnostic
// communication.
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handle connection management and request sending. Send is bound to a context.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receive requests and pass them to the registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
//
// Implementations live in the http, tcp and unix sub packages, the latter two are
// built on the base package.
package transport
