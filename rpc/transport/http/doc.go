// Package http implements the HTTP transport of the timesman RPC system.
// It provides concrete implementations of the transport interfaces defined in
// the parent package.
//
// Every request is a POST of the serialized message to {endpoint}/rpc, the
// response body is the serialized reply. Endpoints without a scheme are treated
// as http://.
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport. Selects endpoints
//     round-robin and retries failed attempts. Every attempt is bound to the
//     caller's context and the configured timeout.
//
//   - httpServerTransport: Implements IRPCServerTransport on top of net/http,
//     with a debug logging middleware. Close shuts the server down gracefully.
//
// Thread Safety:
//
//	The client transport is safe for concurrent use once connected.
package http
