// Package base provides the foundation for the socket transports of the timesman
// RPC system, implementing request framing and correlation independent of the
// specific network protocol (TCP, Unix sockets). Protocol packages extend it with
// connectors.
//
// The package focuses on:
//   - Protocol-agnostic client and server transport implementations
//   - Frame-based message protocol with requestID tracking
//   - Request/response correlation, so one connection carries concurrent requests
//   - Retries with exponential backoff and reconnection on read errors
//   - Context-aware sends: a request is abandoned as soon as the caller's context ends
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different network protocols.
//
//   - clientTransport: Core client implementation that manages multiple connections
//     with round-robin load balancing. Pending requests are tracked in an xsync.MapOf
//     keyed by request ID.
//
//   - serverTransport: Core server implementation that accepts connections and
//     hands every frame to the registered handler, with a bounded number of
//     concurrent workers per connection.
//
// Frame Format:
//
//	8 bytes request ID (big endian), 4 bytes payload length (big endian), payload.
//
// Thread Safety:
//
//	All public methods are thread-safe. The client transport uses atomic counters
//	and mutexes, the server creates a dedicated goroutine for each connection.
package base
