// Package rpc provides the remote procedure call layer of timesman. It lets a
// timesman process use a backend that lives in another process, and lets the
// serve command expose a local backend to other processes.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures used across the RPC system, including the
//     Message protocol, the wire timestamp and the client/server configurations.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, HTTP).
//
//   - serializer: Message serialization with two format options (JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: The RPC Client Store, an implementation of store.IStore that forwards
//     every operation to a server.
//
//   - server: The RPC server that executes incoming requests against a store.IStore
//     through the shared store handle.
package rpc
