// Package common provides the data structures shared by the RPC client and server.
//
// The package focuses on:
//   - Message protocol definition for the store operations
//   - Wire representations of collections and entries
//   - Configuration structures for client and server components
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication, used for both
//     requests and responses. Which fields are set depends on the MessageType.
//     Includes factory methods for every request and response. A failed
//     operation carries the code of the *store.Error, AsError rebuilds it on the
//     client side.
//
//   - MessageType: Enumeration of the supported operations (list_collections,
//     create_collection, latest_entry, append_entry, list_entries) and the
//     control messages (success, error).
//
//   - Timestamp: Seconds and nanoseconds since the unix epoch in UTC. Conversion
//     from and to time.Time is exact.
//
//   - ServerConfig / ClientConfig: Endpoint, timeout and transport settings
//     (socket buffers, tcp options, workers and connections).
package common
