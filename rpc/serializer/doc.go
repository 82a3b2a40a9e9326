// Package serializer provides message serialization for the timesman RPC system.
// It defines a common interface and two implementations for encoding the
// common.Message exchanged between client and server.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - jsonSerializerImpl: JSON encoding. Human-readable, useful for debugging and
//     for inspecting traffic, message types are encoded by name.
//
//   - gobSerializerImpl: Go's gob encoding, a compact binary format for Go peers.
//
// Both formats carry timestamps as seconds and nanoseconds, so a timestamp decoded
// by the client is identical to the one the server encoded.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s := serializer.NewJSONSerializer()
//	data, err := s.Serialize(*common.NewListCollectionsRequest())
//	// ... send data ...
//	var reply common.Message
//	err = s.Deserialize(receivedData, &reply)
package serializer
