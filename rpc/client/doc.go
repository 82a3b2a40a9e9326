// Package client implements the RPC client store of timesman: a store.IStore
// that forwards every operation to a timesman RPC server.
//
// The package focuses on:
//   - Transparent remote access to a backend through the store.IStore interface
//   - Integration with the transport and serialization layers
//   - Error conversion between RPC responses and *store.Error
//
// Error Conversion:
//
//	Error responses carry the code of the server side *store.Error, so a
//	RetCConflict raised by the server's database is a RetCConflict on the client.
//	Transport failures (refused connections, timeouts, cancelled contexts) become
//	RetCUnavailable, responses that cannot be decoded RetCMalformed.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	    TimeoutSecond: 5,
//	    Transport: common.ClientTransportConfig{
//	        Endpoints:  []string{"localhost:8080"},
//	        RetryCount: 3,
//	    },
//	}
//
//	s, err := client.NewRPCStore(config, tcp.NewTCPClientTransport(), serializer.NewGOBSerializer())
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	list, err := s.ListCollections(ctx)
//
// Thread Safety:
//
//	The client is as thread-safe as its transport, all bundled transports can be
//	used concurrently.
package client
