// Package server implements the timesman RPC server. It exposes one backend
// (any store.IStore, normally the embedded database) to RPC clients over a
// pluggable transport and serializer.
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for server adapters,
//     with the Handle method that processes an incoming request against a store.IStore.
//
//   - NewIStoreServerAdapter: Adapter translating RPC requests to store.IStore
//     method calls. Errors are returned with the code of the *store.Error, so the
//     client can rebuild the same error.
//
//   - NewRPCServer: Creates a server for a transport, a serializer and a
//     handle.Shared. All requests go through the handle and never overlap.
//
// Usage Example:
//
//	backend, err := lstore.NewLocalStore("times.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	h := handle.New(backend)
//	defer h.Close()
//
//	s := server.NewRPCServer(
//	    common.ServerConfig{Endpoint: "0.0.0.0:8080", TimeoutSecond: 10},
//	    tcp.NewTCPServerTransport(),
//	    serializer.NewGOBSerializer(),
//	    h,
//	)
//	if err := s.Serve(); err != nil {
//	    log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	The server handles requests of many connections concurrently, the handle
//	serializes their access to the backend. Serve should be called only once.
package server
