// Package store provides the backend contract of timesman: a small set of operations
// for reading and writing collections ("times") and their entries ("posts").
// It is the abstraction layer between the application and the concrete storage,
// which may be a local database file or a remote service.
//
// The package focuses on:
//   - A unified interface (IStore) for collection and entry operations across different backends
//   - A structured error type (Error) whose codes survive every wire format
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining the operations on a backend.
//     All implementations share this common interface, allowing the application to
//     switch between backends by configuration without code changes. Every method
//     takes a context.Context since every implementation may block on I/O.
//
//   - Error System: A structured error reporting mechanism using typed error codes
//     (RetCNotFound, RetCConflict, RetCUnavailable, RetCMalformed, ...) and descriptive
//     messages. The sentinel errors (ErrNotFound, ErrConflict, ...) can be used with
//     errors.Is, CodeOf extracts the code of any wrapped error.
//
//   - Model: Collection and Entry. Timestamps assigned by a backend are UTC and
//     truncated to whole seconds (see Now).
//
// Implementations:
//
//	The module includes three implementations of the IStore interface:
//
//	- Local Store (lstore): An embedded SQLite database file.
//	  Available in the "github.com/ValentinKolb/timesman/lib/store/lstore" package.
//
//	- RPC Store: A client for the timesman RPC server, supporting several transports
//	  and serializers.
//	  Available in the "github.com/ValentinKolb/timesman/rpc/client" package.
//
//	- REST Store: A client for the timesman REST service.
//	  Available in the "github.com/ValentinKolb/timesman/rest/client" package.
//
// Thread Safety:
//
//	Implementations are not required to be safe for concurrent use. The application
//	accesses the store only through a handle.Shared, which serializes all calls.
package store
