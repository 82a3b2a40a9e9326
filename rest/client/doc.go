// Package client implements the REST Client Store, a store.IStore that talks to
// the timesman REST service (see package rest for the wire format).
//
// The http calls are blocking. Every operation hands its call to a goroutine
// and waits on the result or the context, so a cancelled caller returns at once
// with RetCUnavailable while the call finishes in the background.
//
// A circuit breaker (sony/gobreaker) guards the service. After a number of
// consecutive unavailable calls the breaker opens and calls fail fast with
// RetCUnavailable until the open timeout has passed.
//
// LatestEntry has no endpoint of its own; it is the last element of the list.
//
// Usage Example:
//
//	s, err := client.NewRESTStore(client.Config{BaseURL: "http://localhost:8080"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	times, err := s.CreateCollection(ctx, "20240101")
package client
