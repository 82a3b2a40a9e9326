// Package unix implements the Unix domain socket transport of the timesman RPC
// system, for a server and clients running on the same machine.
//
// This package extends the base transport layer with Unix socket connectors
// while inheriting connection pooling, request correlation and error handling
// from the base package. The endpoint is the path of the socket file, a stale
// file of a previous run is removed when the server starts.
package unix
