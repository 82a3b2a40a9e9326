// Package tcp implements the TCP socket transport of the timesman RPC system.
// It provides concrete implementations of the base package's connector
// interfaces for TCP connections.
//
// The transport inherits connection pooling, buffer reuse and request correlation
// from the base package. The socket settings of common.SocketConf and
// common.TCPConf (no delay, keep-alive, linger, buffer sizes) are applied to every
// connection on both sides.
package tcp
