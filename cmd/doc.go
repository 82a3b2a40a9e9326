// Package cmd implements the command-line interface of timesman. It provides a
// hierarchical command structure for running the service, the terminal UI and
// direct operations on a backend.
//
// The package is organized into several subpackages:
//
//   - app: Starts the terminal UI
//   - serve: Starts the timesman service (rpc or REST api) for a backend
//   - times: Commands for the times of a backend (list, create, append, etc.)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every command reads the backend selection (store-type, store-param) and the
// other settings from flags, TIMESMAN_* environment variables, .env files or an
// optional config file (--config).
//
// See timesman -help for a list of all commands.
package cmd
