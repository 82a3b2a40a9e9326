// Package logging provides the process wide logger setup of timesman.
//
// All packages obtain named loggers from dragonboats logger package
// (logger.GetLogger("store")). Init installs CreateLogger as the logger factory,
// so every logger writes lines of the form
//
//	2024/01/01 12:00:00 INFO  | store           | message
//
// to the configured output. Every line is additionally kept in a bounded
// in-memory buffer (Records, Tail), which the log pane of the application renders.
// The application sends the output to a file, since the terminal belongs to the UI.
package logging
