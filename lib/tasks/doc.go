// Package tasks provides the background task runtime of the application.
//
// Every backend call started by a pane runs as a task on its own goroutine, so the
// frame loop never waits for I/O. A task receives the context of the pane that
// spawned it (cancelled when the pane is closed) merged with the runner's context
// (cancelled on Shutdown). Panics are recovered with conc/panics and logged, the
// remaining tasks keep running.
package tasks
