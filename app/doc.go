// Package app runs the terminal UI of timesman.
//
// The UI is a bubbletea program. A tick produces one frame per frame interval
// (config key fps). Key presses are buffered and handed to the nav.Router with
// the next frame, so the router, and with it the visible pane, is driven exactly
// once per frame. A frame never waits for the backend: all backend work runs as
// tasks of a tasks.Runner and reaches the panes through their bridge channels.
//
// ctrl+c quits. All panes are closed and the runner waits a bounded time for the
// remaining tasks.
package app
