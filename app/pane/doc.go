/*
Package pane implements the screens of the timesman app.

# Panes

  - SelectPane: the start pane. Lists all collections with their latest entry,
    creates new collections (typed title or ctrl+t for the collection of today)
    and selects one to open it.
  - TimesPane: the entries of one collection, appends new entries.
  - LogPane: the newest in-memory log records (see logging.Records).
  - ConfigPane: the active configuration and the counters of the handle and the runner.

# Background Calls

A pane never calls the backend from Update. Every backend call runs as a task of
the shared tasks.Runner and takes the lock of the handle for exactly one call
(handle.WithLock). The result is sent to the pane as a Message over the bounded
bridge channel of the pane:

	Created        a new collection, the select pane answers with nav.Select
	Refreshed      a complete list of collections, replaces the cache
	LatestUpdated  the latest entry of one collection
	EntriesLoaded  all entries of the collection of a times pane
	EntryAppended  a new entry of the collection of a times pane
	Failed         a failed call, shown in the error line, the cache is kept

Update drains all pending messages without blocking before it handles keys. No
message is sent while the lock is held, so a slow pane never stalls the backend
for other panes.

Closing a pane cancels its tasks and drops its receiver, results that arrive
later are logged and discarded.
*/
package pane
