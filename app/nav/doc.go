// Package nav implements the navigation of the timesman app: the Pane interface,
// the navigation signals (Event) a pane returns, and the Router that keeps the
// stack of panes.
//
// The router is driven once per frame. Frame calls Update of the active pane and
// applies the returned event:
//
//	Select, OpenCollection  push the detail pane of the collection
//	ShowLog, ShowConfig     push the log or the config pane
//	Pop                     close the active pane and reload the one below;
//	                        ignored when only the start pane is left
//	nil                     nothing
//
// The router is not safe for concurrent use, it belongs to the frame loop.
package nav
