// Package rest defines the JSON wire format of the timesman REST service, shared by
// the REST Client Store (package rest/client) and the service (package rest/server).
//
// Endpoints:
//
//	GET  /times              list all collections        -> []Times
//	POST /times              create a collection         CreateTimesRequest -> Times
//	GET  /times/{id}/list    all entries of a collection -> []Comment
//	POST /times/{id}/append  append an entry             AppendRequest -> Comment
//	GET  /metrics            prometheus metrics (optional)
//
// Timestamps are naive local date-times (see TimeLayout). They carry whole seconds
// only, which is the precision every backend assigns.
//
// Errors are reported with a non-2xx status and an ErrorResponse body. The status
// carries the error kind: 400 Invalid, 404 NotFound, 409 Conflict. Any other status
// is treated as Unavailable by the client.
package rest
