// Package server implements the timesman REST service (see package rest for the
// wire format). It is a chi router in front of a handle.Shared, so requests are
// executed one at a time against the backend, whatever the number of clients.
//
// Middleware:
//
//   - every request gets an X-Request-Id; a uuid is assigned when the client
//     sends none, and the id is echoed in the response
//   - panics in handlers are recovered and answered with 500
//   - every request is logged (debug, warning for 5xx) and counted in
//     timesman_rest_requests_total and timesman_rest_request_duration_seconds
//
// Request bodies are validated with go-playground/validator after trimming;
// validation failures are answered with 400 and an ErrorResponse.
package server
