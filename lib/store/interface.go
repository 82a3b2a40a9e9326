package store

import (
	"context"
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Factory is a function type that creates a new store.
// This is used to abstract the creation of the backend from the code using it.
type Factory func() (IStore, error)

// IStore is the generic interface for interacting with a times backend.
// Every implementation must behave identically for all operations, callers never
// need to know which backend is active.
// All errors returned by an implementation should be of type *Error (see CodeOf).
type IStore interface {
	// ListCollections returns all collections in the native order of the backend.
	ListCollections(ctx context.Context) (collections []Collection, err error)
	// CreateCollection creates a new collection with the given (non-empty) title.
	// The backend assigns the id and the creation timestamp.
	// Returns RetCConflict if a collection with the same title already exists.
	CreateCollection(ctx context.Context, title string) (collection Collection, err error)
	// LatestEntry returns the most recent entry of a collection.
	// The boolean return value is false if the collection has no entries, this is not an error.
	LatestEntry(ctx context.Context, collectionID uint64) (entry Entry, loaded bool, err error)
	// AppendEntry appends a new entry to a collection.
	// Returns RetCNotFound if the collection does not exist.
	AppendEntry(ctx context.Context, collectionID uint64, body string) (entry Entry, err error)
	// ListEntries returns all entries of a collection ordered by creation.
	// Returns RetCNotFound if the collection does not exist.
	ListEntries(ctx context.Context, collectionID uint64) (entries []Entry, err error)
	// Close releases all resources held by the store.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is an *Error with the same code.
// This allows errors.Is(err, store.ErrNotFound) regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new StoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// Errorf creates a new StoreError with the given code and a formatted message.
func Errorf(code RetCode, format string, args ...interface{}) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// CodeOf returns the RetCode of err.
// nil maps to RetCSuccess, errors that are not of type *Error map to RetCInternalError.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return RetCInternalError
}

// Sentinel errors, use with errors.Is
var (
	ErrNotFound    = NewError(RetCNotFound, "not found")
	ErrConflict    = NewError(RetCConflict, "conflict")
	ErrUnavailable = NewError(RetCUnavailable, "unavailable")
	ErrMalformed   = NewError(RetCMalformed, "malformed")
	ErrInvalid     = NewError(RetCInvalid, "invalid")
)

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess       RetCode = iota // 0: Command executed successfully.
	RetCInternalError                // 1: Command failed due to an internal error.
	RetCInvalid                      // 2: Invalid argument (e.g. empty title).
	RetCNotFound                     // 3: The referenced collection does not exist.
	RetCConflict                     // 4: A uniqueness constraint was violated.
	RetCUnavailable                  // 5: The backend could not be reached (I/O, transport, timeout).
	RetCMalformed                    // 6: A response or row could not be decoded.
)

// String returns the string representation of a RetCode.
func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalid:
		return "Invalid"
	case RetCNotFound:
		return "NotFound"
	case RetCConflict:
		return "Conflict"
	case RetCUnavailable:
		return "Unavailable"
	case RetCMalformed:
		return "Malformed"
	default:
		return "Unknown"
	}
}
