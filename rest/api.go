package rest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ValentinKolb/timesman/lib/store"
)

// TimeLayout is the naive local date-time format used on the wire.
// Parsing accepts an optional fractional second after the seconds field.
const TimeLayout = "2006-01-02T15:04:05"

// --------------------------------------------------------------------------
// Wire Timestamp
// --------------------------------------------------------------------------

// LocalTime is a point in time encoded as a naive date-time in the local time zone.
// Sub-second precision is dropped on encode.
type LocalTime time.Time

// NewLocalTime converts a time.Time
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime(t)
}

// Time returns the point in time as UTC
func (t LocalTime) Time() time.Time {
	return time.Time(t).UTC()
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).In(time.Local).Format(TimeLayout))
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	*t = LocalTime(parsed)
	return nil
}

// --------------------------------------------------------------------------
// Resources
// --------------------------------------------------------------------------

// Times is the wire representation of a collection
type Times struct {
	ID        uint64     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt LocalTime  `json:"created_at"`
	UpdatedAt *LocalTime `json:"updated_at,omitempty"`
}

// Comment is the wire representation of an entry, the collection is part of the path
type Comment struct {
	ID        uint64    `json:"id"`
	Comment   string    `json:"comment"`
	CreatedAt LocalTime `json:"created_at"`
}

// CreateTimesRequest is the body of POST /times
type CreateTimesRequest struct {
	Title string `json:"title" validate:"required,max=256"`
}

// AppendRequest is the body of POST /times/{id}/append
type AppendRequest struct {
	Comment string `json:"comment" validate:"required,max=65536"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --------------------------------------------------------------------------
// Conversion
// --------------------------------------------------------------------------

func FromCollection(c store.Collection) Times {
	w := Times{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: NewLocalTime(c.CreatedAt),
	}
	if c.UpdatedAt != nil {
		u := NewLocalTime(*c.UpdatedAt)
		w.UpdatedAt = &u
	}
	return w
}

func (w Times) Collection() store.Collection {
	c := store.Collection{
		ID:        w.ID,
		Title:     w.Title,
		CreatedAt: w.CreatedAt.Time(),
	}
	if w.UpdatedAt != nil {
		u := w.UpdatedAt.Time()
		c.UpdatedAt = &u
	}
	return c
}

func FromEntry(e store.Entry) Comment {
	return Comment{
		ID:        e.ID,
		Comment:   e.Body,
		CreatedAt: NewLocalTime(e.CreatedAt),
	}
}

func (w Comment) Entry(collectionID uint64) store.Entry {
	return store.Entry{
		ID:           w.ID,
		CollectionID: collectionID,
		Body:         w.Comment,
		CreatedAt:    w.CreatedAt.Time(),
	}
}

// --------------------------------------------------------------------------
// Status Mapping
// --------------------------------------------------------------------------

// StatusOf returns the http status for an error returned by a store
func StatusOf(err error) int {
	switch store.CodeOf(err) {
	case store.RetCSuccess:
		return 200
	case store.RetCInvalid:
		return 400
	case store.RetCNotFound:
		return 404
	case store.RetCConflict:
		return 409
	case store.RetCUnavailable:
		return 503
	default:
		return 500
	}
}

// CodeOfStatus maps a non-2xx http status back to a store error code
func CodeOfStatus(status int) store.RetCode {
	switch status {
	case 400:
		return store.RetCInvalid
	case 404:
		return store.RetCNotFound
	case 409:
		return store.RetCConflict
	default:
		return store.RetCUnavailable
	}
}
