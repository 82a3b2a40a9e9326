package store

import (
	"strings"
	"time"
)

// Collection is a named, timestamped grouping of entries (a "times").
// The ID is assigned by the backend and never changes.
type Collection struct {
	ID        uint64     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Entry is a single free-text item of a collection (a "post").
type Entry struct {
	ID           uint64    `json:"id"`
	CollectionID uint64    `json:"collection_id"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

// Now returns the current UTC time truncated to seconds.
// All backends use it for assigned timestamps, so that every wire format
// can represent them without loss.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// NormalizeTitle trims the title and validates that it is not empty.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", NewError(RetCInvalid, "title must not be empty")
	}
	return title, nil
}

// NormalizeBody trims the body and validates that it is not empty.
func NormalizeBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", NewError(RetCInvalid, "body must not be empty")
	}
	return body, nil
}
