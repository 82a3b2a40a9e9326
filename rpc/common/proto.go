package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/timesman/lib/store"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Request fields
	CollectionID uint64 `json:"collection_id,omitempty"` // Used for: LatestEntry, AppendEntry, ListEntries
	Title        string `json:"title,omitempty"`         // Used for: CreateCollection (request)
	Body         string `json:"body,omitempty"`          // Used for: AppendEntry (request)

	// Response only fields
	Collections []WireCollection `json:"collections,omitempty"` // Used for: ListCollections, CreateCollection
	Entries     []WireEntry      `json:"entries,omitempty"`     // Used for: LatestEntry, AppendEntry, ListEntries
	Ok          bool             `json:"ok,omitempty"`          // Used for: LatestEntry (false if the collection is empty)
	Code        store.RetCode    `json:"code,omitempty"`        // Error code, RetCSuccess if no error
	Err         string           `json:"err,omitempty"`         // Empty if no error, otherwise contains the error message
}

// AsError returns the error carried by a response, nil if there is none.
// The code of the server side *store.Error survives the round trip.
func (m *Message) AsError() error {
	if m.Err == "" && m.Code == store.RetCSuccess {
		return nil
	}
	code := m.Code
	if code == store.RetCSuccess {
		code = store.RetCInternalError
	}
	return store.NewError(code, m.Err)
}

// setErr stores err in the response
func (m *Message) setErr(err error) *Message {
	if err == nil {
		return m
	}
	m.Code = store.CodeOf(err)
	var se *store.Error
	if errors.As(err, &se) {
		m.Err = se.Msg
	} else {
		m.Err = err.Error()
	}
	return m
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewListCollectionsRequest creates a new ListCollections request
func NewListCollectionsRequest() *Message {
	return &Message{
		MsgType: MsgTListCollections,
	}
}

// NewListCollectionsResponse creates a new ListCollections response
func NewListCollectionsResponse(collections []store.Collection, err error) *Message {
	msg := &Message{
		MsgType:     MsgTListCollections,
		Collections: ToWireCollections(collections),
	}
	return msg.setErr(err)
}

// NewCreateCollectionRequest creates a new CreateCollection request
func NewCreateCollectionRequest(title string) *Message {
	return &Message{
		MsgType: MsgTCreateCollection,
		Title:   title,
	}
}

// NewCreateCollectionResponse creates a new CreateCollection response
func NewCreateCollectionResponse(collection store.Collection, err error) *Message {
	msg := &Message{
		MsgType: MsgTCreateCollection,
	}
	if err == nil {
		msg.Collections = []WireCollection{ToWireCollection(collection)}
	}
	return msg.setErr(err)
}

// NewLatestEntryRequest creates a new LatestEntry request
func NewLatestEntryRequest(collectionID uint64) *Message {
	return &Message{
		MsgType:      MsgTLatestEntry,
		CollectionID: collectionID,
	}
}

// NewLatestEntryResponse creates a new LatestEntry response
func NewLatestEntryResponse(entry store.Entry, ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTLatestEntry,
		Ok:      ok,
	}
	if ok && err == nil {
		msg.Entries = []WireEntry{ToWireEntry(entry)}
	}
	return msg.setErr(err)
}

// NewAppendEntryRequest creates a new AppendEntry request
func NewAppendEntryRequest(collectionID uint64, body string) *Message {
	return &Message{
		MsgType:      MsgTAppendEntry,
		CollectionID: collectionID,
		Body:         body,
	}
}

// NewAppendEntryResponse creates a new AppendEntry response
func NewAppendEntryResponse(entry store.Entry, err error) *Message {
	msg := &Message{
		MsgType: MsgTAppendEntry,
	}
	if err == nil {
		msg.Entries = []WireEntry{ToWireEntry(entry)}
	}
	return msg.setErr(err)
}

// NewListEntriesRequest creates a new ListEntries request
func NewListEntriesRequest(collectionID uint64) *Message {
	return &Message{
		MsgType:      MsgTListEntries,
		CollectionID: collectionID,
	}
}

// NewListEntriesResponse creates a new ListEntries response
func NewListEntriesResponse(entries []store.Entry, err error) *Message {
	msg := &Message{
		MsgType: MsgTListEntries,
		Entries: ToWireEntries(entries),
	}
	return msg.setErr(err)
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(code store.RetCode, err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Code:    code,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTListCollections:
		return "list_collections"
	case MsgTCreateCollection:
		return "create_collection"
	case MsgTLatestEntry:
		return "latest_entry"
	case MsgTAppendEntry:
		return "append_entry"
	case MsgTListEntries:
		return "list_entries"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "list_collections":
		*t = MsgTListCollections
	case "create_collection":
		*t = MsgTCreateCollection
	case "latest_entry":
		*t = MsgTLatestEntry
	case "append_entry":
		*t = MsgTAppendEntry
	case "list_entries":
		*t = MsgTListEntries
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IStore operations

	MsgTListCollections  // List all collections
	MsgTCreateCollection // Create a collection
	MsgTLatestEntry      // Latest entry of a collection
	MsgTAppendEntry      // Append an entry to a collection
	MsgTListEntries      // All entries of a collection
)
