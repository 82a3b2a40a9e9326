package serializer

import (
	"testing"
	"time"

	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/ValentinKolb/timesman/rpc/common"
	"github.com/stretchr/testify/require"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON": NewJSONSerializer,
	"GOB":  NewGOBSerializer,
}

func roundTrip(t *testing.T, s IRPCSerializer, msg *common.Message) common.Message {
	t.Helper()
	data, err := s.Serialize(*msg)
	require.NoError(t, err)

	var result common.Message
	require.NoError(t, s.Deserialize(data, &result))
	return result
}

// TestTimestampsSurvive verifies that collection and entry timestamps are decoded unchanged
func TestTimestampsSurvive(t *testing.T) {
	created := time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)
	updated := created.Add(90*time.Minute + 250*time.Millisecond)

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()

			msg := common.NewListCollectionsResponse([]store.Collection{
				{ID: 1, Title: "20240101", CreatedAt: created, UpdatedAt: &updated},
				{ID: 2, Title: "20240102", CreatedAt: created},
			}, nil)
			result := roundTrip(t, s, msg)

			require.Equal(t, common.MsgTListCollections, result.MsgType)
			require.NoError(t, result.AsError())
			require.Len(t, result.Collections, 2)

			first, err := result.Collections[0].Collection()
			require.NoError(t, err)
			require.True(t, first.CreatedAt.Equal(created))
			require.NotNil(t, first.UpdatedAt)
			require.True(t, first.UpdatedAt.Equal(updated))

			second, err := result.Collections[1].Collection()
			require.NoError(t, err)
			require.Nil(t, second.UpdatedAt)

			entryMsg := common.NewAppendEntryResponse(store.Entry{ID: 7, CollectionID: 1, Body: "hello", CreatedAt: updated}, nil)
			entryResult := roundTrip(t, s, entryMsg)
			require.Len(t, entryResult.Entries, 1)
			entry, err := entryResult.Entries[0].Entry()
			require.NoError(t, err)
			require.Equal(t, "hello", entry.Body)
			require.True(t, entry.CreatedAt.Equal(updated))
		})
	}
}

// TestErrorCodesSurvive verifies that the store error code is preserved
func TestErrorCodesSurvive(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()

			msg := common.NewCreateCollectionResponse(store.Collection{}, store.NewError(store.RetCConflict, "title exists"))
			result := roundTrip(t, s, msg)

			err := result.AsError()
			require.ErrorIs(t, err, store.ErrConflict)
			require.Contains(t, err.Error(), "title exists")
			require.Empty(t, result.Collections)

			latest := roundTrip(t, s, common.NewLatestEntryResponse(store.Entry{}, false, nil))
			require.NoError(t, latest.AsError())
			require.False(t, latest.Ok)
			require.Empty(t, latest.Entries)
		})
	}
}

// TestInvalidInput verifies that garbage is rejected
func TestInvalidInput(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			var msg common.Message
			require.Error(t, factory().Deserialize([]byte{0xff, 0x00, 0x13}, &msg))
		})
	}
}
