package rest

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/stretchr/testify/require"
)

func TestLocalTimeRoundTrip(t *testing.T) {
	now := store.Now()

	data, err := json.Marshal(NewLocalTime(now))
	require.NoError(t, err)

	var decoded LocalTime
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, now.Equal(decoded.Time()), "expected %v, got %v", now, decoded.Time())
}

func TestLocalTimeFormat(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 3, 999, time.Local)
	data, err := json.Marshal(NewLocalTime(ts))
	require.NoError(t, err)
	require.Equal(t, `"2024-03-09T07:05:03"`, string(data))
}

func TestLocalTimeAcceptsFraction(t *testing.T) {
	var decoded LocalTime
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-09T07:05:03.123456"`), &decoded))

	expected := time.Date(2024, 3, 9, 7, 5, 3, 123456000, time.Local)
	require.True(t, expected.Equal(decoded.Time()))
}

func TestLocalTimeRejectsGarbage(t *testing.T) {
	var decoded LocalTime
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &decoded))
	require.Error(t, json.Unmarshal([]byte(`42`), &decoded))
}

func TestCommentWireNames(t *testing.T) {
	data, err := json.Marshal(AppendRequest{Comment: "hello"})
	require.NoError(t, err)
	require.Equal(t, `{"comment":"hello"}`, string(data))
}

func TestConversion(t *testing.T) {
	created := store.Now()
	updated := created.Add(time.Hour)
	c := store.Collection{ID: 7, Title: "20240101", CreatedAt: created, UpdatedAt: &updated}

	back := FromCollection(c).Collection()
	require.Equal(t, c.ID, back.ID)
	require.Equal(t, c.Title, back.Title)
	require.True(t, created.Equal(back.CreatedAt))
	require.NotNil(t, back.UpdatedAt)
	require.True(t, updated.Equal(*back.UpdatedAt))

	e := store.Entry{ID: 3, CollectionID: 7, Body: "note", CreatedAt: created}
	require.Equal(t, e.Body, FromEntry(e).Entry(7).Body)
	require.Equal(t, uint64(7), FromEntry(e).Entry(7).CollectionID)
}

func TestStatusMapping(t *testing.T) {
	for _, code := range []store.RetCode{store.RetCInvalid, store.RetCNotFound, store.RetCConflict, store.RetCUnavailable} {
		status := StatusOf(store.NewError(code, "x"))
		require.Equal(t, code, CodeOfStatus(status), "code %s", code)
	}
	require.Equal(t, 500, StatusOf(errors.New("plain")))
	require.Equal(t, store.RetCUnavailable, CodeOfStatus(500))
	require.Equal(t, store.RetCUnavailable, CodeOfStatus(502))
}
