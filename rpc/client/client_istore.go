package client

import (
	"context"

	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/ValentinKolb/timesman/rpc/common"
	"github.com/ValentinKolb/timesman/rpc/serializer"
	"github.com/ValentinKolb/timesman/rpc/transport"
)

// NewRPCStore creates a new RPC store
// The function takes a config, a transport and a serializer as parameters
// It connects the transport and returns a store.IStore
func NewRPCStore(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (store.IStore, error) {

	if err := transport.Connect(config); err != nil {
		return nil, store.Errorf(store.RetCUnavailable, "connect: %v", err)
	}

	s := rpcStore{
		rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	return &s, nil
}

type rpcStore struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore) ListCollections(ctx context.Context) ([]store.Collection, error) {
	resp, err := invokeRPCRequest(ctx, common.NewListCollectionsRequest(), i.transport, i.serializer)
	if err != nil {
		return nil, err
	}

	collections := make([]store.Collection, 0, len(resp.Collections))
	for _, w := range resp.Collections {
		c, err := w.Collection()
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, nil
}

func (i *rpcStore) CreateCollection(ctx context.Context, title string) (store.Collection, error) {
	resp, err := invokeRPCRequest(ctx, common.NewCreateCollectionRequest(title), i.transport, i.serializer)
	if err != nil {
		return store.Collection{}, err
	}
	if len(resp.Collections) != 1 {
		return store.Collection{}, store.Errorf(store.RetCMalformed, "create_collection: expected one collection, got %d", len(resp.Collections))
	}
	return resp.Collections[0].Collection()
}

func (i *rpcStore) LatestEntry(ctx context.Context, collectionID uint64) (store.Entry, bool, error) {
	resp, err := invokeRPCRequest(ctx, common.NewLatestEntryRequest(collectionID), i.transport, i.serializer)
	if err != nil {
		return store.Entry{}, false, err
	}
	if !resp.Ok {
		return store.Entry{}, false, nil
	}
	if len(resp.Entries) != 1 {
		return store.Entry{}, false, store.Errorf(store.RetCMalformed, "latest_entry: expected one entry, got %d", len(resp.Entries))
	}
	e, err := resp.Entries[0].Entry()
	if err != nil {
		return store.Entry{}, false, err
	}
	return e, true, nil
}

func (i *rpcStore) AppendEntry(ctx context.Context, collectionID uint64, body string) (store.Entry, error) {
	resp, err := invokeRPCRequest(ctx, common.NewAppendEntryRequest(collectionID, body), i.transport, i.serializer)
	if err != nil {
		return store.Entry{}, err
	}
	if len(resp.Entries) != 1 {
		return store.Entry{}, store.Errorf(store.RetCMalformed, "append_entry: expected one entry, got %d", len(resp.Entries))
	}
	return resp.Entries[0].Entry()
}

func (i *rpcStore) ListEntries(ctx context.Context, collectionID uint64) ([]store.Entry, error) {
	resp, err := invokeRPCRequest(ctx, common.NewListEntriesRequest(collectionID), i.transport, i.serializer)
	if err != nil {
		return nil, err
	}

	entries := make([]store.Entry, 0, len(resp.Entries))
	for _, w := range resp.Entries {
		e, err := w.Entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (i *rpcStore) Close() error {
	if err := i.transport.Close(); err != nil {
		return store.Errorf(store.RetCInternalError, "close transport: %v", err)
	}
	return nil
}
