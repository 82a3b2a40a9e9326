package server

import (
	"context"

	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/ValentinKolb/timesman/rpc/common"
)

func NewIStoreServerAdapter() IRPCServerAdapter {
	return &iStoreServerAdapterImpl{}
}

type iStoreServerAdapterImpl struct{}

func (adapter *iStoreServerAdapterImpl) Handle(ctx context.Context, req *common.Message, s store.IStore) *common.Message {
	if s == nil {
		return common.NewErrorResponse(store.RetCInternalError, "handler: store is nil")
	}

	switch req.MsgType {
	case common.MsgTListCollections:
		collections, err := s.ListCollections(ctx)
		return common.NewListCollectionsResponse(collections, err)
	case common.MsgTCreateCollection:
		collection, err := s.CreateCollection(ctx, req.Title)
		return common.NewCreateCollectionResponse(collection, err)
	case common.MsgTLatestEntry:
		entry, ok, err := s.LatestEntry(ctx, req.CollectionID)
		return common.NewLatestEntryResponse(entry, ok, err)
	case common.MsgTAppendEntry:
		entry, err := s.AppendEntry(ctx, req.CollectionID, req.Body)
		return common.NewAppendEntryResponse(entry, err)
	case common.MsgTListEntries:
		entries, err := s.ListEntries(ctx, req.CollectionID)
		return common.NewListEntriesResponse(entries, err)
	default:
		return common.NewErrorResponse(store.RetCInvalid, "unsupported message type: "+req.MsgType.String())
	}
}
