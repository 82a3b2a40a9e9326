package client

import (
	"context"
	"errors"

	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/ValentinKolb/timesman/rpc/common"
	"github.com/ValentinKolb/timesman/rpc/serializer"
	"github.com/ValentinKolb/timesman/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests
// It returns the response message or a *store.Error:
// transport failures are RetCUnavailable, undecodable or unexpected responses RetCMalformed,
// error responses carry the code sent by the server.
func invokeRPCRequest(ctx context.Context, req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Errorf(store.RetCUnavailable, "%s: %v", req.MsgType, err)
	}

	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, store.Errorf(store.RetCInternalError, "%s: failed to serialize request: %v", req.MsgType, err)
	}

	respBytes, err := transport.Send(ctx, reqBytes)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, store.Errorf(store.RetCUnavailable, "%s: %v", req.MsgType, err)
		}
		return nil, store.Errorf(store.RetCUnavailable, "%s: transport: %v", req.MsgType, err)
	}

	resp := &common.Message{}
	if err := serializer.Deserialize(respBytes, resp); err != nil {
		return nil, store.Errorf(store.RetCMalformed, "%s: failed to deserialize response: %v", req.MsgType, err)
	}

	if err := resp.AsError(); err != nil {
		return nil, err
	}
	if resp.MsgType == common.MsgTError {
		return nil, store.Errorf(store.RetCInternalError, "%s: server returned an error without message", req.MsgType)
	}

	if resp.MsgType != req.MsgType {
		return nil, store.Errorf(store.RetCMalformed, "unexpected message type: %s, expected %s", resp.MsgType, req.MsgType)
	}

	return resp, nil
}
