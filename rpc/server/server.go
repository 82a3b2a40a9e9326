package server

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/ValentinKolb/timesman/rpc/common"
	"github.com/ValentinKolb/timesman/rpc/serializer"
	"github.com/ValentinKolb/timesman/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// NewRPCServer creates a new RPC server serving the backend behind h.
// Every request is executed through the handle, so requests of all connections
// are serialized.
//
// Usage:
//
//	s := server.NewRPCServer(
//		config,
//		http.NewHttpServerTransport(),
//		serializer.NewJSONSerializer(),
//		handle.New(backend),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
	h *handle.Shared,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Debugf(config.String())

	s := &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		store:      h.Store(),
		adapter:    NewIStoreServerAdapter(),
	}
	s.registerTransportHandler()
	return s
}

// RPCServer serves one backend over one transport.
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	store      store.IStore
	adapter    IRPCServerAdapter
}

func (s *RPCServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(ctx context.Context, req []byte) []byte {
		var msg common.Message
		var respMsg *common.Message

		if err := s.serializer.Deserialize(req, &msg); err != nil {
			respMsg = common.NewErrorResponse(store.RetCMalformed, fmt.Sprintf("failed to deserialize request: %s", err))
		} else {
			respMsg = s.adapter.Handle(ctx, &msg, s.store)
		}

		val, err := s.serializer.Serialize(*respMsg)
		if err != nil {
			Logger.Errorf("failed to serialize %s response: %v", respMsg.MsgType, err)
			val, _ = s.serializer.Serialize(*common.NewErrorResponse(store.RetCInternalError, fmt.Sprintf("failed to serialize response: %s", err)))
		}
		return val
	})
}

// Serve listens on the configured endpoint and serves requests until Close is called.
func (s *RPCServer) Serve() error {
	return s.transport.Listen(s.config)
}

// ServeListener serves requests on an existing listener until Close is called.
func (s *RPCServer) ServeListener(listener net.Listener) error {
	return s.transport.Serve(listener, s.config)
}

// Close stops the transport. The backend is not closed.
func (s *RPCServer) Close() error {
	return s.transport.Close()
}
