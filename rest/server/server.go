package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rest")

// Config holds the settings of the REST service
type Config struct {
	// Endpoint is the listen address (host:port)
	Endpoint string
	// Metrics enables GET /metrics
	Metrics bool
	// ShutdownTimeout bounds the graceful shutdown in Close, 0 uses 5 seconds
	ShutdownTimeout time.Duration
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\nREST SERVER\n")
	sb.WriteString(fmt.Sprintf("  %-22s: %s\n", "Endpoint", c.Endpoint))
	sb.WriteString(fmt.Sprintf("  %-22s: %t\n", "Metrics", c.Metrics))
	return sb.String()
}

// Server is the REST service for one backend
type Server struct {
	config   Config
	store    store.IStore
	validate *validator.Validate
	router   chi.Router

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// NewRESTServer creates a REST service serving the backend behind h.
// All requests go through the handle and never overlap.
//
// Usage:
//
//	s := server.NewRESTServer(server.Config{Endpoint: ":8080"}, handle.New(backend))
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRESTServer(config Config, h *handle.Shared) *Server {
	s := &Server{
		config:   config,
		store:    h.Store(),
		validate: validator.New(),
	}
	s.router = s.routes()

	Logger.Infof("Created REST Server")
	Logger.Debugf(config.String())
	return s
}

// Handler returns the http handler of the service
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/times", func(r chi.Router) {
		r.Get("/", s.listTimes)
		r.Post("/", s.createTimes)
		r.Get("/{id}/list", s.listComments)
		r.Post("/{id}/append", s.appendComment)
	})

	// collection-less routes of older clients, they act on the most recent collection
	r.Get("/list", s.listRecentComments)
	r.Post("/append", s.appendRecentComment)

	if s.config.Metrics {
		r.Get("/metrics", writeMetrics)
	}

	return r
}

// Serve listens on the configured endpoint and serves requests until Close is called.
func (s *Server) Serve() error {
	listener, err := net.Listen("tcp", s.config.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to create listener: %v", err)
	}
	return s.ServeListener(listener)
}

// ServeListener serves requests on an existing listener until Close is called.
func (s *Server) ServeListener(listener net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = listener.Close()
		return net.ErrClosed
	}
	s.server = server
	s.mu.Unlock()

	Logger.Infof("Starting REST server on %s", listener.Addr())

	err := server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close shuts the service down gracefully. The backend is not closed.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.server == nil {
		return nil
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
