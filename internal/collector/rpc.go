package collector

import (
	"fmt"
	"net"
	"net/rpc"
	"os"
)

// Service exposes a Collector's Started/Signalled/Stopped methods to
// net/rpc, the transport chosen (and justified in DESIGN.md) because no
// lightweight local-IPC library was available and the collector transport
// is otherwise unconstrained.
type Service struct {
	collector *Collector
}

// NewService wraps c for RPC registration.
func NewService(c *Collector) *Service { return &Service{collector: c} }

// None is the unused reply type for one-way notifications.
type None struct{}

// Started is the RPC entry point for a supervisor reporting a process
// start.
func (s *Service) Started(args StartedArgs, _ *None) error {
	return s.collector.Started(args)
}

// Signalled is the RPC entry point for a supervisor reporting a signal.
func (s *Service) Signalled(args SignalledArgs, _ *None) error {
	return s.collector.Signalled(args)
}

// Stopped is the RPC entry point for a supervisor reporting a process
// exit.
func (s *Service) Stopped(args StoppedArgs, _ *None) error {
	return s.collector.Stopped(args)
}

// Server listens on a Unix domain socket and serves one Collector's
// Service to any number of concurrent supervisor clients.
type Server struct {
	rpcServer *rpc.Server
	listener  net.Listener
	addr      string
}

// Listen binds a Unix domain socket at addr (removing any stale socket
// file first) and registers c's Service against it. Call Serve to accept
// connections.
func Listen(addr string, c *Collector) (*Server, error) {
	_ = os.Remove(addr)

	ln, err := net.Listen("unix", addr)
	if err != nil {
		return nil, fmt.Errorf("collector: listen on %s: %w", addr, err)
	}

	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName("Collector", NewService(c)); err != nil {
		ln.Close() //nolint:errcheck
		return nil, fmt.Errorf("collector: register service: %w", err)
	}

	return &Server{rpcServer: rpcServer, listener: ln, addr: addr}, nil
}

// Addr returns the Unix socket path this server is bound to.
func (s *Server) Addr() string { return s.addr }

// Serve accepts and serves connections until the listener is closed.
func (s *Server) Serve() error {
	s.rpcServer.Accept(s.listener)
	return nil
}

// Close stops accepting new connections and removes the socket file.
func (s *Server) Close() error {
	err := s.listener.Close()
	_ = os.Remove(s.addr)
	return err
}
