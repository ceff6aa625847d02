package server

import (
	"chat-server/protocol"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
)

// Sentinel ends the current connection without a response.
const Sentinel = "END"

// Listen binds the TCP listener the server accepts from.
func Listen(host string, port int) (net.Listener, error) {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return listener, nil
}

// Server serves one connection at a time: a second client waits in the
// listener backlog until the current one sends the sentinel or disconnects.
// Each read of up to bufferSize bytes is one request; longer requests are cut.
type Server struct {
	log        *slog.Logger
	listener   net.Listener
	engine     protocol.IEngine
	bufferSize int
}

func NewServer(log *slog.Logger, listener net.Listener, engine protocol.IEngine, bufferSize int) *Server {
	return &Server{log: log, listener: listener, engine: engine, bufferSize: bufferSize}
}

// Run implements contract.Worker. It returns nil once ctx is canceled
// or the listener is closed.
func (s *Server) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.listener.Close() })
	defer stop()

	s.log.Info("Accepting connections", "address", s.listener.Addr().String())
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		s.serve(ctx, conn)
	}
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.log.Info("Connection accepted", "remote", remote)

	buffer := make([]byte, s.bufferSize)
	for {
		n, err := conn.Read(buffer)
		if n > 0 && !s.answer(conn, remote, string(buffer[:n])) {
			return
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				s.log.Warn("Read failed", "remote", remote, "error", err)
			}
			s.log.Info("Connection closed", "remote", remote)
			return
		}
	}
}

// answer handles one request and reports whether the connection stays open.
func (s *Server) answer(conn net.Conn, remote, raw string) bool {
	request := strings.TrimSpace(raw)
	if request == Sentinel {
		s.log.Info("Sentinel received", "remote", remote)
		return false
	}

	response, err := s.engine.Handle(request)
	if err != nil {
		s.log.Warn("Dropping connection", "remote", remote, "request", request, "error", err)
		return false
	}
	if response == "" {
		return true
	}
	if _, err = conn.Write([]byte(response)); err != nil {
		s.log.Warn("Write failed", "remote", remote, "error", err)
		return false
	}
	return true
}
