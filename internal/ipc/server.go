package ipc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Handler answers one request. A nil response is sent as a generic failure.
type Handler func(ctx context.Context, req Request) *Response

var peerIsCurrentUserFn = peerIsCurrentUser

// Server is the worker side of the line protocol: one JSON request line in,
// one JSON response line out, per connection. The browser worker itself is
// not written in Go; this server backs embedders and stub workers.
type Server struct {
	endpoint Endpoint
	handler  Handler
	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer creates a server that will listen on ep.
func NewServer(ep Endpoint, handler Handler) *Server {
	return &Server{endpoint: ep, handler: handler}
}

// Endpoint returns the listening endpoint. After Start, a TCP endpoint
// bound to port 0 reports the port the kernel picked.
func (s *Server) Endpoint() Endpoint {
	return s.endpoint
}

// Start begins listening. A stale Unix socket file is removed first.
func (s *Server) Start() error {
	if s.endpoint.Network == "unix" {
		os.Remove(s.endpoint.Address) //nolint:errcheck
	}

	ln, err := net.Listen(s.endpoint.Network, s.endpoint.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.endpoint, err)
	}
	if s.endpoint.Network == "unix" {
		if err := os.Chmod(s.endpoint.Address, 0600); err != nil {
			ln.Close()
			os.Remove(s.endpoint.Address) //nolint:errcheck
			return fmt.Errorf("setting socket permissions: %w", err)
		}
	} else {
		s.endpoint.Address = ln.Addr().String()
	}
	s.listener = ln

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()
	return nil
}

// Stop closes the listener and waits for in-flight connections.
func (s *Server) Stop() {
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	if s.endpoint.Network == "unix" {
		os.Remove(s.endpoint.Address) //nolint:errcheck
	}
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return // listener closed
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conn.Close()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	if _, ok := conn.(*net.UnixConn); ok {
		same, err := peerIsCurrentUserFn(conn)
		if err != nil {
			writeResponse(conn, &Response{Error: "peer uid check failed"})
			return
		}
		if !same {
			writeResponse(conn, &Response{Error: "peer uid mismatch"})
			return
		}
	}

	br := bufio.NewReader(conn)
	line, err := br.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return
	}

	var req Request
	if err := decodeRequest(line, &req); err != nil {
		writeResponse(conn, &Response{Error: "invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client half-closes nothing; a read returning means it went away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		br.ReadByte() //nolint:errcheck
		cancel()
	}()

	resp := s.handler(ctx, req)
	_ = conn.SetReadDeadline(time.Now())
	<-done
	_ = conn.SetReadDeadline(time.Time{})

	if resp == nil {
		resp = &Response{Error: "no response"}
	}
	writeResponse(conn, resp)
}

func decodeRequest(line []byte, req *Request) error {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return errors.New("empty request")
	}
	return json.Unmarshal(trimmed, req)
}

func writeResponse(conn net.Conn, resp *Response) {
	line, err := EncodeLine(resp)
	if err != nil {
		log.Debug("encoding response", "err", err)
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	conn.Write(line) //nolint:errcheck
}
