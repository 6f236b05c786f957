package httpd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"

	"webshare/internal/config"
)

// Server owns the listening socket and every in-flight connection handler.
// One goroutine is spawned per accepted connection with no admission cap;
// under hostile concurrent load this can exhaust file descriptors, which is
// accepted behavior for a LAN tool.
type Server struct {
	root string

	ln     net.Listener
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func New(cfg config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		root:   cfg.Root,
		ctx:    ctx,
		cancel: cancel,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Listen binds the listening socket. A bind failure is fatal to the caller.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address; valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve runs the accept loop until the listener is closed by Shutdown.
// Transient accept errors are logged and the loop continues.
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("accept: %v", err)
			continue
		}
		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Shutdown closes the listener, cancels the streaming context so chunk loops
// stop at their next boundary, force-closes every tracked connection, and
// waits for all handlers to return.
func (s *Server) Shutdown() {
	if s.ln != nil {
		_ = s.ln.Close()
	}
	s.cancel()
	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// handleConn reads exactly one request, dispatches it, and closes the
// connection. Every failure is contained here: parse failures before headers
// drop the connection silently, anything later answers 500 with the error
// text. Nothing propagates across connections.
func (s *Server) handleConn(conn net.Conn) {
	defer s.untrack(conn)
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("handler panic: %v", r)
			_ = writeText(conn, 500, fmt.Sprintf("internal error: %v", r))
		}
	}()

	req, err := ReadRequest(bufio.NewReader(conn))
	if err != nil {
		if req == nil {
			// Headers never completed; no response is possible.
			log.Printf("parse: %v", err)
			return
		}
		log.Printf("parse: %v", err)
		_ = writeText(conn, 500, err.Error())
		return
	}

	if err := s.dispatch(s.ctx, conn, req); err != nil {
		log.Printf("%s %s: %v", req.Method, req.RawPath, err)
		_ = writeText(conn, 500, err.Error())
	}
}
