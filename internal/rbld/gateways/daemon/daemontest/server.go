// Package daemontest provides an in-process rbld stand-in listening on a unix
// socket, for exercising the client and the command end to end.
package daemontest

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// maxAcceptDelay caps the backoff after a failed Accept.
const maxAcceptDelay = time.Second

// Handler decides the reply for one request line (without its newline).
// A nil or empty reply closes the stream without writing, the not-listed signal.
type Handler func(line string) []byte

// NotListed never matches.
func NotListed() Handler {
	return func(string) []byte { return nil }
}

// Listed matches every request.
func Listed() Handler {
	return func(string) []byte { return []byte{'1'} }
}

// ListedHosts matches requests whose "<list> <host>" pair is present in entries,
// keyed by list then host.
func ListedHosts(entries map[string][]string) Handler {
	set := make(map[string]struct{})
	for list, hosts := range entries {
		for _, h := range hosts {
			set[list+" "+h] = struct{}{}
		}
	}
	return func(line string) []byte {
		if _, ok := set[line]; ok {
			return []byte{'1'}
		}
		return nil
	}
}

// Hang blocks every request until release is closed, then replies not-listed.
func Hang(release <-chan struct{}) Handler {
	return func(string) []byte {
		<-release
		return nil
	}
}

// Server is a minimal rbld-compatible listener.
type Server struct {
	path    string
	handler Handler

	mu       sync.RWMutex
	listener net.Listener
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
	requests []string
}

// NewServer creates a server that will listen on the unix socket at path.
func NewServer(path string, handler Handler) *Server {
	return &Server{
		path:    path,
		handler: handler,
		stopCh:  make(chan struct{}),
	}
}

// Start binds the socket and begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("daemon stand-in already running")
	}

	l, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("failed to bind unix socket %s: %w", s.path, err)
	}

	s.listener = l
	s.running = true
	s.stopCh = make(chan struct{})

	s.wg.Add(1)
	go s.acceptLoop(ctx, l, s.stopCh)
	return nil
}

// Stop closes the listener and waits for in-flight connections to finish.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	close(s.stopCh)
	s.running = false
	err := s.listener.Close()
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// Address returns the socket path.
func (s *Server) Address() string {
	return s.path
}

// Requests returns the request lines received so far, in arrival order.
func (s *Server) Requests() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.requests...)
}

// acceptLoop hands each connection to its own goroutine until stopped.
// Accept failures other than shutdown back off, doubling up to maxAcceptDelay.
func (s *Server) acceptLoop(ctx context.Context, l net.Listener, stopCh <-chan struct{}) {
	defer s.wg.Done()
	var delay time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else if delay *= 2; delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-time.After(delay):
				continue
			}
		}
		delay = 0
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// handleConn reads one request line, records it, and replies per the handler.
func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return
	}
	line = strings.TrimSuffix(line, "\n")

	s.mu.Lock()
	s.requests = append(s.requests, line)
	s.mu.Unlock()

	if reply := s.handler(line); len(reply) > 0 {
		_, _ = conn.Write(reply)
	}
}
