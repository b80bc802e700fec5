// Package graphitetest provides an in-process plaintext Graphite receiver.
package graphitetest

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"
)

// Server accepts any number of connections on the loopback interface and records
// every line it reads, newline included.
type Server struct {
	listener *net.TCPListener
	wg       sync.WaitGroup

	mu       sync.Mutex
	lines    []string
	conns    map[*net.TCPConn]struct{}
	accepted int
}

// NewServer listens on 127.0.0.1:port. Port 0 picks a free one.
func NewServer(port int) (*Server, error) {
	addr, err := net.ResolveTCPAddr("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, err
	}
	listener, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		listener: listener,
		conns:    make(map[*net.TCPConn]struct{}),
	}
	s.wg.Add(1)
	go s.serve()
	return s, nil
}

func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.AcceptTCP()
		if err != nil {
			return
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.accepted++
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *Server) handle(conn *net.TCPConn) {
	defer s.wg.Done()
	defer s.forget(conn)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		s.mu.Lock()
		s.lines = append(s.lines, scanner.Text()+"\n")
		s.mu.Unlock()
	}
}

func (s *Server) forget(conn *net.TCPConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
	_ = conn.Close()
}

func (s *Server) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// Accepted is the number of connections accepted so far.
func (s *Server) Accepted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}

// WaitForLines polls until at least n lines arrived or timeout passes.
func (s *Server) WaitForLines(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if len(s.Lines()) >= n {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// DropConnections closes every open connection while still accepting new ones.
func (s *Server) DropConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.SetLinger(0)
		_ = conn.Close()
	}
}

// Close stops accepting, drops open connections and waits for the handlers to finish.
func (s *Server) Close() {
	_ = s.listener.Close()
	s.DropConnections()
	s.wg.Wait()
}
