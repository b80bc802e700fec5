package delivery

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sys/unix"
)

var (
	resetErr   = &net.OpError{Op: "write", Net: "tcp", Err: os.NewSyscallError("write", unix.ECONNRESET)}
	refusedErr = &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", unix.ECONNREFUSED)}
)

type fakeAddr string

func (a fakeAddr) Network() string {
	return "tcp"
}

func (a fakeAddr) String() string {
	return string(a)
}

// scriptedConn records every successful write and fails the failAt'th one.
type scriptedConn struct {
	mu       sync.Mutex
	writes   int
	written  []string
	failAt   int
	failErr  error
	closed   bool
	deadline time.Time
}

func (c *scriptedConn) Read(b []byte) (int, error) {
	return 0, nil
}

func (c *scriptedConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writes++
	if c.writes == c.failAt {
		return 0, c.failErr
	}
	c.written = append(c.written, string(b))
	return len(b), nil
}

func (c *scriptedConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *scriptedConn) Written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.written...)
}

func (c *scriptedConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *scriptedConn) LocalAddr() net.Addr {
	return fakeAddr("127.0.0.1:50000")
}

func (c *scriptedConn) RemoteAddr() net.Addr {
	return fakeAddr("carbon:2003")
}

func (c *scriptedConn) SetDeadline(t time.Time) error {
	return nil
}

func (c *scriptedConn) SetReadDeadline(t time.Time) error {
	return nil
}

func (c *scriptedConn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}

type dialResult struct {
	conn net.Conn
	err  error
}

// fakeDialer hands out results in order and repeats the last one forever.
type fakeDialer struct {
	mu        sync.Mutex
	results   []dialResult
	addresses []string
}

func (d *fakeDialer) dial(ctx context.Context, network, address string) (net.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.addresses = append(d.addresses, address)
	idx := len(d.addresses) - 1
	if idx >= len(d.results) {
		idx = len(d.results) - 1
	}
	result := d.results[idx]
	return result.conn, result.err
}

func (d *fakeDialer) Addresses() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.addresses...)
}

func (d *fakeDialer) Calls() int {
	return len(d.Addresses())
}

func alwaysRefused() *fakeDialer {
	return &fakeDialer{results: []dialResult{{err: refusedErr}}}
}

func dialing(conns ...net.Conn) *fakeDialer {
	d := &fakeDialer{}
	for _, conn := range conns {
		d.results = append(d.results, dialResult{conn: conn})
	}
	return d
}

func testConfig(servers ...string) Config {
	if len(servers) == 0 {
		servers = []string{"carbon:2003"}
	}
	return Config{
		Servers:       servers,
		RetryInterval: time.Minute,
		MaxRetries:    10,
	}
}

func newTestChannel(t *testing.T, config Config, dialer *fakeDialer, clock clockwork.Clock) *Channel {
	c, err := New(context.Background(), config, WithDialer(dialer.dial), WithClock(clock))
	if err != nil {
		t.Fatalf("unable to build channel: %v", err)
	}
	return c
}

func lines(n int) []string {
	res := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		res = append(res, "web01.m"+string(rune('0'+i))+".GAUGE 1 1700000000\n")
	}
	return res
}

type tcpEndpoint struct {
	address  string
	listener *net.TCPListener
	mu       sync.Mutex
	buf      *bytes.Buffer
	wg       *sync.WaitGroup
}

// newTcpEndpoint accepts a single connection and reads it until EOF.
func newTcpEndpoint(t *testing.T) *tcpEndpoint {
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	listener, err := net.ListenTCP("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}

	endpoint := &tcpEndpoint{
		address:  listener.Addr().String(),
		listener: listener,
		buf:      &bytes.Buffer{},
		wg:       &sync.WaitGroup{},
	}
	endpoint.wg.Add(1)
	go endpoint.serve()
	return endpoint
}

func (e *tcpEndpoint) serve() {
	defer e.wg.Done()
	conn, err := e.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	var received bytes.Buffer
	_, _ = received.ReadFrom(conn)
	e.mu.Lock()
	e.buf.Write(received.Bytes())
	e.mu.Unlock()
}

func (e *tcpEndpoint) Received() string {
	e.wg.Wait()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.String()
}

func (e *tcpEndpoint) Close() {
	_ = e.listener.Close()
}

func waitFor(t *testing.T, done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for flush")
	}
}

var errUnexpected = errors.New("unexpected")
