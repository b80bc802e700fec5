package delivery

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/juju/ratelimit"

	"github.com/mixpanel/graphite/logging"
	"github.com/mixpanel/graphite/obserr"
)

// DialFunc opens a connection. It has the signature of net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

type Option func(*Channel)

func WithLogger(l logging.Logger) Option {
	return func(c *Channel) {
		c.log = l
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *Channel) {
		c.clock = clock
	}
}

func WithDialer(dial DialFunc) Option {
	return func(c *Channel) {
		c.dial = dial
	}
}

// Channel buffers plaintext lines and writes them to one Graphite server over a
// long-lived TCP connection.
//
// Enqueue never waits for I/O. Flush drains the queue to the current connection and,
// when the connection turns out to be broken, runs a bounded reconnect cycle before
// returning. Delivery is at most once: a line taken off the queue is never put back,
// even if its write failed. Failures are logged and never returned to the caller.
type Channel struct {
	config Config
	log    logging.Logger
	clock  clockwork.Clock
	dial   DialFunc
	bucket *ratelimit.Bucket

	ctx    context.Context
	cancel context.CancelFunc
	closed int32

	queue *queue

	// mu serializes flushes and reconnects and guards everything below
	mu           sync.Mutex
	conn         net.Conn
	connAddr     string
	connected    int32
	reportedDrop int64

	stats stats
}

// New validates config and builds a disconnected Channel. Cancelling ctx has the
// same effect as Close on any reconnect wait in progress.
func New(ctx context.Context, config Config, opts ...Option) (*Channel, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.Strategy == "" {
		config.Strategy = StrategyFirst
	}

	ctx, cancel := context.WithCancel(ctx)
	dialer := &net.Dialer{Timeout: config.ConnectTimeout}
	c := &Channel{
		config: config,
		log:    logging.Null,
		clock:  clockwork.NewRealClock(),
		dial:   dialer.DialContext,
		ctx:    ctx,
		cancel: cancel,
		queue:  newQueue(config.QueueCapacity, config.DropPolicy),
	}
	for _, opt := range opts {
		opt(c)
	}

	if config.MaxLinesPerSecond > 0 {
		capacity := int64(config.MaxLinesPerSecond)
		if capacity < 1 {
			capacity = 1
		}
		c.bucket = ratelimit.NewBucketWithRate(config.MaxLinesPerSecond, capacity)
	}
	return c, nil
}

// Enqueue appends line to the tail of the queue.
func (c *Channel) Enqueue(line string) {
	if atomic.LoadInt32(&c.closed) == 1 {
		atomic.AddInt64(&c.stats.linesDropped, 1)
		return
	}
	if c.queue.push(line) {
		atomic.AddInt64(&c.stats.linesDropped, 1)
	}
}

func (c *Channel) EnqueueAll(lines []string) {
	for _, line := range lines {
		c.Enqueue(line)
	}
}

// Connect makes a single connection attempt, replacing any current connection.
// The error is also logged; the channel stays disconnected on failure.
func (c *Channel) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed() {
		return obserr.Newf(obserr.KindBroken, "graphite channel is closed")
	}
	c.closeConn()
	return c.connect(1)
}

// Flush writes queued lines in FIFO order until the queue is empty. Lines enqueued
// while the drain runs may or may not be included.
func (c *Channel) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed() {
		return
	}
	c.reportDrops()

	if c.conn == nil {
		err := obserr.New(errNotConnected).WithKind(obserr.KindBroken).Set("queued", c.queue.len())
		c.log.Error("no connection to graphite", logging.Fields{}.WithError(err))
		c.reconnect()
		return
	}

	for {
		line, ok := c.queue.pop()
		if !ok {
			return
		}
		if err := c.write(line); err != nil {
			atomic.AddInt64(&c.stats.linesLost, 1)
			atomic.AddInt64(&c.stats.writeErrors, 1)

			kind := classify(err)
			e := obserr.Wrap(err, kind, "writing to graphite").Set("server", c.connAddr, "queued", c.queue.len())
			c.log.Error("error writing to graphite", logging.Fields{}.WithError(e))
			if kind == obserr.KindBroken {
				c.reconnect()
			}
			return
		}
		atomic.AddInt64(&c.stats.linesWritten, 1)
	}
}

// Close stops any reconnect wait and closes the connection. Lines still queued are
// discarded along with the Channel.
func (c *Channel) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if remaining := c.queue.len(); remaining > 0 {
		c.log.Warn("closing graphite channel with undelivered lines", logging.Fields{"queued": remaining})
	}
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.setConn(nil, "")
	return err
}

// Len is the number of lines waiting for a flush.
func (c *Channel) Len() int {
	return c.queue.len()
}

func (c *Channel) Connected() bool {
	return atomic.LoadInt32(&c.connected) == 1
}

func (c *Channel) Stats() Stats {
	return c.stats.snapshot()
}

func (c *Channel) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

func (c *Channel) write(line string) error {
	if c.bucket != nil {
		c.bucket.Wait(1)
	}
	if c.config.WriteTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(c.conn, line)
	return err
}

// connect dials the server for the given 1-based attempt. c.mu must be held.
func (c *Channel) connect(attempt int) error {
	address := c.config.address(attempt)
	atomic.AddInt64(&c.stats.connectAttempts, 1)

	conn, err := c.dial(c.ctx, "tcp", address)
	if err != nil {
		atomic.AddInt64(&c.stats.connectFailures, 1)
		e := obserr.Wrap(err, obserr.KindConnect, "connecting to graphite").Set("server", address, "attempt", attempt)
		c.log.Error("unable to connect to graphite", logging.Fields{}.WithError(e))
		return e
	}

	c.setConn(conn, address)
	c.log.Info("connected to graphite", logging.Fields{"server": address, "attempt": attempt})
	return nil
}

// closeConn drops the current connection. c.mu must be held.
func (c *Channel) closeConn() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		e := obserr.Wrap(err, classify(err), "closing graphite connection").Set("server", c.connAddr)
		c.log.Error("error closing graphite connection", logging.Fields{}.WithError(e))
	}
	c.setConn(nil, "")
}

func (c *Channel) setConn(conn net.Conn, address string) {
	c.conn = conn
	c.connAddr = address
	if conn == nil {
		atomic.StoreInt32(&c.connected, 0)
	} else {
		atomic.StoreInt32(&c.connected, 1)
	}
}

// reportDrops logs lines lost to the queue bound since the previous flush.
func (c *Channel) reportDrops() {
	dropped := atomic.LoadInt64(&c.stats.linesDropped)
	if dropped == c.reportedDrop {
		return
	}
	c.log.Warn("graphite queue full, lines dropped", logging.Fields{
		"dropped":     dropped - c.reportedDrop,
		"capacity":    c.config.QueueCapacity,
		"drop_policy": string(c.queue.policy),
	})
	c.reportedDrop = dropped
}
