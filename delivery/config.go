package delivery

import (
	"time"

	"github.com/mixpanel/graphite/obserr"
)

// ConnectStrategy picks the server a connection attempt is made against.
type ConnectStrategy string

const (
	// StrategyFirst always targets the first configured server.
	StrategyFirst = ConnectStrategy("first")
	// StrategyFailover walks the server list, one server per attempt.
	StrategyFailover = ConnectStrategy("failover")
)

// DropPolicy decides which line goes when a bounded queue is full.
type DropPolicy string

const (
	DropOldest = DropPolicy("oldest")
	DropNewest = DropPolicy("newest")
)

type Config struct {
	// Servers are host:port destinations, already normalized.
	Servers []string

	// RetryInterval is the wait between reconnect attempts and MaxRetries bounds
	// the attempts of one reconnect cycle.
	RetryInterval time.Duration
	MaxRetries    int
	Strategy      ConnectStrategy

	// A QueueCapacity of zero leaves the queue unbounded.
	QueueCapacity int
	DropPolicy    DropPolicy

	ConnectTimeout time.Duration
	WriteTimeout   time.Duration

	// A MaxLinesPerSecond of zero disables write throttling.
	MaxLinesPerSecond float64
}

func (c Config) validate() error {
	if len(c.Servers) == 0 {
		return obserr.Newf(obserr.KindConfig, "no graphite servers configured")
	}
	for _, server := range c.Servers {
		if len(server) == 0 {
			return obserr.Newf(obserr.KindConfig, "empty graphite server address")
		}
	}
	if c.RetryInterval < 0 {
		return obserr.Newf(obserr.KindConfig, "negative retry interval %v", c.RetryInterval)
	}
	if c.MaxRetries < 0 {
		return obserr.Newf(obserr.KindConfig, "negative connection retries %d", c.MaxRetries)
	}
	if c.QueueCapacity < 0 {
		return obserr.Newf(obserr.KindConfig, "negative queue capacity %d", c.QueueCapacity)
	}
	if c.MaxLinesPerSecond < 0 {
		return obserr.Newf(obserr.KindConfig, "negative line rate %v", c.MaxLinesPerSecond)
	}
	switch c.Strategy {
	case "", StrategyFirst, StrategyFailover:
	default:
		return obserr.Newf(obserr.KindConfig, "unknown connect strategy %q", c.Strategy)
	}
	switch c.DropPolicy {
	case "", DropOldest, DropNewest:
	default:
		return obserr.Newf(obserr.KindConfig, "unknown drop policy %q", c.DropPolicy)
	}
	return nil
}

// address returns the server targeted by the given 1-based attempt.
func (c Config) address(attempt int) string {
	if c.Strategy == StrategyFailover && attempt > 0 {
		return c.Servers[(attempt-1)%len(c.Servers)]
	}
	return c.Servers[0]
}
