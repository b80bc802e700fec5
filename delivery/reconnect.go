package delivery

import (
	"sync/atomic"

	"github.com/mixpanel/graphite/logging"
	"github.com/mixpanel/graphite/obserr"
)

// reconnect runs one reconnect cycle: close the current connection, then make up to
// MaxRetries attempts with RetryInterval between them. Running out of attempts
// leaves the channel disconnected until the next flush starts a new cycle.
// c.mu must be held.
func (c *Channel) reconnect() {
	atomic.AddInt64(&c.stats.reconnectCycles, 1)
	c.closeConn()

	retries := c.config.MaxRetries
	for attempt := 1; attempt <= retries; attempt++ {
		if c.ctx.Err() != nil {
			return
		}
		if err := c.connect(attempt); err == nil {
			return
		}
		if attempt == retries {
			break
		}

		c.log.Info("retrying graphite connection", logging.Fields{
			"retry_in":     c.config.RetryInterval.String(),
			"attempt":      attempt,
			"max_attempts": retries,
		})
		select {
		case <-c.clock.After(c.config.RetryInterval):
		case <-c.ctx.Done():
			return
		}
	}

	atomic.AddInt64(&c.stats.reconnectsExhausted, 1)
	err := obserr.Newf(obserr.KindExhausted, "gave up connecting to graphite after %d attempts", retries).
		Set("queued", c.queue.len(), "server", c.config.address(retries))
	c.log.Error("graphite unreachable", logging.Fields{}.WithError(err))
}
