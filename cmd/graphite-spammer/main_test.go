package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mixpanel/graphite/metrics"
)

func TestSpam(t *testing.T) {
	sink := metrics.NewMockSink(time.Unix(1700000000, 0))
	spam(metrics.NewReceiver(sink, "graphite-spammer").ScopePrefix("spammer"), 8)

	lines := sink.Lines()
	assert.Len(t, lines, 17)
	assert.Equal(t, "graphite-spammer.spammer.test_counter.COUNTER 1 1700000000\n", lines[0])
	assert.Contains(t, lines[1], "graphite-spammer.spammer.test_gauge.GAUGE ")
}
