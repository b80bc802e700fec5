package main

import (
	"bufio"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixpanel/graphite/metrics"
)

func TestIngest(t *testing.T) {
	now := time.Unix(1700000000, 0)
	sink := metrics.NewMockSink(now)
	r := metrics.NewReceiver(sink, "web01.example.com")

	require.NoError(t, ingest(r, "requests 42"))
	require.NoError(t, ingest(r, "load.avg 0.5 1699999999"))
	require.NoError(t, ingest(r, "   "))
	assert.Error(t, ingest(r, "requests"))
	assert.Error(t, ingest(r, "requests many"))
	assert.Error(t, ingest(r, "a 1 2 3"))

	assert.Equal(t, []string{
		"web01-example-com.requests.GAUGE 42 1700000000\n",
		"web01-example-com.load.avg.GAUGE 0.5 1700000000\n",
	}, sink.Lines())
}

func TestReadLines(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("a 1\nb 2\n"))
	var got []string
	for line := range readLines(context.Background(), scanner) {
		got = append(got, line)
	}
	assert.Equal(t, []string{"a 1", "b 2"}, got)
}

func TestResolveHostname(t *testing.T) {
	hostname, err := resolveHostname("web01")
	require.NoError(t, err)
	assert.Equal(t, "web01", hostname)
}
