package graphite

import (
	"context"
	"runtime"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sys/unix"

	"github.com/mixpanel/graphite/metrics"
)

// ReportStandardMetrics reports GC, uptime and resource usage of the process every
// interval until ctx is done.
func ReportStandardMetrics(ctx context.Context, clock clockwork.Clock, interval time.Duration, r metrics.Receiver) {
	reportGCMetrics(ctx, clock, interval, r)
	reportUptime(ctx, clock, interval, r)
	reportRusage(ctx, clock, interval, r)
}

// ReportSinkStats reports the delivery counters of sink every interval until ctx is done.
func ReportSinkStats(ctx context.Context, clock clockwork.Clock, interval time.Duration, sink *Sink, r metrics.Receiver) {
	r = r.ScopePrefix("graphite")
	every(ctx, clock, interval, func() {
		stats := sink.Stats()
		r.SetGauge("lines_written", float64(stats.LinesWritten))
		r.SetGauge("lines_lost", float64(stats.LinesLost))
		r.SetGauge("lines_dropped", float64(stats.LinesDropped))
		r.SetGauge("connect_failures", float64(stats.ConnectFailures))
		r.SetGauge("reconnects_exhausted", float64(stats.ReconnectsExhausted))
		r.SetGauge("queued", float64(sink.Pending()))
		connected := float64(0)
		if sink.Connected() {
			connected = 1
		}
		r.SetGauge("connected", connected)
	})
}

// every runs fn right away and then every interval on its own goroutine.
func every(ctx context.Context, clock clockwork.Clock, interval time.Duration, fn func()) {
	go func() {
		next := clock.After(0)
		for {
			select {
			case <-ctx.Done():
				return
			case <-next:
				fn()
				next = clock.After(interval)
			}
		}
	}()
}

func reportUptime(ctx context.Context, clock clockwork.Clock, interval time.Duration, r metrics.Receiver) {
	startTime := clock.Now()
	every(ctx, clock, interval, func() {
		r.SetGauge("uptime_sec", clock.Now().Sub(startTime).Seconds())
	})
}

func reportRusage(ctx context.Context, clock clockwork.Clock, interval time.Duration, r metrics.Receiver) {
	r = r.ScopePrefix("rusage")
	every(ctx, clock, interval, func() {
		var rusage unix.Rusage
		if err := unix.Getrusage(unix.RUSAGE_SELF, &rusage); err != nil {
			return
		}
		r.SetGauge("user_us", float64(rusage.Utime.Sec*1e6+rusage.Utime.Usec))
		r.SetGauge("system_us", float64(rusage.Stime.Sec*1e6+rusage.Stime.Usec))
		r.SetGauge("max_rss_kb", float64(rusage.Maxrss))
		r.SetGauge("voluntary_cs", float64(rusage.Nvcsw))
		r.SetGauge("involuntary_cs", float64(rusage.Nivcsw))
	})
}

func reportGCMetrics(ctx context.Context, clock clockwork.Clock, interval time.Duration, r metrics.Receiver) {
	r = r.ScopePrefix("gc")
	numGCs := uint32(0)
	memstats := &runtime.MemStats{}
	every(ctx, clock, interval, func() {
		numGCs = reportGCsSince(memstats, numGCs, r)
	})
}

func reportGCsSince(memstats *runtime.MemStats, lastCount uint32, r metrics.Receiver) uint32 {
	runtime.ReadMemStats(memstats)
	newCount := memstats.NumGC
	r.SetGauge("heap_allocated_bytes", float64(memstats.HeapAlloc))
	r.SetGauge("total_heap_allocated_bytes", float64(memstats.TotalAlloc))
	r.SetGauge("system_allocated_bytes", float64(memstats.Sys))

	expected := newCount - lastCount
	if expected == 0 {
		return newCount
	}

	r.IncrBy("cycles", float64(expected))
	numPresent := uint32(len(memstats.PauseNs))
	if numPresent < expected {
		r.IncrBy("cycles_missed", float64(expected-numPresent))
		lastCount = newCount - numPresent
	}

	for i := lastCount + 1; i <= newCount; i++ {
		pauseNs := memstats.PauseNs[(i+numPresent-1)%numPresent]
		r.AddStat("pause_ns", float64(pauseNs))
	}
	return newCount
}
