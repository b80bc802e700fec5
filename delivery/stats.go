package delivery

import "sync/atomic"

// Stats counts what a Channel has done since it was created.
type Stats struct {
	LinesWritten        int64
	LinesLost           int64 // dequeued but not delivered
	LinesDropped        int64 // evicted by the queue bound or enqueued after Close
	ConnectAttempts     int64
	ConnectFailures     int64
	ReconnectCycles     int64
	ReconnectsExhausted int64
	WriteErrors         int64
}

type stats struct {
	linesWritten        int64
	linesLost           int64
	linesDropped        int64
	connectAttempts     int64
	connectFailures     int64
	reconnectCycles     int64
	reconnectsExhausted int64
	writeErrors         int64
}

func (s *stats) snapshot() Stats {
	return Stats{
		LinesWritten:        atomic.LoadInt64(&s.linesWritten),
		LinesLost:           atomic.LoadInt64(&s.linesLost),
		LinesDropped:        atomic.LoadInt64(&s.linesDropped),
		ConnectAttempts:     atomic.LoadInt64(&s.connectAttempts),
		ConnectFailures:     atomic.LoadInt64(&s.connectFailures),
		ReconnectCycles:     atomic.LoadInt64(&s.reconnectCycles),
		ReconnectsExhausted: atomic.LoadInt64(&s.reconnectsExhausted),
		WriteErrors:         atomic.LoadInt64(&s.writeErrors),
	}
}
