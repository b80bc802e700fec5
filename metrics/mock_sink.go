package metrics

import (
	"sync"
	"time"
)

// MockSink keeps every record it is handed and renders them with a fixed clock.
type MockSink struct {
	mutex      sync.Mutex
	numFlushes int
	records    []Record
	now        time.Time
}

func NewMockSink(now time.Time) *MockSink {
	return &MockSink{now: now}
}

func (sink *MockSink) PutMetrics(record Record) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	sink.records = append(sink.records, record)
}

func (sink *MockSink) Flush() error {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()

	sink.numFlushes++
	return nil
}

func (sink *MockSink) Close() {}

func (sink *MockSink) NumFlushes() int {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	return sink.numFlushes
}

func (sink *MockSink) Records() []Record {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	records := make([]Record, len(sink.records))
	copy(records, sink.records)
	return records
}

// Lines formats every record received so far.
func (sink *MockSink) Lines() []string {
	var lines []string
	for _, record := range sink.Records() {
		lines = append(lines, FormatLines(record, sink.now)...)
	}
	return lines
}
