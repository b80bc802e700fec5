package metrics

import (
	"sync"
	"time"
)

// Receiver is the instrumentation-side API. Each call becomes a one-metric Record
// handed to the underlying Sink.
type Receiver interface {
	Incr(name string)
	IncrBy(name string, amount float64)
	AddStat(name string, value float64)
	SetGauge(name string, value float64)

	ScopePrefix(prefix string) Receiver
	// ScopeTags attaches tags to every Record the scope produces. The plaintext line
	// only carries the hostname, so scopes that differ by tags alone write identical
	// metric paths; put anything that must tell series apart in the prefix.
	ScopeTags(tags Tags) Receiver
	Scope(prefix string, tags Tags) Receiver

	StartStopwatch(name string) Stopwatch
}

type receiver struct {
	prefix   string
	tags     Tags
	hostname string
	tagList  []Tag

	// guards 'scopes'
	lock   sync.RWMutex
	scopes map[string]*receiver

	sink Sink
}

var Null Receiver = &receiver{
	scopes: make(map[string]*receiver),
	sink:   NullSink,
}

func (r *receiver) handle(name string, value float64, metricType MetricType) {
	r.sink.PutMetrics(Record{
		Name:      formatName(r.prefix, name),
		Timestamp: time.Now(),
		Tags:      r.tagList,
		Metrics: []Metric{{
			Name:  formatName(r.prefix, name),
			Type:  metricType,
			Value: value,
		}},
	})
}

func (r *receiver) Incr(name string) {
	r.IncrBy(name, 1)
}

func (r *receiver) IncrBy(name string, amount float64) {
	r.handle(name, amount, TypeCounter)
}

// AddStat reports a single observation. Aggregation is left to the destination, so
// stats are plain gauges on the wire.
func (r *receiver) AddStat(name string, value float64) {
	r.handle(name, value, TypeGauge)
}

func (r *receiver) SetGauge(name string, value float64) {
	r.handle(name, value, TypeGauge)
}

func (r *receiver) ScopeTags(tags Tags) Receiver {
	return r.Scope("", tags)
}

func (r *receiver) ScopePrefix(prefix string) Receiver {
	return r.Scope(prefix, nil)
}

func (r *receiver) Scope(prefix string, tags Tags) Receiver {
	if prefix == "" && tags == nil {
		return r
	}

	key := prefix + "|" + FormatTags(tags)

	r.lock.RLock()
	if val, ok := r.scopes[key]; ok {
		r.lock.RUnlock()
		return val
	}

	// key doesn't exist, update
	r.lock.RUnlock()
	newTags := make(Tags, len(tags)+len(r.tags))
	for k, v := range r.tags {
		newTags[k] = v
	}
	for k, v := range tags {
		newTags[k] = v
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if val, ok := r.scopes[key]; ok {
		return val
	}

	scoped := newReceiver(r.sink, formatName(r.prefix, prefix), newTags, r.hostname)
	r.scopes[key] = scoped
	return scoped
}

func (r *receiver) StartStopwatch(name string) Stopwatch {
	if r.sink == NullSink {
		return nullStopwatch{}
	}
	return &stopwatch{
		name:      name,
		startTime: time.Now(),
		receiver:  r,
	}
}

func newReceiver(sink Sink, prefix string, tags Tags, hostname string) *receiver {
	return &receiver{
		prefix:   prefix,
		tags:     tags,
		hostname: hostname,
		tagList:  tagList(tags, hostname),
		scopes:   make(map[string]*receiver),
		sink:     sink,
	}
}

// NewReceiver returns a root Receiver whose records are attributed to hostname.
func NewReceiver(sink Sink, hostname string) Receiver {
	return newReceiver(sink, "", make(Tags), hostname)
}
