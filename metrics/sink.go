package metrics

// Sink accepts records and forwards them somewhere. PutMetrics must not block on I/O;
// delivery happens on Flush.
type Sink interface {
	PutMetrics(record Record)
	Flush() error
	Close()
}
