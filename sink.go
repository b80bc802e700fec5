// Package graphite forwards metric records to a Graphite server over the plaintext protocol.
package graphite

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/mixpanel/graphite/delivery"
	"github.com/mixpanel/graphite/logging"
	"github.com/mixpanel/graphite/metrics"
)

type Option func(*options)

type options struct {
	log   logging.Logger
	clock clockwork.Clock
	dial  delivery.DialFunc
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithClock sets the clock used both for line timestamps and for reconnect waits.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func WithDialer(dial delivery.DialFunc) Option {
	return func(o *options) {
		o.dial = dial
	}
}

// Sink formats records into Graphite plaintext lines and hands them to a
// delivery.Channel. It implements metrics.Sink.
type Sink struct {
	channel *delivery.Channel
	clock   clockwork.Clock
	log     logging.Logger
}

var _ metrics.Sink = (*Sink)(nil)

// Init decodes a property bag and builds a connected Sink.
func Init(ctx context.Context, props map[string]interface{}, opts ...Option) (*Sink, error) {
	config, err := DecodeConfig(props)
	if err != nil {
		return nil, err
	}
	return NewSink(ctx, config, opts...)
}

// NewSink makes a single connection attempt before returning. A failed attempt is only
// logged: the first Flush runs the reconnect cycle. Only configuration problems are
// returned.
func NewSink(ctx context.Context, config Config, opts ...Option) (*Sink, error) {
	o := options{
		log:   logging.Null,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	deliveryConfig, err := config.DeliveryConfig()
	if err != nil {
		return nil, err
	}

	channelOpts := []delivery.Option{delivery.WithLogger(o.log), delivery.WithClock(o.clock)}
	if o.dial != nil {
		channelOpts = append(channelOpts, delivery.WithDialer(o.dial))
	}
	channel, err := delivery.New(ctx, deliveryConfig, channelOpts...)
	if err != nil {
		return nil, err
	}

	o.log.Info("initializing graphite sink", logging.Fields{
		"servers":                   deliveryConfig.Servers,
		"retry_socket_interval":     deliveryConfig.RetryInterval.String(),
		"socket_connection_retries": deliveryConfig.MaxRetries,
		"connect_strategy":          string(deliveryConfig.Strategy),
	})
	_ = channel.Connect()

	return &Sink{
		channel: channel,
		clock:   o.clock,
		log:     o.log,
	}, nil
}

// PutMetrics formats every metric of record and enqueues the lines. It never does I/O.
func (s *Sink) PutMetrics(record metrics.Record) {
	s.channel.EnqueueAll(metrics.FormatLines(record, s.clock.Now()))
}

// Flush drains the queue. Delivery failures are logged, never returned.
func (s *Sink) Flush() error {
	s.channel.Flush()
	return nil
}

func (s *Sink) Close() {
	if err := s.channel.Close(); err != nil {
		s.log.Warn("error closing graphite sink", logging.Fields{}.WithError(err))
	}
}

func (s *Sink) Pending() int {
	return s.channel.Len()
}

func (s *Sink) Connected() bool {
	return s.channel.Connected()
}

func (s *Sink) Stats() delivery.Stats {
	return s.channel.Stats()
}
