package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/mixpanel/graphite"
	"github.com/mixpanel/graphite/logging"
	"github.com/mixpanel/graphite/metrics"
)

type Options struct {
	Hostname string        `long:"hostname" default:"graphite-spammer" description:"Hostname the synthetic metrics are attributed to"`
	Interval time.Duration `long:"interval" default:"60s" description:"Time between bursts"`
	Burst    int           `long:"burst" default:"100" description:"Metrics per burst"`
}

func main() {
	var options Options
	parser := flags.NewParser(&options, flags.Default)
	graphiteOptions := graphite.NewOptions(parser)
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	log := graphiteOptions.NewLogger().Named("graphite-spammer")
	config, err := graphiteOptions.Config()
	if err != nil {
		log.Critical("invalid configuration", logging.Fields{}.WithError(err))
		os.Exit(1)
	}
	sink, err := graphite.NewSink(context.Background(), config, graphite.WithLogger(log))
	if err != nil {
		log.Critical("unable to create graphite sink", logging.Fields{}.WithError(err))
		os.Exit(1)
	}
	defer sink.Close()

	r := metrics.NewReceiver(sink, options.Hostname).ScopePrefix("spammer")
	tick := time.After(0)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sig:
			return
		case <-tick:
			spam(r, options.Burst)
			_ = sink.Flush()
			log.Info("burst sent", logging.Fields{"burst": options.Burst, "queued": sink.Pending()})
			tick = time.After(options.Interval)
		}
	}
}

func spam(r metrics.Receiver, burst int) {
	sw := r.StartStopwatch("latency")
	defer sw.Stop()

	for i := 0; i < burst; i++ {
		r.Incr("test_counter")
		r.ScopeTags(metrics.Tags{"shard": string(rune('a' + i%4))}).SetGauge("test_gauge", rand.Float64())
	}
}
