package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/jonboulle/clockwork"

	"github.com/mixpanel/graphite"
	"github.com/mixpanel/graphite/logging"
	"github.com/mixpanel/graphite/metrics"
	"github.com/mixpanel/graphite/util"
)

type Options struct {
	Hostname       string        `long:"hostname" description:"Hostname metrics are attributed to. defaults to the local hostname"`
	Prefix         string        `long:"prefix" default:"graphite_forwarder" description:"Prefix of the forwarder's own metrics"`
	FlushInterval  time.Duration `long:"flush-interval" default:"10s" description:"How often queued lines are written to graphite"`
	ReportInterval time.Duration `long:"report-interval" default:"60s" description:"How often process and delivery metrics are reported"`
	Stdin          bool          `long:"stdin" description:"Forward 'name value' lines read from stdin as gauges"`
}

func initOptions() (*Options, *graphite.Options) {
	var options Options
	parser := flags.NewParser(&options, flags.Default)
	graphiteOptions := graphite.NewOptions(parser)

	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	return &options, graphiteOptions
}

func main() {
	options, graphiteOptions := initOptions()
	log := graphiteOptions.NewLogger().Named("graphite-forwarder")

	if err := run(context.Background(), log, options, graphiteOptions); err != nil {
		log.Critical("exiting with error", logging.Fields{}.WithError(err))
		os.Exit(1)
	}

	log.Info("clean shutdown", logging.Fields{})
}

// run forwards until SIGINT or SIGTERM. The signal cancels the sink's context, which
// also cuts short a reconnect wait in progress.
func run(ctx context.Context, log logging.Logger, options *Options, graphiteOptions *graphite.Options) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	config, err := graphiteOptions.Config()
	if err != nil {
		return err
	}

	hostname, err := resolveHostname(options.Hostname)
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	sink, err := graphite.NewSink(ctx, config, graphite.WithLogger(log), graphite.WithClock(clock))
	if err != nil {
		return err
	}
	defer sink.Close()

	root := metrics.NewReceiver(sink, hostname)
	self := root.ScopePrefix(options.Prefix)
	graphite.ReportStandardMetrics(ctx, clock, options.ReportInterval, self)
	graphite.ReportSinkStats(ctx, clock, options.ReportInterval, sink, self)

	var input <-chan string
	if options.Stdin {
		input = readLines(ctx, bufio.NewScanner(os.Stdin))
	}
	ingested := self.ScopePrefix("stdin")

	ticker := time.NewTicker(options.FlushInterval)
	defer ticker.Stop()
	log.Info("forwarding metrics", logging.Fields{
		"hostname":       hostname,
		"flush_interval": options.FlushInterval.String(),
		"stdin":          options.Stdin,
	})

	flush := func() {
		sw := self.StartStopwatch("flush")
		_ = sink.Flush()
		sw.Stop()
	}
	for {
		select {
		case line, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			graphite.RecordError(ingested, log, ingest(root, line))
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			log.Info("shutting down", logging.Fields{"queued": sink.Pending()})
			if sink.Connected() {
				flush()
			}
			return nil
		}
	}
}

func resolveHostname(override string) (string, error) {
	if len(override) > 0 {
		return override, nil
	}
	info, err := util.LocalHostInfo()
	if err != nil || info == nil {
		return "", err
	}
	return info.Hostname, nil
}
