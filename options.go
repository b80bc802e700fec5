package graphite

import (
	flags "github.com/jessevdk/go-flags"

	"github.com/mixpanel/graphite/logging"
	"github.com/mixpanel/graphite/metrics"
)

// Options is the command line face of Config plus the logging settings.
type Options struct {
	SyslogLevel string `long:"syslog.level" default:"NEVER" description:"One of CRIT, ERR, WARN, INFO, DEBUG, NEVER"`
	LogLevel    string `long:"log.level" default:"INFO" description:"One of CRIT, ERR, WARN, INFO, DEBUG, NEVER"`
	LogPath     string `long:"log.path" description:"File path to log. uses stderr if not set"`
	LogFormat   string `long:"log.format" description:"Format of log output" default:"text" choice:"text" choice:"json" choice:"human"`

	ConfigFile              string  `long:"config" description:"YAML file with the graphite settings. --servers still overrides its server list"`
	Servers                 string  `long:"servers" description:"Comma separated host[:port] list, port defaults to 2003"`
	RetrySocketInterval     int     `long:"retry-socket-interval" default:"60000" description:"Milliseconds between reconnect attempts"`
	SocketConnectionRetries int     `long:"socket-connection-retries" default:"10" description:"Reconnect attempts before giving up until the next flush"`
	ConnectStrategy         string  `long:"connect-strategy" default:"first" choice:"first" choice:"failover" description:"Which server each reconnect attempt targets"`
	QueueCapacity           int     `long:"queue-capacity" default:"0" description:"Maximum queued lines, 0 for unbounded"`
	DropPolicy              string  `long:"drop-policy" default:"oldest" choice:"oldest" choice:"newest" description:"Line dropped when the queue is full"`
	ConnectTimeout          int     `long:"connect-timeout" default:"0" description:"Connect timeout in milliseconds, 0 for the OS default"`
	WriteTimeout            int     `long:"write-timeout" default:"0" description:"Write timeout in milliseconds, 0 for none"`
	MaxLinesPerSecond       float64 `long:"max-lines-per-second" default:"0" description:"Write rate limit, 0 for unlimited"`
}

func NewOptions(parser *flags.Parser) *Options {
	options := &Options{}
	group, err := parser.AddGroup("Graphite", "", options)
	if err != nil {
		panic(err)
	}
	group.Namespace = "graphite"
	return options
}

func (opts *Options) NewLogger() logging.Logger {
	return logging.New(opts.SyslogLevel, opts.LogLevel, opts.LogPath, opts.LogFormat)
}

// Config builds the sink configuration. With a config file the file supplies every
// setting and only --servers is layered on top.
func (opts *Options) Config() (Config, error) {
	var config Config
	if len(opts.ConfigFile) > 0 {
		loaded, err := LoadConfigFile(opts.ConfigFile)
		if err != nil {
			return config, err
		}
		config = loaded
	} else {
		config = Config{
			RetrySocketInterval:     opts.RetrySocketInterval,
			SocketConnectionRetries: opts.SocketConnectionRetries,
			ConnectStrategy:         opts.ConnectStrategy,
			QueueCapacity:           opts.QueueCapacity,
			DropPolicy:              opts.DropPolicy,
			ConnectTimeout:          opts.ConnectTimeout,
			WriteTimeout:            opts.WriteTimeout,
			MaxLinesPerSecond:       opts.MaxLinesPerSecond,
		}
	}

	if len(opts.Servers) > 0 {
		config.Servers = splitServers(opts.Servers)
	}
	return config, nil
}

// RecordError counts err as a failure, or a success when it is nil.
func RecordError(receiver metrics.Receiver, log logging.Logger, err error) {
	if err != nil {
		receiver.Incr("failure")
		log.Debug("recording error", logging.Fields{}.WithError(err))
	} else {
		receiver.Incr("success")
	}
}
