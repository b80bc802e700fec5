package graphite

import (
	"io/ioutil"
	"net"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	"github.com/mixpanel/graphite/delivery"
	"github.com/mixpanel/graphite/obserr"
)

const (
	DefaultPort                    = 2003
	DefaultRetrySocketInterval     = 60000
	DefaultSocketConnectionRetries = 10
)

// ServerList is a list of host[:port] entries. It decodes from either a list or a
// single comma or space separated string.
type ServerList []string

func (s *ServerList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*s = list
		return nil
	}

	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*s = splitServers(raw)
	return nil
}

// Config is the property bag of the Graphite sink. Durations are in milliseconds.
type Config struct {
	Servers                 ServerList `mapstructure:"servers" yaml:"servers"`
	RetrySocketInterval     int        `mapstructure:"retry_socket_interval" yaml:"retry_socket_interval"`
	SocketConnectionRetries int        `mapstructure:"socket_connection_retries" yaml:"socket_connection_retries"`

	ConnectStrategy   string  `mapstructure:"connect_strategy" yaml:"connect_strategy"`
	QueueCapacity     int     `mapstructure:"queue_capacity" yaml:"queue_capacity"`
	DropPolicy        string  `mapstructure:"drop_policy" yaml:"drop_policy"`
	ConnectTimeout    int     `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	WriteTimeout      int     `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxLinesPerSecond float64 `mapstructure:"max_lines_per_second" yaml:"max_lines_per_second"`
}

func DefaultConfig() Config {
	return Config{
		RetrySocketInterval:     DefaultRetrySocketInterval,
		SocketConnectionRetries: DefaultSocketConnectionRetries,
		ConnectStrategy:         string(delivery.StrategyFirst),
		DropPolicy:              string(delivery.DropOldest),
	}
}

// DecodeConfig overlays props on the defaults. Values are weakly typed, so
// "60000" and 60000 are both accepted.
func DecodeConfig(props map[string]interface{}) (Config, error) {
	config := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       serverListHook,
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return config, obserr.Wrap(err, obserr.KindConfig, "building config decoder")
	}
	if err := decoder.Decode(props); err != nil {
		return config, obserr.Wrap(err, obserr.KindConfig, "decoding graphite properties")
	}
	return config, nil
}

func serverListHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(ServerList{}) || from.Kind() != reflect.String {
		return data, nil
	}
	return splitServers(reflect.ValueOf(data).String()), nil
}

// LoadConfigFile reads a YAML file holding the same keys as the property bag.
func LoadConfigFile(path string) (Config, error) {
	config := DefaultConfig()
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return config, obserr.Wrap(err, obserr.KindConfig, "reading graphite config").Set("path", path)
	}
	if err := yaml.UnmarshalStrict(contents, &config); err != nil {
		return config, obserr.Wrap(err, obserr.KindConfig, "parsing graphite config").Set("path", path)
	}
	return config, nil
}

// ParseServers splits a comma or space separated list of host[:port] entries and
// fills in the default port.
func ParseServers(servers string) ([]string, error) {
	return normalizeServers(splitServers(servers))
}

func splitServers(servers string) []string {
	return strings.FieldsFunc(servers, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func normalizeServers(entries []string) ([]string, error) {
	if len(entries) == 0 {
		return nil, obserr.Newf(obserr.KindConfig, "no graphite servers configured")
	}

	res := make([]string, 0, len(entries))
	for _, entry := range entries {
		address, err := normalizeServer(strings.TrimSpace(entry))
		if err != nil {
			return nil, err
		}
		res = append(res, address)
	}
	return res, nil
}

func normalizeServer(entry string) (string, error) {
	if len(entry) == 0 {
		return "", obserr.Newf(obserr.KindConfig, "empty graphite server entry")
	}

	host, port, err := net.SplitHostPort(entry)
	if err != nil {
		if !strings.Contains(err.Error(), "missing port") {
			return "", obserr.Wrap(err, obserr.KindConfig, "parsing graphite server").Set("server", entry)
		}
		host, port = strings.Trim(entry, "[]"), strconv.Itoa(DefaultPort)
	}
	if len(host) == 0 {
		return "", obserr.Newf(obserr.KindConfig, "graphite server %q has no host", entry)
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return "", obserr.Newf(obserr.KindConfig, "graphite server %q has invalid port %q", entry, port)
	}
	return net.JoinHostPort(host, port), nil
}

// DeliveryConfig normalizes the server list and converts the millisecond settings.
func (c Config) DeliveryConfig() (delivery.Config, error) {
	servers, err := normalizeServers(c.Servers)
	if err != nil {
		return delivery.Config{}, err
	}
	return delivery.Config{
		Servers:           servers,
		RetryInterval:     millis(c.RetrySocketInterval),
		MaxRetries:        c.SocketConnectionRetries,
		Strategy:          delivery.ConnectStrategy(c.ConnectStrategy),
		QueueCapacity:     c.QueueCapacity,
		DropPolicy:        delivery.DropPolicy(c.DropPolicy),
		ConnectTimeout:    millis(c.ConnectTimeout),
		WriteTimeout:      millis(c.WriteTimeout),
		MaxLinesPerSecond: c.MaxLinesPerSecond,
	}, nil
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
