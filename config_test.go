package graphite

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixpanel/graphite/delivery"
	"github.com/mixpanel/graphite/obserr"
)

func TestParseServers(t *testing.T) {
	testCases := map[string][]string{
		"carbon":                    {"carbon:2003"},
		"carbon:2004":               {"carbon:2004"},
		"a, b:2004":                 {"a:2003", "b:2004"},
		"a b\tc":                    {"a:2003", "b:2003", "c:2003"},
		"10.0.0.1,[::1],[::1]:9":    {"10.0.0.1:2003", "[::1]:2003", "[::1]:9"},
		" carbon.example.com:2003 ": {"carbon.example.com:2003"},
	}
	for input, expected := range testCases {
		servers, err := ParseServers(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, servers, input)
	}
}

func TestParseServersErrors(t *testing.T) {
	for _, input := range []string{"", " , ", "a:0", "a:70000", "a:http", ":2003", "a:b:c"} {
		_, err := ParseServers(input)
		if assert.Error(t, err, input) {
			assert.Equal(t, obserr.KindConfig, obserr.KindOf(err), input)
		}
	}
}

func TestDecodeConfigDefaults(t *testing.T) {
	config, err := DecodeConfig(map[string]interface{}{"servers": "carbon"})
	require.NoError(t, err)
	assert.Equal(t, ServerList{"carbon"}, config.Servers)
	assert.Equal(t, 60000, config.RetrySocketInterval)
	assert.Equal(t, 10, config.SocketConnectionRetries)
	assert.Equal(t, "first", config.ConnectStrategy)
	assert.Equal(t, "oldest", config.DropPolicy)

	dc, err := config.DeliveryConfig()
	require.NoError(t, err)
	assert.Equal(t, delivery.Config{
		Servers:       []string{"carbon:2003"},
		RetryInterval: time.Minute,
		MaxRetries:    10,
		Strategy:      delivery.StrategyFirst,
		DropPolicy:    delivery.DropOldest,
	}, dc)
}

func TestDecodeConfigWeaklyTyped(t *testing.T) {
	config, err := DecodeConfig(map[string]interface{}{
		"servers":                   []interface{}{"a", "b:2004"},
		"retry_socket_interval":     "1500",
		"socket_connection_retries": 3,
		"connect_strategy":          "failover",
		"queue_capacity":            "100",
		"max_lines_per_second":      "250.5",
	})
	require.NoError(t, err)
	assert.Equal(t, ServerList{"a", "b:2004"}, config.Servers)
	assert.Equal(t, 1500, config.RetrySocketInterval)
	assert.Equal(t, 3, config.SocketConnectionRetries)
	assert.Equal(t, 100, config.QueueCapacity)
	assert.Equal(t, 250.5, config.MaxLinesPerSecond)

	dc, err := config.DeliveryConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"a:2003", "b:2004"}, dc.Servers)
	assert.Equal(t, 1500*time.Millisecond, dc.RetryInterval)
	assert.Equal(t, delivery.StrategyFailover, dc.Strategy)
}

func TestDecodeConfigErrors(t *testing.T) {
	_, err := DecodeConfig(map[string]interface{}{"servers": "a", "socket_connection_retries": "many"})
	assert.Equal(t, obserr.KindConfig, obserr.KindOf(err))

	config, err := DecodeConfig(map[string]interface{}{})
	require.NoError(t, err)
	_, err = config.DeliveryConfig()
	assert.Equal(t, obserr.KindConfig, obserr.KindOf(err))
}

func writeConfigFile(t *testing.T, contents string) string {
	f, err := ioutil.TempFile("", "graphite-config")
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(contents)
	require.NoError(t, err)
	return f.Name()
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
servers:
  - carbon-a
  - carbon-b:2004
retry_socket_interval: 250
connect_strategy: failover
write_timeout: 1000
`)
	defer os.Remove(path)

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, ServerList{"carbon-a", "carbon-b:2004"}, config.Servers)
	assert.Equal(t, 250, config.RetrySocketInterval)
	assert.Equal(t, 10, config.SocketConnectionRetries)
	assert.Equal(t, "failover", config.ConnectStrategy)
	assert.Equal(t, 1000, config.WriteTimeout)
}

func TestLoadConfigFileServerString(t *testing.T) {
	path := writeConfigFile(t, "servers: carbon-a, carbon-b\n")
	defer os.Remove(path)

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, ServerList{"carbon-a", "carbon-b"}, config.Servers)
}

func TestLoadConfigFileErrors(t *testing.T) {
	path := writeConfigFile(t, "servers: carbon\nretries: 3\n")
	defer os.Remove(path)

	_, err := LoadConfigFile(path)
	assert.Equal(t, obserr.KindConfig, obserr.KindOf(err))

	_, err = LoadConfigFile(path + ".missing")
	assert.Equal(t, obserr.KindConfig, obserr.KindOf(err))
}
