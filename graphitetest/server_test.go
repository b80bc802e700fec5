package graphitetest

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerRecordsLines(t *testing.T) {
	server, err := NewServer(0)
	require.NoError(t, err)
	defer server.Close()

	conn, err := net.Dial("tcp", server.Addr())
	require.NoError(t, err)
	defer conn.Close()

	_, err = io.WriteString(conn, "a.b.GAUGE 1 1700000000\na.c.COUNTER 2 1700000000\n")
	require.NoError(t, err)

	require.True(t, server.WaitForLines(2, 5*time.Second))
	assert.Equal(t, []string{"a.b.GAUGE 1 1700000000\n", "a.c.COUNTER 2 1700000000\n"}, server.Lines())
	assert.Equal(t, 1, server.Accepted())
}

func TestServerDropConnections(t *testing.T) {
	server, err := NewServer(0)
	require.NoError(t, err)
	defer server.Close()

	conn, err := net.Dial("tcp", server.Addr())
	require.NoError(t, err)
	defer conn.Close()
	_, err = io.WriteString(conn, "first 1 1\n")
	require.NoError(t, err)
	require.True(t, server.WaitForLines(1, 5*time.Second))

	server.DropConnections()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = bufio.NewReader(conn).ReadByte()
	assert.Error(t, err)

	second, err := net.Dial("tcp", server.Addr())
	require.NoError(t, err)
	defer second.Close()
	_, err = io.WriteString(second, "second 2 2\n")
	require.NoError(t, err)
	require.True(t, server.WaitForLines(2, 5*time.Second))
	assert.Equal(t, 2, server.Accepted())
}

func TestServerWaitTimesOut(t *testing.T) {
	server, err := NewServer(0)
	require.NoError(t, err)
	defer server.Close()
	assert.False(t, server.WaitForLines(1, 20*time.Millisecond))
}
