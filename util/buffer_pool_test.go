package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPoolReuse(t *testing.T) {
	pool := NewBufferPool(1)
	buf := pool.Get()
	buf.WriteString("web01.load.GAUGE 1 10\n")
	pool.Put(buf)

	again := pool.Get()
	assert.True(t, buf == again)
	assert.Equal(t, 0, again.Len())
}

func TestBufferPoolDropsWhenFull(t *testing.T) {
	pool := NewBufferPool(1)
	pool.Put(&bytes.Buffer{})
	pool.Put(&bytes.Buffer{})
	assert.Len(t, pool, 1)
}

func TestBufferPoolDropsOversized(t *testing.T) {
	pool := NewBufferPool(1)
	big := bytes.NewBuffer(make([]byte, 0, maxPooledBufferSize+1))
	pool.Put(big)
	pool.Put(nil)
	assert.Len(t, pool, 0)
}
